package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/polinet/tradegraph"
	"github.com/polinet/tradegraph/export"
	"github.com/polinet/tradegraph/model"
	"github.com/polinet/tradegraph/store"
)

func main() {
	input := flag.String("input", "transactions.csv", "path to the transaction CSV")
	output := flag.String("output", "congress_trading.gexf", "path of the GEXF file to write")
	window := flag.Int("window", 10, "co-trade window in days")
	connectedOnly := flag.Bool("connected-only", true, "drop nodes without any edge from the export")
	flag.Parse()

	config := model.DefaultAnalysisConfig()
	config.Build.WindowDays = *window

	tg, err := tradegraph.New(&config)
	if err != nil {
		log.Fatalf("Failed to create tradegraph: %v", err)
	}

	source, closeSource, err := store.NewCSVFileSource(*input)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *input, err)
	}
	defer closeSource()

	graph, report, err := tg.AnalyzeSource(context.Background(), source)
	if err != nil {
		log.Fatalf("Failed to analyze ledger: %v", err)
	}

	fmt.Printf("Analyzed %d nodes, %d co-trade edges, %d communities (%d malformed rows dropped)\n",
		report.Nodes, report.CoTradeEdges, len(report.Communities), report.DroppedTransactions)

	for _, summary := range report.Communities {
		fmt.Printf("Community %d: %d politicians, %d transactions", summary.ID, len(summary.Politicians), summary.Transactions)
		if len(summary.TopSecurities) > 0 {
			fmt.Printf(", most traded %s", summary.TopSecurities[0].Security)
		}
		fmt.Println()
	}

	opts := export.Options{ConnectedOnly: *connectedOnly}
	if err := export.WriteFile(*output, graph, opts); err != nil {
		log.Fatalf("Failed to export graph: %v", err)
	}
	fmt.Printf("Wrote %s\n", *output)
}
