package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/polinet/tradegraph"
	"github.com/polinet/tradegraph/model"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		log.Fatalf("Failed to parse date: %v", err)
	}
	return t
}

func main() {
	// A small in-memory ledger: three politicians trading the same stock
	// within days of each other, plus an unrelated pair
	transactions := []model.Transaction{
		{PoliticianID: "P1", PoliticianName: "Jane Doe", Party: "D", Chamber: "House", Security: "NVDA", Date: day("2024-01-02"), Side: model.TradeSideBuy, Value: 15000},
		{PoliticianID: "P2", PoliticianName: "John Roe", Party: "R", Chamber: "House", Security: "NVDA", Date: day("2024-01-05"), Side: model.TradeSideBuy, Value: 50000},
		{PoliticianID: "P3", PoliticianName: "Alex Poe", Party: "D", Chamber: "Senate", Security: "NVDA", Date: day("2024-01-09"), Side: model.TradeSideSell, Value: 8000},
		{PoliticianID: "P1", PoliticianName: "Jane Doe", Party: "D", Chamber: "House", Security: "MSFT", Date: day("2024-01-15"), Side: model.TradeSideBuy, Value: 15000},
		{PoliticianID: "P4", PoliticianName: "Sam Loe", Party: "R", Chamber: "Senate", Security: "XOM", Date: day("2024-03-01"), Side: model.TradeSideBuy, Value: 100000},
		{PoliticianID: "P5", PoliticianName: "Kim Noe", Party: "D", Chamber: "House", Security: "XOM", Date: day("2024-03-04"), Side: model.TradeSideBuy, Value: 25000},
	}

	// Default configuration: 10 day co-trade window, PageRank with 0.85
	// damping, sqrt display scaling
	tg, err := tradegraph.New(nil)
	if err != nil {
		log.Fatalf("Failed to create tradegraph: %v", err)
	}

	graph, report, err := tg.Analyze(transactions)
	if err != nil {
		log.Fatalf("Failed to analyze ledger: %v", err)
	}

	fmt.Printf("Run %s: %d nodes, %d edges (%d co-trades), %d communities\n",
		report.RunID, report.Nodes, report.Edges, report.CoTradeEdges, len(report.Communities))
	fmt.Printf("Modularity: %.3f\n\n", report.Modularity)

	fmt.Println("Most influential politicians:")
	for i, rank := range report.TopPoliticians {
		fmt.Printf("%2d. %-10s score %.4f community %d\n", i+1, rank.Name, rank.Score, rank.Community)
	}

	fmt.Println("\nTrading partners:")
	for _, partner := range report.Partners {
		fmt.Printf("  %s <-> %s (%g shared trades)\n", partner.PoliticianA, partner.PoliticianB, partner.Weight)
	}

	// Write the annotated graph for Gephi or any GEXF consumer
	f, err := os.Create("congress_trading.gexf")
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer f.Close()

	if err := tg.Export(f, graph); err != nil {
		log.Fatalf("Failed to export graph: %v", err)
	}
	fmt.Println("\nWrote congress_trading.gexf")
}
