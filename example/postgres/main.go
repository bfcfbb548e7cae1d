package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/polinet/tradegraph"
	"github.com/polinet/tradegraph/helper"
	"github.com/polinet/tradegraph/model"
	"github.com/polinet/tradegraph/store"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		log.Fatalf("Failed to parse date: %v", err)
	}
	return t
}

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}
	database := helper.NewTestDatabase(dbConfig)
	defer database.Close()

	// The handler loads the SQL functions and creates the table on first use
	handler, err := store.NewTransactionsDBHandler(database, true)
	if err != nil {
		log.Fatalf("Failed to create transactions handler: %v", err)
	}

	ledger := []model.Transaction{
		{PoliticianID: "P1", PoliticianName: "Jane Doe", Party: "D", Chamber: "House", Security: "NVDA", Date: day("2024-01-02"), Side: model.TradeSideBuy, Value: 15000},
		{PoliticianID: "P2", PoliticianName: "John Roe", Party: "R", Chamber: "House", Security: "NVDA", Date: day("2024-01-05"), Side: model.TradeSideBuy, Value: 50000},
		{PoliticianID: "P3", PoliticianName: "Alex Poe", Party: "D", Chamber: "Senate", Security: "NVDA", Date: day("2024-01-09"), Side: model.TradeSideSell, Value: 8000,
			Metadata: model.Metadata{"suspicious": true}},
	}

	fmt.Println("Inserting ledger...")
	for i := range ledger {
		stored, err := handler.InsertTransaction(&ledger[i])
		if err != nil {
			log.Fatalf("Failed to insert transaction: %v", err)
		}
		fmt.Printf("  %s %s %s -> row %s\n", stored.PoliticianName, string(stored.Side), stored.Security, stored.RID)
	}

	count, err := handler.CountTransactions()
	if err != nil {
		log.Fatalf("Failed to count transactions: %v", err)
	}
	fmt.Printf("Ledger holds %d transactions\n\n", count)

	// Analyze straight from the store; the handler is a transaction source
	tg, err := tradegraph.New(nil)
	if err != nil {
		log.Fatalf("Failed to create tradegraph: %v", err)
	}

	graph, report, err := tg.AnalyzeSource(context.Background(), handler)
	if err != nil {
		log.Fatalf("Failed to analyze ledger: %v", err)
	}

	fmt.Printf("Analyzed %d nodes, %d co-trade edges, %d communities\n",
		report.Nodes, report.CoTradeEdges, len(report.Communities))
	for _, rank := range report.TopPoliticians {
		fmt.Printf("  %-10s score %.4f\n", rank.Name, rank.Score)
	}

	if err := tg.ExportConnected(os.Stdout, graph); err != nil {
		log.Fatalf("Failed to export graph: %v", err)
	}
}
