package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed transactions.sql
var transactionsSQL string

// TransactionsFunctions lists the SQL functions the transaction store
// depends on, used to verify the schema after loading
var TransactionsFunctions = []string{
	"init_transactions",
	"insert_transaction",
	"select_transaction",
	"select_all_transactions",
	"select_transactions_by_politician",
	"select_transactions_by_date_range",
	"count_transactions",
	"delete_transaction",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadTransactionsSql loads the transaction store SQL functions. With force
// set, the functions are reloaded even when they already exist.
func LoadTransactionsSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, TransactionsFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing transactions functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(transactionsSQL)
	if err != nil {
		return fmt.Errorf("error executing transactions SQL: %w", err)
	}

	exist, err := checkFunctions(db, TransactionsFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL transactions functions loaded successfully")
	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
