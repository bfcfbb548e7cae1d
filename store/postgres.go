package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/polinet/tradegraph/helper"
	"github.com/polinet/tradegraph/model"
	loadSql "github.com/polinet/tradegraph/sql"
)

// StoredTransaction is a transaction record as persisted by the store,
// carrying the surrogate id and row id assigned by the database
type StoredTransaction struct {
	ID        int64
	RID       uuid.UUID
	CreatedAt time.Time
	model.Transaction
}

// TransactionsDBHandlerFunctions defines the interface for the transaction
// store database operations.
type TransactionsDBHandlerFunctions interface {
	InsertTransaction(tx *model.Transaction) (*StoredTransaction, error)
	SelectTransaction(rid uuid.UUID) (*StoredTransaction, error)
	SelectAllTransactions() ([]*StoredTransaction, error)
	SelectTransactionsByPolitician(politicianID string) ([]*StoredTransaction, error)
	SelectTransactionsByDateRange(dateRange model.DateRange) ([]*StoredTransaction, error)
	CountTransactions() (int64, error)
	DeleteTransaction(rid uuid.UUID) error
}

// TransactionsDBHandler handles transaction persistence in PostgreSQL
type TransactionsDBHandler struct {
	db *helper.Database
}

// NewTransactionsDBHandler creates a new transactions database handler.
// It loads the transaction SQL functions and initializes the table.
// If force is true, it will reload the SQL functions even if they already exist.
func NewTransactionsDBHandler(db *helper.Database, force bool) (*TransactionsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	handler := &TransactionsDBHandler{
		db: db,
	}

	err := loadSql.LoadTransactionsSql(handler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load transactions sql", err)
	}

	err = handler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized TransactionsDBHandler")

	return handler, nil
}

// CreateTable creates the 'transactions' table and its indexes.
// If the table already exists, it does not create it again.
func (h *TransactionsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_transactions();`)
	if err != nil {
		return helper.NewError("initialize transactions table", err)
	}

	h.db.Logger.Info("Checked/created table transactions")

	return nil
}

// InsertTransaction inserts a new transaction record
func (h *TransactionsDBHandler) InsertTransaction(tx *model.Transaction) (*StoredTransaction, error) {
	metadata := tx.Metadata
	if metadata == nil {
		metadata = model.Metadata{}
	}

	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_transaction($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		tx.PoliticianID,
		tx.PoliticianName,
		tx.Party,
		tx.Chamber,
		tx.Security,
		tx.Date,
		string(tx.Side),
		tx.Value,
		metadata,
	)

	return scanStoredTransaction(row)
}

// SelectTransaction retrieves a transaction by row id
func (h *TransactionsDBHandler) SelectTransaction(rid uuid.UUID) (*StoredTransaction, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_transaction($1)`,
		rid,
	)
	return scanStoredTransaction(row)
}

// SelectAllTransactions retrieves the full ledger ordered by date
func (h *TransactionsDBHandler) SelectAllTransactions() ([]*StoredTransaction, error) {
	rows, err := h.db.Instance.Query(`SELECT * FROM select_all_transactions()`)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanStoredTransactions(rows)
}

// SelectTransactionsByPolitician retrieves one politician's transactions
func (h *TransactionsDBHandler) SelectTransactionsByPolitician(politicianID string) ([]*StoredTransaction, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_transactions_by_politician($1)`,
		politicianID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanStoredTransactions(rows)
}

// SelectTransactionsByDateRange retrieves the ledger inside a date range;
// a zero bound is unbounded on that side
func (h *TransactionsDBHandler) SelectTransactionsByDateRange(dateRange model.DateRange) ([]*StoredTransaction, error) {
	var start, end interface{}
	if !dateRange.Start.IsZero() {
		start = dateRange.Start
	}
	if !dateRange.End.IsZero() {
		end = dateRange.End
	}

	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_transactions_by_date_range($1, $2)`,
		start,
		end,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanStoredTransactions(rows)
}

// CountTransactions returns the ledger size
func (h *TransactionsDBHandler) CountTransactions() (int64, error) {
	var count int64
	err := h.db.Instance.QueryRow(`SELECT count_transactions()`).Scan(&count)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}
	return count, nil
}

// DeleteTransaction removes a transaction by row id
func (h *TransactionsDBHandler) DeleteTransaction(rid uuid.UUID) error {
	var deleted bool
	err := h.db.Instance.QueryRow(`SELECT delete_transaction($1)`, rid).Scan(&deleted)
	if err != nil {
		return helper.NewError("scan", err)
	}
	if !deleted {
		return helper.NewError("delete transaction", sql.ErrNoRows)
	}
	return nil
}

// Transactions satisfies Source, supplying the full ledger to the pipeline
func (h *TransactionsDBHandler) Transactions(ctx context.Context) ([]model.Transaction, error) {
	stored, err := h.SelectAllTransactions()
	if err != nil {
		return nil, err
	}
	transactions := make([]model.Transaction, 0, len(stored))
	for _, s := range stored {
		transactions = append(transactions, s.Transaction)
	}
	return transactions, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStoredTransaction(row rowScanner) (*StoredTransaction, error) {
	stored := &StoredTransaction{}
	var side string
	err := row.Scan(
		&stored.ID,
		&stored.RID,
		&stored.PoliticianID,
		&stored.PoliticianName,
		&stored.Party,
		&stored.Chamber,
		&stored.Security,
		&stored.Date,
		&side,
		&stored.Value,
		&stored.Metadata,
		&stored.CreatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}
	stored.Side = model.TradeSide(side)
	return stored, nil
}

func scanStoredTransactions(rows *sql.Rows) ([]*StoredTransaction, error) {
	var stored []*StoredTransaction
	for rows.Next() {
		s, err := scanStoredTransaction(rows)
		if err != nil {
			return nil, err
		}
		stored = append(stored, s)
	}
	if err := rows.Err(); err != nil {
		return nil, helper.NewError("iterate rows", err)
	}
	return stored, nil
}
