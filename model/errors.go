package model

import "errors"

// Sentinel errors for the analysis pipeline. Callers match them with errors.Is.
var (
	// ErrMalformedTransaction marks a transaction record missing a politician
	// id, a security id or a parseable date. Such rows are dropped and counted,
	// never silently ignored.
	ErrMalformedTransaction = errors.New("malformed transaction")

	// ErrEmptyInput is returned when no transactions survive filtering and the
	// configuration does not permit an empty graph.
	ErrEmptyInput = errors.New("no transactions after filtering")

	// ErrNonConvergence is returned when centrality iteration exhausts its
	// iteration budget. Best-effort scores are still returned alongside it.
	ErrNonConvergence = errors.New("centrality iteration did not converge")

	// ErrInvalidConfiguration is returned before any processing when a
	// configuration value is out of range.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
