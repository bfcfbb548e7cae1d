// Package tradegraph turns a flat ledger of stock transactions by public
// officials into a weighted graph that reveals which officials trade in
// coordinated patterns, and ranks them by influence within that graph.
//
// The pipeline is strictly sequential: the builder produces the bipartite
// politician/transaction graph with co-trade edges, the community detector
// partitions the co-trade layer by modularity optimization, the centrality
// analyzer scores every node with PageRank, and attribute fusion writes the
// results back onto the graph for the exporter.
package tradegraph

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/polinet/tradegraph/core/build"
	"github.com/polinet/tradegraph/core/centrality"
	"github.com/polinet/tradegraph/core/community"
	"github.com/polinet/tradegraph/core/fusion"
	"github.com/polinet/tradegraph/export"
	"github.com/polinet/tradegraph/helper"
	"github.com/polinet/tradegraph/model"
	"github.com/polinet/tradegraph/store"
)

// TradeGraph wires the pipeline stages together behind a single entry point
type TradeGraph struct {
	Builder  *build.Builder
	Detector *community.Detector
	Ranker   *centrality.Ranker
	config   model.AnalysisConfig
	// Logging
	log *slog.Logger
}

// New creates a TradeGraph for the given configuration, failing fast on
// invalid configuration values. A nil config uses the defaults.
func New(config *model.AnalysisConfig) (*TradeGraph, error) {
	if config == nil {
		defaults := model.DefaultAnalysisConfig()
		config = &defaults
	}
	if err := config.Validate(); err != nil {
		return nil, helper.NewError("validate configuration", err)
	}

	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	return newWithLogger(*config, logger), nil
}

// NewWithLogger creates a TradeGraph logging through the given logger
func NewWithLogger(config *model.AnalysisConfig, logger *slog.Logger) (*TradeGraph, error) {
	if config == nil {
		defaults := model.DefaultAnalysisConfig()
		config = &defaults
	}
	if err := config.Validate(); err != nil {
		return nil, helper.NewError("validate configuration", err)
	}
	return newWithLogger(*config, logger), nil
}

func newWithLogger(config model.AnalysisConfig, logger *slog.Logger) *TradeGraph {
	return &TradeGraph{
		Builder:  build.NewBuilder(config.Build, logger),
		Detector: community.NewDetector(config.Detect, logger),
		Ranker:   centrality.NewRanker(config.Rank, logger),
		config:   config,
		log:      logger,
	}
}

// Analyze runs the full pipeline on an in-memory ledger and returns the
// annotated graph with a run report. When PageRank exhausts its iteration
// budget, the graph and report carry the best-effort scores and the ranking
// error is returned alongside them; every other error aborts the run with no
// partial graph.
func (t *TradeGraph) Analyze(transactions []model.Transaction) (*model.Graph, *AnalysisReport, error) {
	result, err := t.Builder.Build(transactions)
	if err != nil {
		return nil, nil, err
	}

	communities, err := t.Detector.Detect(result.Graph)
	if err != nil {
		return nil, nil, err
	}

	scores, rankErr := t.Ranker.Rank(result.Graph)
	if rankErr != nil && !errors.Is(rankErr, model.ErrNonConvergence) {
		return nil, nil, rankErr
	}

	fusion.Annotate(result.Graph, communities, scores, t.config.Render)

	report := newReport(result.Graph, communities, scores)
	report.DroppedTransactions = result.Dropped
	report.Converged = rankErr == nil

	t.log.Info("Analysis complete",
		slog.String("run_id", report.RunID.String()),
		slog.Int("nodes", report.Nodes),
		slog.Int("edges", report.Edges),
		slog.Int("communities", len(report.Communities)))

	if rankErr != nil {
		return result.Graph, report, rankErr
	}
	return result.Graph, report, nil
}

// AnalyzeSource pulls the ledger from a transaction source and analyzes it
func (t *TradeGraph) AnalyzeSource(ctx context.Context, source store.Source) (*model.Graph, *AnalysisReport, error) {
	transactions, err := source.Transactions(ctx)
	if err != nil {
		return nil, nil, helper.NewError("read transaction source", err)
	}
	return t.Analyze(transactions)
}

// Export writes the annotated graph to w as GEXF with all attributes
func (t *TradeGraph) Export(w io.Writer, graph *model.Graph) error {
	return export.Write(w, graph)
}

// ExportConnected writes only the connected part of the graph, the subgraph
// the rendering path consumes
func (t *TradeGraph) ExportConnected(w io.Writer, graph *model.Graph) error {
	return export.WriteWithOptions(w, graph, export.Options{ConnectedOnly: true})
}
