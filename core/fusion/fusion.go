package fusion

import (
	"math"

	"github.com/polinet/tradegraph/model"
)

// Annotate merges the community assignment and centrality scores onto each
// node as first-class annotations, and derives a bounded display size for
// politician nodes. The display size is consumed only by the external
// renderer, never by the detector or analyzer.
func Annotate(graph *model.Graph, communities map[string]int, scores map[string]float64, render model.RenderConfig) {
	maxScore := 0.0
	for _, node := range graph.Nodes() {
		if node.Kind != model.NodeKindPolitician {
			continue
		}
		if s, ok := scores[node.Key]; ok && s > maxScore {
			maxScore = s
		}
	}

	for _, node := range graph.Nodes() {
		if c, ok := communities[node.Key]; ok {
			node.Annotate(model.AnnotationCommunityID, c)
		}
		score, ok := scores[node.Key]
		if !ok {
			continue
		}
		node.Annotate(model.AnnotationPageRankScore, score)

		if node.Kind == model.NodeKindPolitician {
			node.Annotate(model.AnnotationDisplaySize, displaySize(score, maxScore, render))
		}
	}
}

// displaySize maps a score monotonically into [MinSize, MaxSize], relative
// to the highest politician score of the run
func displaySize(score, maxScore float64, render model.RenderConfig) float64 {
	if maxScore <= 0 {
		return render.MinSize
	}
	ratio := score / maxScore
	if render.Scale == model.SizeScaleSqrt {
		ratio = math.Sqrt(ratio)
	}
	return render.MinSize + ratio*(render.MaxSize-render.MinSize)
}
