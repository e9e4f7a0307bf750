package analysis

import (
	"gonum.org/v1/gonum/stat"

	"github.com/gossipnet/convergence-analysis-service/pkg/models"
)

// GroupedSummaries is the ordered result of one aggregation pass. Iteration
// order is the insertion order of each group's first record, so the output
// is deterministic for a fixed input order.
type GroupedSummaries struct {
	fields []models.Field
	order  []string
	groups map[string]*groupAccumulator
}

type groupAccumulator struct {
	key              models.GroupKey
	count            int
	convergedMetrics []float64
}

// Aggregate groups records by the Cartesian projection onto fields and
// computes per-group summary statistics in a single pass. Every record lands
// in exactly one group; the group counts sum to the input length.
func Aggregate(records []models.ExperimentRecord, cap float64, fields []models.Field) *GroupedSummaries {
	g := &GroupedSummaries{
		fields: fields,
		groups: make(map[string]*groupAccumulator),
	}

	for _, r := range records {
		key := make(models.GroupKey, len(fields))
		for i, f := range fields {
			key[i] = r.FieldValue(f)
		}
		mapKey := key.String()

		acc, exists := g.groups[mapKey]
		if !exists {
			acc = &groupAccumulator{key: key}
			g.groups[mapKey] = acc
			g.order = append(g.order, mapKey)
		}

		acc.count++
		if Classify(r, cap) {
			acc.convergedMetrics = append(acc.convergedMetrics, r.Metric)
		}
	}

	return g
}

// ByAlgorithm is the standing per-algorithm view.
func ByAlgorithm(records []models.ExperimentRecord, cap float64) *GroupedSummaries {
	return Aggregate(records, cap, []models.Field{models.FieldAlgorithm})
}

// ByTopology is the standing per-topology view.
func ByTopology(records []models.ExperimentRecord, cap float64) *GroupedSummaries {
	return Aggregate(records, cap, []models.Field{models.FieldTopology})
}

// Fields returns the grouping dimensions of this aggregation.
func (g *GroupedSummaries) Fields() []models.Field { return g.fields }

// Len returns the number of groups.
func (g *GroupedSummaries) Len() int { return len(g.order) }

// Get returns the summary for one group key, if present.
func (g *GroupedSummaries) Get(key models.GroupKey) (models.GroupSummary, bool) {
	acc, ok := g.groups[key.String()]
	if !ok {
		return models.GroupSummary{}, false
	}
	return acc.summary(), true
}

// Summaries returns every group summary in first-occurrence order.
func (g *GroupedSummaries) Summaries() []models.GroupSummary {
	out := make([]models.GroupSummary, 0, len(g.order))
	for _, mapKey := range g.order {
		out = append(out, g.groups[mapKey].summary())
	}
	return out
}

func (acc *groupAccumulator) summary() models.GroupSummary {
	s := models.GroupSummary{
		Key:            acc.key,
		Count:          acc.count,
		ConvergedCount: len(acc.convergedMetrics),
	}
	if acc.count > 0 {
		s.SuccessRatePct = float64(s.ConvergedCount) / float64(acc.count) * 100
	}
	if s.ConvergedCount > 0 {
		mean := stat.Mean(acc.convergedMetrics, nil)
		s.MeanConvergedMetric = &mean
	}
	return s
}
