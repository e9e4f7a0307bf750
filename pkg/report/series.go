package report

import (
	"fmt"
	"sort"

	"github.com/gossipnet/convergence-analysis-service/pkg/models"
)

// Point is one plottable observation.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Series is a styled point sequence ready for a rendering collaborator.
// Dashed/Hollow mark the non-converged treatment; the renderer decides what
// those mean in pixels.
type Series struct {
	Name   string  `json:"name"`
	Style  Style   `json:"style"`
	Dashed bool    `json:"dashed,omitempty"`
	Hollow bool    `json:"hollow,omitempty"`
	Points []Point `json:"points"`
}

// ConvergenceSeries builds metric-vs-network-size series from the labeled
// record sequence, one (algorithm, topology) pair per series, split into a
// converged segment and a dashed/hollow non-converged segment the way the
// summary plots draw them. Series come out in first-occurrence order of each
// pair, with the non-converged split after its converged counterpart.
func ConvergenceSeries(labeled []models.LabeledRecord, topologyStyles *StyleMap) []Series {
	type pair struct{ algorithm, topology string }

	var order []pair
	converged := make(map[pair][]Point)
	capped := make(map[pair][]Point)

	for _, r := range labeled {
		p := pair{string(r.Algorithm), string(r.Topology)}
		if _, seen := converged[p]; !seen {
			if _, seenCapped := capped[p]; !seenCapped {
				order = append(order, p)
			}
		}
		pt := Point{X: float64(r.NetworkSize), Y: r.Metric}
		if r.Converged {
			converged[p] = append(converged[p], pt)
		} else {
			capped[p] = append(capped[p], pt)
		}
	}

	var out []Series
	for _, p := range order {
		style := topologyStyles.Lookup(p.topology)
		if pts := converged[p]; len(pts) > 0 {
			out = append(out, Series{
				Name:   fmt.Sprintf("%s/%s (converged)", p.algorithm, p.topology),
				Style:  style,
				Points: pts,
			})
		}
		if pts := capped[p]; len(pts) > 0 {
			out = append(out, Series{
				Name:   fmt.Sprintf("%s/%s (did not converge)", p.algorithm, p.topology),
				Style:  style,
				Dashed: true,
				Hollow: true,
				Points: pts,
			})
		}
	}
	return out
}

// DegradationSeries builds degradation-vs-failure-rate series, one per
// failure model. Unavailable results are skipped: an undefined ratio has no
// point to plot. Points within a series are sorted by failure rate so line
// plots draw left to right.
func DegradationSeries(results []models.DegradationResult, failureStyles *StyleMap) []Series {
	var order []string
	byModel := make(map[string][]Point)

	for _, r := range results {
		if r.Unavailable {
			continue
		}
		model := string(r.FailureModel)
		if _, seen := byModel[model]; !seen {
			order = append(order, model)
		}
		byModel[model] = append(byModel[model], Point{X: r.FailureRate, Y: r.DegradationPct})
	}

	out := make([]Series, 0, len(order))
	for _, model := range order {
		pts := byModel[model]
		sort.Slice(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
		out = append(out, Series{
			Name:   model + " failures",
			Style:  failureStyles.Lookup(model),
			Points: pts,
		})
	}
	return out
}
