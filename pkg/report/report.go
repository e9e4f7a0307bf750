package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gossipnet/convergence-analysis-service/pkg/models"
)

// Summary bundles the pipeline outputs the textual report is formatted from.
// Every number printed comes from these derived values; the report never
// reaches back into raw records.
type Summary struct {
	Labeled      []models.LabeledRecord
	Degradations []models.DegradationResult
	Baselines    []models.ExperimentRecord
	ByAlgorithm  []models.GroupSummary
	ByTopology   []models.GroupSummary
	MetricUnit   string
	Cap          float64
}

// WriteSummary renders the textual analysis summary.
func WriteSummary(w io.Writer, s Summary) error {
	fmt.Fprintf(w, "CONVERGENCE ANALYSIS SUMMARY\n")
	fmt.Fprintf(w, "Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", 70))

	if len(s.Labeled) == 0 {
		fmt.Fprintf(w, "No records available.\n")
		return nil
	}

	writeDatasetSection(w, s)
	writeBaselineSection(w, s)
	writeGroupSection(w, "BY ALGORITHM", s.ByAlgorithm, s.MetricUnit)
	writeGroupSection(w, "BY TOPOLOGY", s.ByTopology, s.MetricUnit)
	writeDegradationSection(w, s)
	writeObservationsSection(w, s)

	return nil
}

func writeDatasetSection(w io.Writer, s Summary) {
	fmt.Fprintf(w, "DATASET\n")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 40))
	fmt.Fprintf(w, "Total records: %d\n", len(s.Labeled))

	converged := 0
	for _, r := range s.Labeled {
		if r.Converged {
			converged++
		}
	}
	rate := float64(converged) / float64(len(s.Labeled)) * 100
	fmt.Fprintf(w, "Convergence success rate: %.1f%% (%d/%d, cap %g %s)\n",
		rate, converged, len(s.Labeled), s.Cap, s.MetricUnit)

	fmt.Fprintf(w, "Algorithms: %s\n", strings.Join(distinct(s.Labeled, models.FieldAlgorithm), ", "))
	fmt.Fprintf(w, "Topologies: %s\n", strings.Join(distinct(s.Labeled, models.FieldTopology), ", "))
	fmt.Fprintf(w, "Failure models: %s\n\n", strings.Join(distinct(s.Labeled, models.FieldFailureModel), ", "))
}

func writeBaselineSection(w io.Writer, s Summary) {
	if len(s.Baselines) == 0 {
		return
	}
	fmt.Fprintf(w, "BASELINE PERFORMANCE (NO FAILURES)\n")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 40))
	for _, b := range s.Baselines {
		if b.NetworkSize > 0 {
			fmt.Fprintf(w, "%s on %s (n=%d): %g %s\n", b.Algorithm, b.Topology, b.NetworkSize, b.Metric, s.MetricUnit)
		} else {
			fmt.Fprintf(w, "%s on %s: %g %s\n", b.Algorithm, b.Topology, b.Metric, s.MetricUnit)
		}
	}
	fmt.Fprintf(w, "\n")
}

func writeGroupSection(w io.Writer, title string, groups []models.GroupSummary, unit string) {
	if len(groups) == 0 {
		return
	}
	fmt.Fprintf(w, "%s\n", title)
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 40))
	fmt.Fprintf(w, "%-20s %8s %10s %10s %14s\n", "Group", "Count", "Converged", "Success%", "Mean ("+unit+")")
	for _, g := range groups {
		mean := "n/a"
		if g.MeanConvergedMetric != nil {
			mean = fmt.Sprintf("%.1f", *g.MeanConvergedMetric)
		}
		fmt.Fprintf(w, "%-20s %8d %10d %10.1f %14s\n",
			g.Key.String(), g.Count, g.ConvergedCount, g.SuccessRatePct, mean)
	}
	fmt.Fprintf(w, "\n")
}

func writeDegradationSection(w io.Writer, s Summary) {
	if len(s.Degradations) == 0 {
		return
	}
	fmt.Fprintf(w, "DEGRADATION VS BASELINE\n")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 40))

	var order []models.FailureModel
	sums := make(map[models.FailureModel]float64)
	counts := make(map[models.FailureModel]int)
	unavailable := 0

	for _, d := range s.Degradations {
		if d.Unavailable {
			unavailable++
			continue
		}
		if _, seen := counts[d.FailureModel]; !seen {
			order = append(order, d.FailureModel)
		}
		sums[d.FailureModel] += d.DegradationPct
		counts[d.FailureModel]++
	}

	for _, model := range order {
		mean := sums[model] / float64(counts[model])
		fmt.Fprintf(w, "%-12s mean degradation: %+.1f%% over %d records\n", model, mean, counts[model])
	}
	if unavailable > 0 {
		fmt.Fprintf(w, "%d result(s) unavailable (degenerate baseline)\n", unavailable)
	}
	fmt.Fprintf(w, "\n")
}

func writeObservationsSection(w io.Writer, s Summary) {
	fmt.Fprintf(w, "KEY OBSERVATIONS\n")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 40))

	n := 1
	if mean, count := meanDegradationFor(s.Degradations, models.AlgorithmGossip, ""); count > 0 {
		fmt.Fprintf(w, "%d. Gossip shows %s under failures\n", n, describeChange(mean))
		n++
	}
	if mean, count := meanDegradationFor(s.Degradations, models.AlgorithmPushSum, models.FailureConnection); count > 0 {
		fmt.Fprintf(w, "%d. Push-sum shows %s under connection failures\n", n, describeChange(mean))
		n++
	}
	if worst, ok := worstDegradation(s.Degradations); ok {
		fmt.Fprintf(w, "%d. Worst degradation: %s on %s, %s rate %g: %+.1f%%\n",
			n, worst.Record.Algorithm, worst.Record.Topology, worst.FailureModel, worst.FailureRate, worst.DegradationPct)
		n++
	}
	for _, g := range s.ByTopology {
		if g.ConvergedCount == 0 {
			fmt.Fprintf(w, "%d. No trial converged on the %s topology within the cap\n", n, g.Key.String())
			n++
		}
	}
}

func meanDegradationFor(results []models.DegradationResult, algorithm models.Algorithm, model models.FailureModel) (float64, int) {
	sum, count := 0.0, 0
	for _, d := range results {
		if d.Unavailable || d.Record.Algorithm != algorithm {
			continue
		}
		if model != "" && d.FailureModel != model {
			continue
		}
		sum += d.DegradationPct
		count++
	}
	if count == 0 {
		return 0, 0
	}
	return sum / float64(count), count
}

func worstDegradation(results []models.DegradationResult) (models.DegradationResult, bool) {
	var worst models.DegradationResult
	found := false
	for _, d := range results {
		if d.Unavailable {
			continue
		}
		if !found || d.DegradationPct > worst.DegradationPct {
			worst = d
			found = true
		}
	}
	return worst, found
}

func describeChange(meanPct float64) string {
	if meanPct < 0 {
		return fmt.Sprintf("%.1f%% average improvement", -meanPct)
	}
	return fmt.Sprintf("%.1f%% average degradation", meanPct)
}

// distinct lists the values of one dimension in first-occurrence order.
func distinct(labeled []models.LabeledRecord, f models.Field) []string {
	var order []string
	seen := make(map[string]bool)
	for _, r := range labeled {
		v := r.FieldValue(f)
		if !seen[v] {
			seen[v] = true
			order = append(order, v)
		}
	}
	return order
}
