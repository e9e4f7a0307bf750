package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gossipnet/convergence-analysis-service/pkg/analysis"
	"github.com/gossipnet/convergence-analysis-service/pkg/dataset"
	"github.com/gossipnet/convergence-analysis-service/pkg/models"
	"github.com/gossipnet/convergence-analysis-service/pkg/report"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <results.csv>",
	Short: "Label each record converged/non-converged against the cap",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, cfg, _, err := loadRecords(args[0])
		if err != nil {
			return err
		}

		labeled := analysis.LabelRecords(records, cfg.ConvergenceCap())
		fmt.Printf("%-10s %-12s %-12s %8s %8s %12s  %s\n",
			"algorithm", "topology", "failure", "rate", "size", "metric", "converged")
		for _, r := range labeled {
			fmt.Printf("%-10s %-12s %-12s %8g %8d %12g  %t\n",
				r.Algorithm, r.Topology, r.FailureModel, r.FailureRate, r.NetworkSize, r.Metric, r.Converged)
		}
		return nil
	},
}

var degradationCmd = &cobra.Command{
	Use:   "degradation <results.csv>",
	Short: "Compute baseline-relative degradation for every failure record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, cfg, _, err := loadRecords(args[0])
		if err != nil {
			return err
		}

		resolver := analysis.NewBaselineResolver(records)
		results, err := analysis.ComputeDegradation(records, resolver, cfg.BaselineGranularity())
		if err != nil {
			return err
		}

		fmt.Printf("%-10s %-12s %-12s %8s %14s\n", "algorithm", "topology", "failure", "rate", "degradation")
		for _, d := range results {
			if d.Unavailable {
				fmt.Printf("%-10s %-12s %-12s %8g %14s\n",
					d.Record.Algorithm, d.Record.Topology, d.FailureModel, d.FailureRate, "unavailable")
				continue
			}
			fmt.Printf("%-10s %-12s %-12s %8g %+13.2f%%\n",
				d.Record.Algorithm, d.Record.Topology, d.FailureModel, d.FailureRate, d.DegradationPct)
		}
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary <results.csv>",
	Short: "Print grouped summaries and the full analysis report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, cfg, schema, err := loadRecords(args[0])
		if err != nil {
			return err
		}

		var fields []models.Field
		for _, name := range strings.Split(groupByFlag, ",") {
			field, err := models.ParseField(strings.TrimSpace(name))
			if err != nil {
				return err
			}
			fields = append(fields, field)
		}

		cap := cfg.ConvergenceCap()
		resolver := analysis.NewBaselineResolver(records)
		degradations, degErr := analysis.ComputeDegradation(records, resolver, cfg.BaselineGranularity())
		if degErr != nil {
			// Other computations still complete; note the gap and move on.
			fmt.Fprintf(os.Stderr, "degradation skipped: %v\n", degErr)
		}

		grouped := analysis.Aggregate(records, cap, fields)
		fmt.Printf("Grouped by %s:\n", groupByFlag)
		for _, g := range grouped.Summaries() {
			mean := "n/a"
			if g.MeanConvergedMetric != nil {
				mean = fmt.Sprintf("%.1f %s", *g.MeanConvergedMetric, schema.MetricUnit)
			}
			fmt.Printf("  %-24s count=%d converged=%d success=%.1f%% mean=%s\n",
				g.Key.String(), g.Count, g.ConvergedCount, g.SuccessRatePct, mean)
		}
		fmt.Println()

		return report.WriteSummary(os.Stdout, report.Summary{
			Labeled:      analysis.LabelRecords(records, cap),
			Degradations: degradations,
			Baselines:    resolver.Baselines(),
			ByAlgorithm:  analysis.ByAlgorithm(records, cap).Summaries(),
			ByTopology:   analysis.ByTopology(records, cap).Summaries(),
			MetricUnit:   schema.MetricUnit,
			Cap:          cap,
		})
	},
}

// loadRecords resolves flags into a pipeline config and schema, then loads
// the record store.
func loadRecords(path string) ([]models.ExperimentRecord, *analysis.Config, dataset.Schema, error) {
	cfg := analysis.NewConfig()
	if configFile != "" {
		if err := cfg.LoadFromFile(configFile); err != nil {
			return nil, nil, dataset.Schema{}, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if capFlag > 0 {
		cfg.Set("pipeline.convergence_cap", capFlag)
	}
	if metricColumn != "" {
		cfg.Set("pipeline.metric_column", metricColumn)
	}

	schema, ok := dataset.SchemaByName(schemaName)
	if !ok {
		return nil, nil, dataset.Schema{}, fmt.Errorf("unknown schema: %q", schemaName)
	}
	if metricColumn != "" {
		schema.MetricColumn = metricColumn
	}

	store, err := dataset.Load(path, schema)
	if err != nil {
		return nil, nil, dataset.Schema{}, err
	}
	return store.Records(), cfg, schema, nil
}
