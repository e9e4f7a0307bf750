package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	capFlag      float64
	metricColumn string
	schemaName   string
	configFile   string
	groupByFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "analyzer",
	Short: "Analyzer derives statistics from gossip/push-sum simulation results",
	Long: `Analyzer consumes tabular convergence results from distributed-algorithm
simulation experiments and produces classified records, baseline-relative
degradation figures, and grouped summary statistics.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Float64Var(&capFlag, "cap", 0, "Convergence cap; metrics at or above it count as non-converged (default from config)")
	rootCmd.PersistentFlags().StringVar(&metricColumn, "metric-column", "", "Name of the convergence metric column (default from schema)")
	rootCmd.PersistentFlags().StringVar(&schemaName, "schema", "failure-sweep", "Dataset schema preset: failure-sweep or size-sweep")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Pipeline config file")

	summaryCmd.Flags().StringVar(&groupByFlag, "group-by", "algorithm", "Comma-separated grouping fields")

	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(degradationCmd)
	rootCmd.AddCommand(summaryCmd)
}

func main() {
	Execute()
}
