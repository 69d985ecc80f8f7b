package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	env       string
	verbose   bool
	ratesFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tollcalc",
	Short: "Coverage checks and toll calculations over vehicle datasets",
	Long: `tollcalc runs tabular checks and toll computations over CSV datasets.

Every command reads one or more CSV files, runs a single transformation
and prints a summary. Use --out to write the resulting table as CSV.

Usage:
  go run ./cmd/tollcalc [command]

Examples:
  go run ./cmd/tollcalc coverage datasets/dataset-2.csv
  go run ./cmd/tollcalc car-matrix datasets/dataset-1.csv --out car_matrix.csv
  go run ./cmd/tollcalc toll-rate routes.csv intervals.csv distances.csv --rates config/rates.yaml
  go run ./cmd/tollcalc db-check`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment override (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&ratesFile, "rates", "", "rate config YAML (default is RATES_FILE or built-in rates)")
}
