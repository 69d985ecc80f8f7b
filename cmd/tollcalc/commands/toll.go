package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wonny/tollcalc/internal/store"
	"github.com/wonny/tollcalc/internal/table"
	"github.com/wonny/tollcalc/internal/toll"
	"github.com/wonny/tollcalc/pkg/database"
)

var (
	tollOut  string
	tollSave bool
)

// tollRateCmd joins routes, intervals and distances and prices each vehicle type
var tollRateCmd = &cobra.Command{
	Use:   "toll-rate <routes.csv> <intervals.csv> <distances.csv>",
	Short: "Compute per-vehicle toll rates from counts and distances",
	Long: `Joins routes with intervals on id_2, then with the unrolled distance table
on (id_1, id_2) = (id_start, id_end), and adds one <vehicle>_toll_rate column
per vehicle type: factor x count x distance. Factors come from the rate config.

Example:
  go run ./cmd/tollcalc toll-rate dataset-1.csv dataset-2.csv unrolled.csv --out toll.csv`,
	Args: cobra.ExactArgs(3),
	RunE: runTollRate,
}

// timeTollCmd assigns time-of-day rates
var timeTollCmd = &cobra.Command{
	Use:   "time-toll <intervals.csv>",
	Short: "Assign a time-of-day toll rate to every interval",
	Long: `Adds a time_based_toll_rate column from the time bands of the rate config.
Bands are half-open [start, end) and the first band containing startTime wins.
Rows whose start does not parse or falls in no band get rate 0.

Required columns: startDay, startTime

Example:
  go run ./cmd/tollcalc time-toll datasets/dataset-2.csv --rates config/rates.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runTimeToll,
}

func init() {
	tollRateCmd.Flags().StringVar(&tollOut, "out", "", "write the result table as CSV")
	tollRateCmd.Flags().BoolVar(&tollSave, "save", false, "persist the table to PostgreSQL (requires DATABASE_URL)")

	timeTollCmd.Flags().StringVar(&tollOut, "out", "", "write the result table as CSV")
	timeTollCmd.Flags().BoolVar(&tollSave, "save", false, "persist the table to PostgreSQL (requires DATABASE_URL)")

	rootCmd.AddCommand(tollRateCmd)
	rootCmd.AddCommand(timeTollCmd)
}

func runTollRate(cmd *cobra.Command, args []string) error {
	rt, err := newApp()
	if err != nil {
		return err
	}

	inputs := make([]*table.Table, len(args))
	for i, path := range args {
		if inputs[i], err = rt.loadTable(path); err != nil {
			return err
		}
	}

	result := toll.JoinAndRate(inputs[0], inputs[1], inputs[2], rt.rates.TollFactors())
	if result.Len() == 0 {
		PrintWarning("Join produced no rows; check id_1/id_2 and id_start/id_end columns")
	}

	PrintHeader(fmt.Sprintf("Toll Rates (%d rows)", result.Len()))
	if err := rt.emit(result, tollOut); err != nil {
		return err
	}
	return saveTable(cmd, rt, result)
}

func runTimeToll(cmd *cobra.Command, args []string) error {
	rt, err := newApp()
	if err != nil {
		return err
	}

	t, err := rt.loadTable(args[0])
	if err != nil {
		return err
	}

	result, err := toll.AssignTimeRates(t, rt.rates.Schedule())
	if err != nil {
		return fmt.Errorf("time toll: %w", err)
	}

	PrintHeader(fmt.Sprintf("Time-based Toll Rates (%d rows)", result.Len()))
	if err := rt.emit(result, tollOut); err != nil {
		return err
	}
	return saveTable(cmd, rt, result)
}

// saveTable persists t under a fresh run id when --save is set
func saveTable(cmd *cobra.Command, rt *app, t *table.Table) error {
	if !tollSave {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := database.New(ctx, rt.cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	repo := store.NewRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	runID := uuid.NewString()
	if err := repo.SaveTable(ctx, runID, t.Name, t); err != nil {
		return err
	}

	rt.log.WithFields(map[string]interface{}{
		"run_id": runID,
		"table":  t.Name,
		"rows":   t.Len(),
	}).Info("table saved")
	PrintSuccess(fmt.Sprintf("Saved %s as run %s", t.Name, runID))
	return nil
}
