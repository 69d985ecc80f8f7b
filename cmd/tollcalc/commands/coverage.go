package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wonny/tollcalc/internal/coverage"
	"github.com/wonny/tollcalc/internal/store"
	"github.com/wonny/tollcalc/internal/table"
	"github.com/wonny/tollcalc/pkg/database"
	"github.com/wonny/tollcalc/pkg/redis"
)

var (
	coverageOut  string
	coverageSave bool
)

// coverageCmd represents the coverage command
var coverageCmd = &cobra.Command{
	Use:   "coverage <intervals.csv>",
	Short: "Check that every (id, id_2) pair covers a full day and a full week",
	Long: `Checks interval records grouped by (id, id_2).

A group covers a full day when every record spans at least coverage.min_hours,
and a full week when every record spans at least coverage.min_days whole days.
Records whose start or end does not parse are dropped before grouping.

Required columns: id, id_2, startDay, startTime, endDay, endTime

Example:
  go run ./cmd/tollcalc coverage datasets/dataset-2.csv
  go run ./cmd/tollcalc coverage datasets/dataset-2.csv --save`,
	Args: cobra.ExactArgs(1),
	RunE: runCoverage,
}

func init() {
	coverageCmd.Flags().StringVar(&coverageOut, "out", "", "write the result table as CSV")
	coverageCmd.Flags().BoolVar(&coverageSave, "save", false, "persist results to PostgreSQL (requires DATABASE_URL)")
	rootCmd.AddCommand(coverageCmd)
}

// coverageSummary is the cacheable outcome of a coverage check
type coverageSummary struct {
	Table    *table.Table `json:"table"`
	Total    int          `json:"total"`
	Dropped  int          `json:"dropped"`
	Groups   int          `json:"groups"`
	FullDay  int          `json:"full_day"`
	FullWeek int          `json:"full_week"`
}

func summarize(report *coverage.Report) coverageSummary {
	return coverageSummary{
		Table:    report.Table(),
		Total:    report.Total,
		Dropped:  report.Dropped,
		Groups:   report.Groups(),
		FullDay:  report.FullDay,
		FullWeek: report.FullWeek,
	}
}

func runCoverage(cmd *cobra.Command, args []string) error {
	rt, err := newApp()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	cfg := rt.rates.CoverageConfig()
	validator := coverage.NewValidator(cfg)

	var report *coverage.Report
	check := func() (interface{}, error) {
		t, err := table.ReadCSV(args[0], bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		rt.log.WithDataset(args[0], t.Len()).Info("dataset loaded")

		report, err = validator.Check(t)
		if err != nil {
			return nil, fmt.Errorf("coverage check: %w", err)
		}
		return summarize(report), nil
	}

	var summary coverageSummary
	if coverageSave {
		// Saving needs the full report, so the cache is bypassed.
		if _, err := check(); err != nil {
			return err
		}
		summary = summarize(report)
	} else {
		cache, closeCache := rt.openCache(ctx)
		defer closeCache()

		key := redis.CoverageKey(redis.ContentHash(raw), cfg.MinHours, cfg.MinDays)
		hit, err := cache.GetOrSet(ctx, key, &summary, rt.cfg.Redis.TTL, check)
		if err != nil {
			return err
		}
		rt.log.WithFields(map[string]interface{}{
			"key": key,
			"hit": hit,
		}).Debug("coverage cache")
	}

	if summary.Dropped > 0 {
		rt.log.WithField("dropped", summary.Dropped).Warn("records with unparseable timestamps dropped")
	}

	PrintHeader("Coverage Check")
	PrintKeyValue("Records", fmt.Sprintf("%d", summary.Total), 12)
	PrintKeyValue("Dropped", fmt.Sprintf("%d", summary.Dropped), 12)
	PrintKeyValue("Groups", fmt.Sprintf("%d", summary.Groups), 12)
	PrintKeyValue("Full day", fmt.Sprintf("%d", summary.FullDay), 12)
	PrintKeyValue("Full week", fmt.Sprintf("%d", summary.FullWeek), 12)
	PrintSeparator()

	if err := rt.emit(summary.Table, coverageOut); err != nil {
		return err
	}

	if !coverageSave {
		return nil
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
	if err := repo.SaveCoverage(ctx, runID, report); err != nil {
		return err
	}

	rt.log.WithFields(map[string]interface{}{
		"run_id": runID,
		"groups": summary.Groups,
	}).Info("coverage results saved")
	PrintSuccess(fmt.Sprintf("Saved as run %s", runID))
	return nil
}
