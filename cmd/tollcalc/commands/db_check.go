package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/tollcalc/internal/store"
	"github.com/wonny/tollcalc/pkg/database"
	"github.com/wonny/tollcalc/pkg/redis"
)

// dbCheckCmd represents the db-check command
var dbCheckCmd = &cobra.Command{
	Use:   "db-check",
	Short: "Test the PostgreSQL connection used by --save",
	Long: `Connects with DATABASE_URL, pings, ensures the result schema exists and
prints pool statistics and recent run counts. When REDIS_ENABLED is set the
cache server is pinged as well.

Example:
  go run ./cmd/tollcalc db-check
  go run ./cmd/tollcalc db-check --env production`,
	RunE: runDBCheck,
}

func init() {
	rootCmd.AddCommand(dbCheckCmd)
}

func runDBCheck(cmd *cobra.Command, args []string) error {
	rt, err := newApp()
	if err != nil {
		return err
	}

	PrintHeader("Database Connection Check")
	PrintKeyValue("ENV", rt.cfg.Env, 12)
	PrintKeyValue("Database", database.MaskURL(rt.cfg.Database.URL), 12)
	PrintSeparator()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.New(ctx, rt.cfg)
	if err != nil {
		return fmt.Errorf("❌ Failed to connect to database: %w", err)
	}
	defer db.Close()
	PrintSuccess("Database connection established")

	status, err := db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("❌ Health check failed: %w", err)
	}
	PrintSuccess(fmt.Sprintf("Ping successful (%v)", status.ResponseTime))

	repo := store.NewRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("❌ %w", err)
	}
	PrintSuccess("Schema toll.* ready")

	runs, err := repo.CountRuns(ctx, time.Now().AddDate(0, 0, -7))
	if err != nil {
		return fmt.Errorf("❌ %w", err)
	}

	fmt.Println()
	fmt.Println("📊 Connection Pool Statistics:")
	PrintKeyValue("Max", fmt.Sprintf("%d", status.Stats.MaxConns), 12)
	PrintKeyValue("Total", fmt.Sprintf("%d", status.Stats.TotalConns), 12)
	PrintKeyValue("Acquired", fmt.Sprintf("%d", status.Stats.AcquiredConns), 12)
	PrintKeyValue("Idle", fmt.Sprintf("%d", status.Stats.IdleConns), 12)
	PrintKeyValue("Runs (7d)", fmt.Sprintf("%d", runs), 12)

	if err := checkCache(ctx, rt); err != nil {
		return fmt.Errorf("❌ %w", err)
	}

	rt.log.WithField("runs_7d", runs).Debug("db check complete")
	fmt.Println("\n✅ All checks passed!")
	return nil
}

func checkCache(ctx context.Context, rt *app) error {
	fmt.Println()
	client, err := redis.New(ctx, rt.cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	if !client.Enabled() {
		PrintKeyValue("Redis", "disabled", 12)
		return nil
	}
	latency, err := client.Ping(ctx)
	if err != nil {
		return err
	}
	PrintSuccess(fmt.Sprintf("Redis %s ping successful (%v)", client.Address(), latency))
	return nil
}
