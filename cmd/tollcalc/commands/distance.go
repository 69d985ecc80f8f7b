package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/tollcalc/internal/distance"
	"github.com/wonny/tollcalc/internal/geo"
	"github.com/wonny/tollcalc/internal/table"
	"github.com/wonny/tollcalc/pkg/redis"
)

var (
	distanceOut string
	referenceID string
	tolerance   float64
)

// distanceMatrixCmd computes pairwise great-circle distances
var distanceMatrixCmd = &cobra.Command{
	Use:   "distance-matrix <points.csv>",
	Short: "Compute the pairwise haversine distance matrix of a point set",
	Long: `Reads points with latitude and longitude columns (id optional) and writes
the symmetric matrix of great-circle distances in kilometres.

When REDIS_ENABLED=true, results are cached by the hash of the input file.

Example:
  go run ./cmd/tollcalc distance-matrix datasets/dataset-3.csv --out distance_matrix.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runDistanceMatrix,
}

// withinThresholdCmd finds starts whose mean distance is close to a reference
var withinThresholdCmd = &cobra.Command{
	Use:   "within-threshold <unrolled.csv>",
	Short: "List id_start values whose mean distance is within a tolerance of a reference",
	Long: `Averages distance over every row touching --ref, then lists the id_start
groups whose own mean distance lies within the tolerance band around it.

The tolerance defaults to thresholds.distance_tolerance (0.1 = 10%).

Example:
  go run ./cmd/tollcalc within-threshold unrolled.csv --ref 1001400`,
	Args: cobra.ExactArgs(1),
	RunE: runWithinThreshold,
}

func init() {
	distanceMatrixCmd.Flags().StringVar(&distanceOut, "out", "", "write the result table as CSV")

	withinThresholdCmd.Flags().StringVar(&distanceOut, "out", "", "write the result table as CSV")
	withinThresholdCmd.Flags().StringVar(&referenceID, "ref", "", "reference id (required)")
	withinThresholdCmd.Flags().Float64Var(&tolerance, "tolerance", 0, "tolerance fraction (default from rate config)")
	_ = withinThresholdCmd.MarkFlagRequired("ref")

	rootCmd.AddCommand(distanceMatrixCmd)
	rootCmd.AddCommand(withinThresholdCmd)
}

func runDistanceMatrix(cmd *cobra.Command, args []string) error {
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

	cache, closeCache := rt.openCache(ctx)
	defer closeCache()

	key := redis.DistanceMatrixKey(redis.ContentHash(raw))

	var result table.Table
	hit, err := cache.GetOrSet(ctx, key, &result, rt.cfg.Redis.TTL, func() (interface{}, error) {
		t, err := table.ReadCSV(args[0], bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		rt.log.WithDataset(args[0], t.Len()).Info("dataset loaded")

		points, err := geo.PointsFromTable(t)
		if err != nil {
			return nil, err
		}
		if skipped := t.Len() - len(points); skipped > 0 {
			rt.log.WithField("skipped", skipped).Warn("rows with non-numeric coordinates skipped")
		}

		m := geo.DistanceMatrix(points, geo.HaversineMetric)
		m.SortLabels()
		return m.Table("id"), nil
	})
	if err != nil {
		return fmt.Errorf("distance matrix: %w", err)
	}

	rt.log.WithFields(map[string]interface{}{
		"key": key,
		"hit": hit,
	}).Debug("distance matrix cache")

	PrintHeader(fmt.Sprintf("Distance Matrix (%d points)", result.Len()))
	return rt.emit(&result, distanceOut)
}

func runWithinThreshold(cmd *cobra.Command, args []string) error {
	rt, err := newApp()
	if err != nil {
		return err
	}

	t, err := rt.loadTable(args[0])
	if err != nil {
		return err
	}

	tol := rt.rates.Thresholds.DistanceTolerance
	if cmd.Flags().Changed("tolerance") {
		tol = tolerance
	}

	ref, ok := distance.ReferenceAverage(t, referenceID)
	if !ok {
		PrintWarning(fmt.Sprintf("No rows reference id %s", referenceID))
	} else {
		PrintKeyValue("Reference", fmt.Sprintf("%s (mean %.4f km)", referenceID, ref), 10)
		PrintKeyValue("Band", fmt.Sprintf("%.4f .. %.4f km", ref*(1-tol), ref*(1+tol)), 10)
	}

	matches := distance.WithinTolerance(t, referenceID, tol)

	PrintHeader(fmt.Sprintf("%d ids within %g%% of %s", len(matches), tol*100, referenceID))
	return rt.emit(distance.Table(matches), distanceOut)
}
