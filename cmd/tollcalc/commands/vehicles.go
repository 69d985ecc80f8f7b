package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wonny/tollcalc/internal/table"
	"github.com/wonny/tollcalc/internal/vehicles"
)

var (
	vehiclesOut  string
	countField   string
	busField     string
	busMultiple  float64
	routeKey     string
	truckField   string
	truckMinimum float64
)

// typeCountCmd counts vehicle-count buckets
var typeCountCmd = &cobra.Command{
	Use:   "type-count <dataset.csv>",
	Short: "Count rows per car type (low, medium, high)",
	Long: `Buckets every row by its car count (low up to 15, medium up to 25,
high above) and counts rows per bucket.

With --field the named column is counted as-is instead.

Example:
  go run ./cmd/tollcalc type-count datasets/dataset-1.csv
  go run ./cmd/tollcalc type-count datasets/dataset-1.csv --field route`,
	Args: cobra.ExactArgs(1),
	RunE: runTypeCount,
}

// busIndexesCmd lists rows with unusually high bus counts
var busIndexesCmd = &cobra.Command{
	Use:   "bus-indexes <dataset.csv>",
	Short: "List row indexes whose bus count exceeds a multiple of the mean",
	Long: `Prints the ascending row indexes whose bus value is strictly greater than
thresholds.bus_mean_multiple times the column mean (2 by default).

Example:
  go run ./cmd/tollcalc bus-indexes datasets/dataset-1.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runBusIndexes,
}

// filterRoutesCmd lists routes with a high average truck count
var filterRoutesCmd = &cobra.Command{
	Use:   "filter-routes <dataset.csv>",
	Short: "List routes whose average truck count exceeds a cutoff",
	Long: `Prints the sorted routes whose mean truck value is strictly greater than
thresholds.truck_min_average (7 by default).

Example:
  go run ./cmd/tollcalc filter-routes datasets/dataset-1.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runFilterRoutes,
}

func init() {
	typeCountCmd.Flags().StringVar(&vehiclesOut, "out", "", "write the result table as CSV")
	typeCountCmd.Flags().StringVar(&countField, "field", "", "count this column instead of car type buckets")

	busIndexesCmd.Flags().StringVar(&vehiclesOut, "out", "", "write the result table as CSV")
	busIndexesCmd.Flags().StringVar(&busField, "field", "bus", "column compared against its mean")
	busIndexesCmd.Flags().Float64Var(&busMultiple, "multiple", 0, "mean multiple (default from rate config)")

	filterRoutesCmd.Flags().StringVar(&vehiclesOut, "out", "", "write the result table as CSV")
	filterRoutesCmd.Flags().StringVar(&routeKey, "group", "route", "column to group by")
	filterRoutesCmd.Flags().StringVar(&truckField, "field", "truck", "column to average")
	filterRoutesCmd.Flags().Float64Var(&truckMinimum, "min", 0, "average cutoff (default from rate config)")

	rootCmd.AddCommand(typeCountCmd)
	rootCmd.AddCommand(busIndexesCmd)
	rootCmd.AddCommand(filterRoutesCmd)
}

func runTypeCount(cmd *cobra.Command, args []string) error {
	rt, err := newApp()
	if err != nil {
		return err
	}

	t, err := rt.loadTable(args[0])
	if err != nil {
		return err
	}

	field := countField
	if field == "" {
		t = vehicles.WithCarType(t, "car")
		field = vehicles.ColCarType
	}

	counts := vehicles.CountByCategory(t, field)
	if len(counts) == 0 {
		PrintWarning(fmt.Sprintf("No values to count in column %q", field))
	}

	out := table.New("type_count", field, "count")
	for _, k := range vehicles.SortedCategories(counts) {
		out.Append(k, strconv.Itoa(counts[k]))
	}

	PrintHeader(fmt.Sprintf("Counts by %s", field))
	return rt.emit(out, vehiclesOut)
}

func runBusIndexes(cmd *cobra.Command, args []string) error {
	rt, err := newApp()
	if err != nil {
		return err
	}

	t, err := rt.loadTable(args[0])
	if err != nil {
		return err
	}

	multiple := rt.rates.Thresholds.BusMeanMultiple
	if cmd.Flags().Changed("multiple") {
		multiple = busMultiple
	}

	indexes := vehicles.AboveMeanMultiple(t, busField, multiple)

	out := table.New("bus_indexes", "index")
	for _, i := range indexes {
		out.Append(strconv.Itoa(i))
	}

	PrintHeader(fmt.Sprintf("Rows with %s > %g x mean", busField, multiple))
	return rt.emit(out, vehiclesOut)
}

func runFilterRoutes(cmd *cobra.Command, args []string) error {
	rt, err := newApp()
	if err != nil {
		return err
	}

	t, err := rt.loadTable(args[0])
	if err != nil {
		return err
	}

	minimum := rt.rates.Thresholds.TruckMinAverage
	if cmd.Flags().Changed("min") {
		minimum = truckMinimum
	}

	groups := vehicles.GroupsAboveAverage(t, routeKey, truckField, minimum)

	out := table.New("routes", routeKey)
	for _, g := range groups {
		out.Append(g)
	}

	PrintHeader(fmt.Sprintf("%s with mean %s > %g", routeKey, truckField, minimum))
	return rt.emit(out, vehiclesOut)
}
