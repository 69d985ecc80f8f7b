package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/tollcalc/internal/distance"
	"github.com/wonny/tollcalc/internal/matrix"
)

var (
	matrixOut   string
	pivotRow    string
	pivotCol    string
	pivotValue  string
	doubleAbove float64
)

// carMatrixCmd pivots a vehicle dataset into an id_1 x id_2 grid
var carMatrixCmd = &cobra.Command{
	Use:   "car-matrix <dataset.csv>",
	Short: "Pivot car counts into an id_1 x id_2 matrix",
	Long: `Reshapes the flat vehicle dataset into a matrix with one row per id_1,
one column per id_2 and the car count in each cell.

Example:
  go run ./cmd/tollcalc car-matrix datasets/dataset-1.csv
  go run ./cmd/tollcalc car-matrix datasets/dataset-1.csv --value bus --out bus.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runCarMatrix,
}

// multiplyMatrixCmd doubles matrix cells above a threshold
var multiplyMatrixCmd = &cobra.Command{
	Use:   "multiply-matrix <matrix.csv>",
	Short: "Double every matrix cell above a threshold",
	Long: `Reads a wide matrix CSV (first column holds row labels) and doubles every
cell strictly greater than the threshold. Other cells pass through.

The threshold defaults to thresholds.double_above from the rate config.

Example:
  go run ./cmd/tollcalc multiply-matrix car_matrix.csv --out doubled.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runMultiplyMatrix,
}

// unrollCmd expands a distance matrix to long format
var unrollCmd = &cobra.Command{
	Use:   "unroll <matrix.csv>",
	Short: "Expand a distance matrix into (id_start, id_end, distance) rows",
	Long: `Reads a wide distance matrix CSV and writes one row per populated cell,
row-major, diagonal included.

Example:
  go run ./cmd/tollcalc unroll distance_matrix.csv --out unrolled.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runUnroll,
}

func init() {
	carMatrixCmd.Flags().StringVar(&matrixOut, "out", "", "write the result table as CSV")
	carMatrixCmd.Flags().StringVar(&pivotRow, "row", "id_1", "column holding row labels")
	carMatrixCmd.Flags().StringVar(&pivotCol, "col", "id_2", "column holding column labels")
	carMatrixCmd.Flags().StringVar(&pivotValue, "value", "car", "column holding cell values")

	multiplyMatrixCmd.Flags().StringVar(&matrixOut, "out", "", "write the result table as CSV")
	multiplyMatrixCmd.Flags().Float64Var(&doubleAbove, "above", 0, "threshold (default from rate config)")

	unrollCmd.Flags().StringVar(&matrixOut, "out", "", "write the result table as CSV")

	rootCmd.AddCommand(carMatrixCmd)
	rootCmd.AddCommand(multiplyMatrixCmd)
	rootCmd.AddCommand(unrollCmd)
}

func runCarMatrix(cmd *cobra.Command, args []string) error {
	rt, err := newApp()
	if err != nil {
		return err
	}

	t, err := rt.loadTable(args[0])
	if err != nil {
		return err
	}

	m, err := matrix.Pivot(t, pivotRow, pivotCol, pivotValue)
	if errors.Is(err, matrix.ErrDuplicateEntry) {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	if err != nil {
		return err
	}

	if m.Len() == 0 {
		PrintWarning(fmt.Sprintf("No cells: %s needs columns %s, %s and %s", args[0], pivotRow, pivotCol, pivotValue))
	}

	PrintHeader(fmt.Sprintf("%s Matrix (%d x %d)", pivotValue, len(m.Rows()), len(m.Cols())))
	return rt.emit(m.Table(pivotRow), matrixOut)
}

func runMultiplyMatrix(cmd *cobra.Command, args []string) error {
	rt, err := newApp()
	if err != nil {
		return err
	}

	t, err := rt.loadTable(args[0])
	if err != nil {
		return err
	}

	threshold := rt.rates.Thresholds.DoubleAbove
	if cmd.Flags().Changed("above") {
		threshold = doubleAbove
	}

	m := matrix.Transform(matrix.FromTable(t), matrix.DoubleAbove(threshold))
	rt.log.WithField("threshold", threshold).Debug("matrix transformed")

	index := ""
	if len(t.Columns) > 0 {
		index = t.Columns[0]
	}

	PrintHeader(fmt.Sprintf("Cells above %g doubled", threshold))
	return rt.emit(m.Table(index), matrixOut)
}

func runUnroll(cmd *cobra.Command, args []string) error {
	rt, err := newApp()
	if err != nil {
		return err
	}

	t, err := rt.loadTable(args[0])
	if err != nil {
		return err
	}

	long := matrix.Unpivot(matrix.FromTable(t), distance.ColStart, distance.ColEnd, distance.ColDistance)

	PrintHeader(fmt.Sprintf("Unrolled %d cells", long.Len()))
	return rt.emit(long, matrixOut)
}
