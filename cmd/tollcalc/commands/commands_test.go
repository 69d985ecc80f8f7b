package commands

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tollcalc/internal/table"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestFormatTable(t *testing.T) {
	tbl := table.New("t", "id", "distance")
	tbl.Append("1001400", "9.7")
	tbl.Append("1001402", "20.2")
	tbl.Append("1001404", "16.0")

	out := formatTable(tbl, 2)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	require.Len(t, lines, 5)
	assert.Equal(t, "id       distance", lines[0])
	assert.Equal(t, "1001400  9.7", strings.TrimRight(lines[2], " "))
	assert.Equal(t, "... 1 more rows", lines[4])
}

func TestFormatTable_NoColumns(t *testing.T) {
	assert.Equal(t, "(empty table)\n", formatTable(table.New("t"), 10))
}

func TestCarMatrixCommand(t *testing.T) {
	in := writeFile(t, "dataset-1.csv", "id_1,id_2,car\n1,2,3\n1,3,4\n2,3,8\n")
	out := filepath.Join(t.TempDir(), "car_matrix.csv")

	require.NoError(t, execute(t, "car-matrix", in, "--out", out))

	got, err := table.LoadCSV(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"id_1", "2", "3"}, got.Columns)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, "4", got.Value(0, "3"))
	assert.Equal(t, "", got.Value(1, "2"))
}

func TestTimeTollCommand(t *testing.T) {
	in := writeFile(t, "intervals.csv", "id,startDay,startTime\n1,Monday,05:59:59\n2,Monday,06:00:00\n3,Friday,not-a-time\n")
	out := filepath.Join(t.TempDir(), "time_toll.csv")

	require.NoError(t, execute(t, "time-toll", in, "--rates", "../../../config/rates.yaml", "--out", out))

	got, err := table.LoadCSV(out)
	require.NoError(t, err)
	require.Equal(t, 3, got.Len())
	assert.Equal(t, "0.05", got.Value(0, "time_based_toll_rate"))
	assert.Equal(t, "0.1", got.Value(1, "time_based_toll_rate"))
	assert.Equal(t, "0", got.Value(2, "time_based_toll_rate"))
}

func TestCoverageCommand_MissingColumns(t *testing.T) {
	in := writeFile(t, "dataset-2.csv", "id,startDay,startTime\n1,Monday,00:00:00\n")

	err := execute(t, "coverage", in)

	var schemaErr *table.SchemaError
	require.True(t, errors.As(err, &schemaErr), "got %v", err)
	assert.Contains(t, schemaErr.Missing, "id_2")
}

func TestDistanceMatrixCommand(t *testing.T) {
	in := writeFile(t, "points.csv", "id,latitude,longitude\n2,0,1\n1,0,0\n")
	out := filepath.Join(t.TempDir(), "distance_matrix.csv")

	require.NoError(t, execute(t, "distance-matrix", in, "--out", out))

	got, err := table.LoadCSV(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "1", "2"}, got.Columns)
	assert.Equal(t, "0", got.Value(0, "1"))

	d, ok := got.Float(0, "2")
	require.True(t, ok)
	assert.InDelta(t, 111.195, d, 0.01)
}

func TestCoverageCommand(t *testing.T) {
	in := writeFile(t, "dataset-2.csv", "id,id_2,startDay,startTime,endDay,endTime\n"+
		"1014000,-1,Monday,00:00:00,Sunday,23:59:59\n"+
		"1014002,-1,Monday,05:00:00,Wednesday,10:00:00\n"+
		"1014003,-1,Moonday,05:00:00,Wednesday,10:00:00\n")
	out := filepath.Join(t.TempDir(), "coverage.csv")

	require.NoError(t, execute(t, "coverage", in, "--out", out))

	got, err := table.LoadCSV(out)
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, "1014000", got.Value(0, "id"))
	assert.Equal(t, "true", got.Value(0, "covers_full_week"))
	assert.Equal(t, "true", got.Value(1, "covers_full_day"))
	assert.Equal(t, "false", got.Value(1, "covers_full_week"))
}
