package coverage

import (
	"github.com/wonny/tollcalc/internal/table"
)

// RequiredColumns are the fields every interval dataset must carry
var RequiredColumns = []string{"id", "id_2", "startDay", "startTime", "endDay", "endTime"}

// RecordsFromTable converts rows into interval records.
// Missing required columns are a hard failure; bad cell values are not.
func RecordsFromTable(t *table.Table) ([]IntervalRecord, error) {
	if err := t.Require(RequiredColumns...); err != nil {
		return nil, err
	}

	records := make([]IntervalRecord, t.Len())
	for i, row := range t.Rows {
		records[i] = IntervalRecord{
			ID:        row["id"],
			ID2:       row["id_2"],
			StartDay:  row["startDay"],
			StartTime: row["startTime"],
			EndDay:    row["endDay"],
			EndTime:   row["endTime"],
		}
	}
	return records, nil
}
