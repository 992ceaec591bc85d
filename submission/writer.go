// Package submission renders predictions into the two-column upload file:
// PassengerId and the predicted Survived label.
package submission

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"

	"github.com/grailbox/lifeboat/dataset"
	"github.com/grailbox/lifeboat/pkg/errors"
)

// Record is one row of the submission file.
type Record struct {
	PassengerID string
	Survived    int
}

// FromPredictions pairs passenger identifiers with hard 0/1 labels.
func FromPredictions(ids []string, labels []float64) ([]Record, error) {
	if len(ids) != len(labels) {
		return nil, errors.NewDimensionError("FromPredictions", len(ids), len(labels), 0)
	}

	records := make([]Record, len(ids))
	for i, label := range labels {
		if label != 0 && label != 1 {
			return nil, errors.NewValueError("FromPredictions",
				"label at row "+strconv.Itoa(i)+" is not 0 or 1")
		}
		records[i] = Record{PassengerID: ids[i], Survived: int(label)}
	}
	return records, nil
}

// IDs extracts the identifier column of a table as strings. Numeric
// identifiers are rendered without a fractional part.
func IDs(t *dataset.Table, column string) ([]string, error) {
	col := t.Col(column)
	if col == nil {
		return nil, errors.NewValueError("submission.IDs", "missing column "+column)
	}

	ids := make([]string, col.Len())
	for i := range ids {
		if col.Missing(i) {
			return nil, errors.NewValueError("submission.IDs",
				"missing identifier at row "+strconv.Itoa(i))
		}
		if col.Type == dataset.Numeric {
			ids[i] = strconv.FormatInt(int64(math.Round(col.Numeric[i])), 10)
		} else {
			ids[i] = col.Labels[i]
		}
	}
	return ids, nil
}

// Write creates the submission CSV at path, header included.
func Write(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"PassengerId", "Survived"}); err != nil {
		return errors.Wrap(err, "write submission header")
	}
	for _, rec := range records {
		if err := w.Write([]string{rec.PassengerID, strconv.Itoa(rec.Survived)}); err != nil {
			return errors.Wrap(err, "write submission row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, "flush submission")
	}
	return nil
}
