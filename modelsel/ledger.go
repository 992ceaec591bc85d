package modelsel

import (
	"github.com/grailbox/lifeboat/pkg/errors"
)

// ScoreRecord is one row of the score ledger: a successfully trained model
// variant, its cross-validated metric value and the artifact it was
// persisted under.
type ScoreRecord struct {
	ID         string
	Score      float64
	ArtifactID string
}

// ScoreLedger is the append-only score table of one run. It is created by
// the orchestrator at the start of a run and discarded at the end; nothing
// else writes to it.
type ScoreLedger struct {
	records []ScoreRecord
	seen    map[string]bool
}

// NewScoreLedger creates an empty ledger.
func NewScoreLedger() *ScoreLedger {
	return &ScoreLedger{seen: make(map[string]bool)}
}

// Append adds a record. Composite identifiers are unique within a run, so
// appending a duplicate is an error.
func (l *ScoreLedger) Append(rec ScoreRecord) error {
	if l.seen[rec.ID] {
		return errors.NewValueError("ScoreLedger.Append", "duplicate record "+rec.ID)
	}
	l.seen[rec.ID] = true
	l.records = append(l.records, rec)
	return nil
}

// Len returns the number of records.
func (l *ScoreLedger) Len() int {
	return len(l.records)
}

// Records returns a copy of the rows in insertion order.
func (l *ScoreLedger) Records() []ScoreRecord {
	return append([]ScoreRecord(nil), l.records...)
}

// Best returns the record with the maximum metric value. Ties go to the
// record inserted first. An empty ledger yields ErrNoViableModel.
func (l *ScoreLedger) Best() (ScoreRecord, error) {
	if len(l.records) == 0 {
		return ScoreRecord{}, errors.WithStack(errors.ErrNoViableModel)
	}

	best := l.records[0]
	for _, rec := range l.records[1:] {
		if rec.Score > best.Score {
			best = rec
		}
	}
	return best, nil
}
