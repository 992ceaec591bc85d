package modelsel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbox/lifeboat/pkg/errors"
	"github.com/grailbox/lifeboat/resample"
)

func TestLedgerAppendAndOrder(t *testing.T) {
	l := NewScoreLedger()
	require.NoError(t, l.Append(ScoreRecord{ID: "knn.ori", Score: 0.8, ArtifactID: "knn.ori.model"}))
	require.NoError(t, l.Append(ScoreRecord{ID: "knn.up", Score: 0.82, ArtifactID: "knn.up.model"}))

	recs := l.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "knn.ori", recs[0].ID)
	assert.Equal(t, "knn.up", recs[1].ID)
}

func TestLedgerRejectsDuplicateID(t *testing.T) {
	l := NewScoreLedger()
	require.NoError(t, l.Append(ScoreRecord{ID: "nb.ori", Score: 0.7}))
	assert.Error(t, l.Append(ScoreRecord{ID: "nb.ori", Score: 0.9}))
	assert.Equal(t, 1, l.Len())
}

func TestLedgerBestPicksMaximum(t *testing.T) {
	l := NewScoreLedger()
	require.NoError(t, l.Append(ScoreRecord{ID: "knn.ori", Score: 0.80, ArtifactID: "a"}))
	require.NoError(t, l.Append(ScoreRecord{ID: "knn.smote", Score: 0.87, ArtifactID: "b"}))
	require.NoError(t, l.Append(ScoreRecord{ID: "nb.ori", Score: 0.84, ArtifactID: "c"}))

	best, err := l.Best()
	require.NoError(t, err)
	assert.Equal(t, "knn.smote", best.ID)
	assert.Equal(t, "b", best.ArtifactID)
}

func TestLedgerBestTieBreakInsertionOrder(t *testing.T) {
	l := NewScoreLedger()
	require.NoError(t, l.Append(ScoreRecord{ID: "knn.ori", Score: 0.85}))
	require.NoError(t, l.Append(ScoreRecord{ID: "nb.ori", Score: 0.85}))

	best, err := l.Best()
	require.NoError(t, err)
	assert.Equal(t, "knn.ori", best.ID, "earlier insertion wins ties")
}

func TestLedgerBestIdempotent(t *testing.T) {
	l := NewScoreLedger()
	require.NoError(t, l.Append(ScoreRecord{ID: "glm.rose", Score: 0.79}))
	require.NoError(t, l.Append(ScoreRecord{ID: "glm.down", Score: 0.81}))

	first, err := l.Best()
	require.NoError(t, err)
	second, err := l.Best()
	require.NoError(t, err)
	assert.Equal(t, first, second, "selection over a frozen ledger must be stable")
}

func TestLedgerBestEmpty(t *testing.T) {
	l := NewScoreLedger()
	_, err := l.Best()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNoViableModel))
}

func TestRegistryLookups(t *testing.T) {
	r := NewModelRegistry()
	assert.Equal(t, 0, r.Len())

	// IDs and artifact names follow the naming convention.
	m := &TrainedModel{Algorithm: "knn", Policy: resample.SMOTE}
	assert.Equal(t, "knn.smote", m.ID())
	assert.Equal(t, "knn.smote.model", ArtifactID(m.Algorithm, m.Policy))

	r.Put(m)
	assert.Equal(t, 1, r.Len())
	assert.Same(t, m, r.Get("knn", m.Policy))
	assert.Nil(t, r.Get("nb", m.Policy))

	got := r.ByAlgorithm("knn")
	require.Len(t, got, 1)
	assert.Same(t, m, got[0])
}
