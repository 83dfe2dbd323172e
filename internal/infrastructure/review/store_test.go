package review_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickcash/loan-origination/internal/domain/model"
	"github.com/quickcash/loan-origination/internal/infrastructure/review"
)

func sampleSnapshot() model.ReviewSnapshot {
	return model.ReviewSnapshot{
		SnapshotID: "a3c1e7d2",
		CustomerID: "CUST1001",
		Decision:   "approved",
		Anomalies: []model.AnomalyRecord{{
			Type:     "salary_mismatch",
			DocValue: "300000",
			DBValue:  "50000",
			Ratio:    6,
			Detail:   "document salary differs from records",
		}},
		Income: model.IncomeRecord{
			MonthlyAmount: "300000",
			Provenance:    "doc_provided",
			Confidence:    0.9,
		},
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestFileStore_SaveAndGet(t *testing.T) {
	store, err := review.NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	id, err := store.Save(ctx, sampleSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "a3c1e7d2", id)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "CUST1001", got.CustomerID)
	require.Len(t, got.Anomalies, 1)
	assert.Equal(t, "salary_mismatch", got.Anomalies[0].Type)
	assert.Equal(t, "doc_provided", got.Income.Provenance)
}

func TestFileStore_GetMissing(t *testing.T) {
	store, err := review.NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, review.ErrSnapshotNotFound)
}

func TestFileStore_RejectsPathyIDs(t *testing.T) {
	store, err := review.NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	snap := sampleSnapshot()
	snap.SnapshotID = "../escape"
	_, err = store.Save(ctx, snap)
	assert.Error(t, err)

	_, err = store.Get(ctx, "../escape")
	assert.Error(t, err)
}

func TestFileStore_List(t *testing.T) {
	store, err := review.NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	first := sampleSnapshot()
	second := sampleSnapshot()
	second.SnapshotID = "b4d2f8e3"
	_, err = store.Save(ctx, first)
	require.NoError(t, err)
	_, err = store.Save(ctx, second)
	require.NoError(t, err)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a3c1e7d2", "b4d2f8e3"}, ids)
}
