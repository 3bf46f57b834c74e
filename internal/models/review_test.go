package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewOnePerUserPerProduct(t *testing.T) {
	db := newTestDB(t)
	reviews := NewReviewModel(db)

	require.NoError(t, reviews.Create(&Review{ProductID: "p1", UserID: "u1", Rating: 5, Title: "最高"}))

	err := reviews.Create(&Review{ProductID: "p1", UserID: "u1", Rating: 1, Title: "やっぱり微妙"})
	assert.ErrorIs(t, err, ErrDuplicateReview)

	// same product, different user is fine
	require.NoError(t, reviews.Create(&Review{ProductID: "p1", UserID: "u2", Rating: 3}))
}

func TestReviewSummary(t *testing.T) {
	db := newTestDB(t)
	reviews := NewReviewModel(db)

	t.Run("empty product", func(t *testing.T) {
		summary, err := reviews.Summary("p-none")
		require.NoError(t, err)
		assert.Zero(t, summary.Count)
		assert.Zero(t, summary.Average)
	})

	require.NoError(t, reviews.Create(&Review{ProductID: "p1", UserID: "u1", Rating: 5}))
	require.NoError(t, reviews.Create(&Review{ProductID: "p1", UserID: "u2", Rating: 2}))

	summary, err := reviews.Summary("p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Count)
	assert.InDelta(t, 3.5, summary.Average, 0.001)
}

func TestReviewOwnership(t *testing.T) {
	db := newTestDB(t)
	reviews := NewReviewModel(db)

	r := &Review{ProductID: "p1", UserID: "u1", Rating: 4}
	require.NoError(t, reviews.Create(r))

	err := reviews.Delete(r.ID, "u2")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, reviews.Delete(r.ID, "u1"))
}
