package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/claim-appeal-api/internal/models"
)

func TestMemoryCreateAndGet(t *testing.T) {
	var repo Repository = NewMemoryRepository()
	ctx := context.Background()

	appeal := &models.Appeal{ID: "a1", PatientName: "Jane Doe", Model: "gpt-4o-mini", Letter: "Dear Appeals Department,", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, appeal))
	assert.Error(t, repo.Create(ctx, appeal))

	appeal.Letter = "changed after save"

	got, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Jane Doe", got.PatientName)
	assert.Equal(t, "Dear Appeals Department,", got.Letter)

	got, err = repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryListRecent(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, repo.Create(ctx, &models.Appeal{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Hour)}))
	}

	got, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "mid", got[1].ID)

	got, err = repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}
