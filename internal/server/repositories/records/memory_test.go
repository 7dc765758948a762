package records

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dmitrijs2005/taxdesk/internal/common"
	"github.com/dmitrijs2005/taxdesk/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	for _, id := range []string{"b", "a", "c"} {
		_, err := repo.Create(ctx, &models.Record{ID: id, Name: "n-" + id, CountryID: "c1", Country: "Latvia"})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, &models.Record{ID: "a"})
	require.Error(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{list[0].ID, list[1].ID, list[2].ID})

	require.NoError(t, repo.Update(ctx, &models.Record{ID: "a", Name: "renamed", CountryID: "c2"}))
	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)

	n, err := repo.RenameCountry(ctx, "c1", "Latvija")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.RenameCountry(ctx, "", "x")
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	_, err = repo.Get(ctx, "ghost")
	assert.True(t, errors.Is(err, common.ErrorNotFound))
	assert.True(t, errors.Is(repo.Update(ctx, &models.Record{ID: "ghost"}), common.ErrorNotFound))
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	_, err := repo.Create(ctx, &models.Record{ID: "r1", Attrs: map[string]json.RawMessage{"k": json.RawMessage(`1`)}})
	require.NoError(t, err)

	got, err := repo.Get(ctx, "r1")
	require.NoError(t, err)
	got.Attrs["k"] = json.RawMessage(`2`)

	again, err := repo.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "1", string(again.Attrs["k"]))
}
