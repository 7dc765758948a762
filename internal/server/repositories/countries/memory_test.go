package countries

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/taxdesk/internal/common"
	"github.com/dmitrijs2005/taxdesk/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, err := repo.Create(ctx, &models.Country{ID: "c2", Name: "Estonia"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Country{ID: "c1", Name: "Latvia"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Country{ID: "c1", Name: "dup"})
	require.Error(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Country{{ID: "c2", Name: "Estonia"}, {ID: "c1", Name: "Latvia"}}, list)

	got, err := repo.Rename(ctx, "c1", "Latvija")
	require.NoError(t, err)
	assert.Equal(t, "Latvija", got.Name)

	c, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Latvija", c.Name)

	_, err = repo.Rename(ctx, "ghost", "x")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = repo.Get(ctx, "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
