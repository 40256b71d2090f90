package service

import (
	"testing"

	"github.com/carbonmarket/carbon-marketplace/internal/state"
	"github.com/stretchr/testify/assert"
)

func TestFavoritesStore_ToggleProject(t *testing.T) {
	favorites := NewFavoritesStore(nil)

	assert.True(t, favorites.ToggleProject("1"))
	assert.True(t, favorites.IsProjectFavorite("1"))

	assert.False(t, favorites.ToggleProject("1"))
	assert.False(t, favorites.IsProjectFavorite("1"))
	assert.Empty(t, favorites.FavoriteProjects())
}

func TestFavoritesStore_ProjectsAndBatchesIndependent(t *testing.T) {
	favorites := NewFavoritesStore(nil)

	favorites.ToggleProject("1")
	favorites.ToggleBatch("1-1")

	assert.True(t, favorites.IsProjectFavorite("1"))
	assert.True(t, favorites.IsBatchFavorite("1-1"))
	assert.False(t, favorites.IsBatchFavorite("1"))

	favorites.ToggleBatch("1-1")

	assert.False(t, favorites.IsBatchFavorite("1-1"))
	assert.True(t, favorites.IsProjectFavorite("1"), "removing a batch must not touch projects")
}

func TestFavoritesStore_PersistsAcrossInstances(t *testing.T) {
	persist := state.NewMemoryStore()

	favorites := NewFavoritesStore(persist)
	favorites.ToggleProject("3")
	favorites.ToggleBatch("3-1")

	reopened := NewFavoritesStore(persist)

	assert.Equal(t, []string{"3"}, reopened.FavoriteProjects())
	assert.Equal(t, []string{"3-1"}, reopened.FavoriteBatches())
}
