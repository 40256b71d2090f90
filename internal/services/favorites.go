package service

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/carbonmarket/carbon-marketplace/internal/state"
)

type favoritesData struct {
	FavoriteProjects []string `json:"favoriteProjects"`
	FavoriteBatches  []string `json:"favoriteBatches"`
}

// FavoritesStore remembers starred project and batch ids across sessions
// under the carbon-favorites namespace, independent of the cart's
// persistence.
type FavoritesStore struct {
	mu      sync.Mutex
	data    favoritesData
	persist state.Store
}

func NewFavoritesStore(persist state.Store) *FavoritesStore {
	s := &FavoritesStore{persist: persist}

	if persist != nil {
		if _, err := persist.Load(state.FavoritesKey, &s.data); err != nil {
			slog.Warn("Failed to load persisted favorites", slog.String("error", err.Error()))
		}
	}

	return s
}

func (s *FavoritesStore) persistLocked() {
	if s.persist == nil {
		return
	}

	if err := s.persist.Save(state.FavoritesKey, s.data); err != nil {
		slog.Warn("Failed to persist favorites", slog.String("error", err.Error()))
	}
}

func toggle(ids []string, id string) ([]string, bool) {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1), false
	}

	return append(ids, id), true
}

// ToggleProject flips the favorite flag and reports the new state.
func (s *FavoritesStore) ToggleProject(projectID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var favorite bool

	s.data.FavoriteProjects, favorite = toggle(s.data.FavoriteProjects, projectID)
	s.persistLocked()

	return favorite
}

func (s *FavoritesStore) ToggleBatch(batchID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var favorite bool

	s.data.FavoriteBatches, favorite = toggle(s.data.FavoriteBatches, batchID)
	s.persistLocked()

	return favorite
}

func (s *FavoritesStore) IsProjectFavorite(projectID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Contains(s.data.FavoriteProjects, projectID)
}

func (s *FavoritesStore) IsBatchFavorite(batchID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Contains(s.data.FavoriteBatches, batchID)
}

func (s *FavoritesStore) FavoriteProjects() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.data.FavoriteProjects)
}

func (s *FavoritesStore) FavoriteBatches() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.data.FavoriteBatches)
}
