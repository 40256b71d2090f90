// Package state persists client-side application state across sessions. Each
// concern owns a fixed namespace key (cart vs. favorites vs. mock dataset);
// namespaces are independent and never merged.
package state

const (
	CartKey      = "carbon-cart"
	FavoritesKey = "carbon-favorites"
	DatasetKey   = "carbon-data-storage"
)

type Store interface {
	// Load unmarshals the value stored under key into dest. The boolean is
	// false when the key has never been saved.
	Load(key string, dest any) (bool, error)
	Save(key string, value any) error
	Delete(key string) error
}
