package cart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// StorageKey is the fixed namespace key the cart is persisted under,
// mirroring the key used by the browser storefront.
const StorageKey = "pizza-cart"

// Store is the persistence boundary for the cart. Load returns nil data
// (and no error) when nothing has been saved under the key yet.
type Store interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}

// Save serializes the cart lines as a JSON array under StorageKey
func (c *Cart) Save(store Store) error {
	items := c.items
	if items == nil {
		items = []Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}
	return store.Save(StorageKey, data)
}

// Load restores a cart previously saved under StorageKey. A missing entry
// yields an empty cart.
func Load(store Store) (*Cart, error) {
	data, err := store.Load(StorageKey)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return New(), nil
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &Cart{items: items}, nil
}

// FileStore persists cart entries as files in a directory, one file per
// key. It stands in for the browser's local storage in tests and CLI use.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at the given directory
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Load implements Store
func (s *FileStore) Load(key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, key+".json"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart file: %w", err)
	}
	return data, nil
}

// Save implements Store
func (s *FileStore) Save(key string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cart directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, key+".json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write cart file: %w", err)
	}
	return nil
}
