package generation

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// Cache maps (user, product) pairs to generated image files on disk and to
// the public URL they are served under.
type Cache struct {
	dir       string
	urlPrefix string
}

// NewCache stores files in dir, served under urlPrefix
// (e.g. "/static/generated/cache").
func NewCache(dir, urlPrefix string) *Cache {
	return &Cache{dir: dir, urlPrefix: urlPrefix}
}

func Key(userID, productID int) string {
	return fmt.Sprintf("user_%d_product_%d", userID, productID)
}

func (c *Cache) Path(userID, productID int) string {
	return filepath.Join(c.dir, Key(userID, productID)+".png")
}

func (c *Cache) URL(userID, productID int) string {
	return path.Join(c.urlPrefix, Key(userID, productID)+".png")
}

// Lookup returns the public URL of the cached image, if there is one.
func (c *Cache) Lookup(userID, productID int) (string, bool) {
	if _, err := os.Stat(c.Path(userID, productID)); err != nil {
		return "", false
	}
	return c.URL(userID, productID), true
}

// ClearUser removes every cached image generated for userID.
func (c *Cache) ClearUser(userID int) error {
	return c.remove(fmt.Sprintf("user_%d_product_*.png", userID))
}

// ClearProduct removes every cached image generated for productID.
func (c *Cache) ClearProduct(productID int) error {
	return c.remove(fmt.Sprintf("user_*_product_%d.png", productID))
}

func (c *Cache) remove(pattern string) error {
	matches, err := filepath.Glob(filepath.Join(c.dir, pattern))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove cached image: %w", err)
		}
	}
	return nil
}
