package devapi

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/wichananm65/pet-shop-storefront/internal/user"
)

// Demo account available on an in-memory dev backend.
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "Demo1234!"
	demoAvatar   = "/static/uploads/profile_images/demo.png"
)

// SeedDemoUser creates the demo account and makes sure its avatar exists on
// disk so generation has something to work with.
func SeedDemoUser(users *user.Service, staticDir string) error {
	path := filepath.Join(staticDir, "uploads", "profile_images", "demo.png")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("create avatar directory: %w", err)
		}
		avatar := imaging.New(128, 128, color.NRGBA{R: 94, G: 129, B: 172, A: 255})
		if err := imaging.Save(avatar, path); err != nil {
			return fmt.Errorf("write demo avatar: %w", err)
		}
	}

	image := demoAvatar
	_, err := users.Create(user.User{
		Name:     "Demo Shopper",
		Email:    DemoEmail,
		Password: DemoPassword,
		Country:  "Thailand",
		Gender:   "female",
		Image:    &image,
	})
	return err
}
