// Package catalog loads products for the storefront and renders them as a
// grid of cards, starting personalization for each card when the shopper is
// signed in.
package catalog

import (
	"context"

	"github.com/wichananm65/pet-shop-storefront/internal/api"
	"github.com/wichananm65/pet-shop-storefront/internal/ui"
	"go.uber.org/zap"
)

// Source is the part of the API the catalogue reads from.
type Source interface {
	Products(ctx context.Context, gender, category string) ([]api.Product, error)
	Product(ctx context.Context, id int) (*api.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

type Catalog struct {
	source Source
	alerts *ui.Alerts
	logger *zap.Logger
}

func New(source Source, alerts *ui.Alerts, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{source: source, alerts: alerts, logger: logger}
}

// LoadProducts lists products, optionally filtered. On failure it shows an
// alert and returns an empty list.
func (c *Catalog) LoadProducts(ctx context.Context, gender, category string) []api.Product {
	products, err := c.source.Products(ctx, gender, category)
	if err != nil {
		c.logger.Error("error loading products", zap.Error(err),
			zap.String("gender", gender), zap.String("category", category))
		c.alert("Failed to load products")
		return []api.Product{}
	}
	return products
}

// GetProduct loads one product, or shows an alert and returns nil.
func (c *Catalog) GetProduct(ctx context.Context, id int) *api.Product {
	p, err := c.source.Product(ctx, id)
	if err != nil {
		c.logger.Error("error loading product", zap.Int("product_id", id), zap.Error(err))
		c.alert("Product not found")
		return nil
	}
	return p
}

// Categories lists the distinct product categories; failures yield nil.
func (c *Catalog) Categories(ctx context.Context) []string {
	cats, err := c.source.Categories(ctx)
	if err != nil {
		c.logger.Warn("error loading categories", zap.Error(err))
		return nil
	}
	return cats
}

func (c *Catalog) alert(msg string) {
	if c.alerts != nil {
		c.alerts.Show(msg, ui.KindError)
	}
}
