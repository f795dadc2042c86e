package catalog

import (
	"context"
	"sync"

	"github.com/wichananm65/pet-shop-storefront/internal/api"
	"github.com/wichananm65/pet-shop-storefront/internal/personalize"
	"github.com/wichananm65/pet-shop-storefront/internal/view"
	"golang.org/x/sync/errgroup"
)

// Auth tells whether the shopper is signed in.
type Auth interface {
	IsLoggedIn() bool
}

// Grid holds the cards of a rendered product list and the personalization
// flows running on them.
type Grid struct {
	manager *personalize.Manager
	auth    Auth

	mu    sync.Mutex
	cards []*view.Card
	flows map[int]*personalize.Flow
	g     *errgroup.Group
}

func NewGrid(manager *personalize.Manager, auth Auth) *Grid {
	return &Grid{manager: manager, auth: auth, flows: map[int]*personalize.Flow{}}
}

// Mount builds a card per product and, for a signed-in shopper, starts one
// independent personalization flow per card. It does not wait for them.
func (g *Grid) Mount(ctx context.Context, products []api.Product) []*view.Card {
	cards := make([]*view.Card, len(products))
	for i, p := range products {
		cards[i] = view.NewCard(p.ID, p.Image)
	}

	eg := new(errgroup.Group)
	flows := map[int]*personalize.Flow{}
	if g.manager != nil && g.auth != nil && g.auth.IsLoggedIn() {
		for _, card := range cards {
			f := g.manager.NewFlow(card)
			flows[card.ProductID] = f
			eg.Go(func() error {
				// a failed flow leaves its card alone and never affects the others
				g.manager.RunFlow(ctx, f, card)
				return nil
			})
		}
	}

	g.mu.Lock()
	g.cards = cards
	g.flows = flows
	g.g = eg
	g.mu.Unlock()
	return cards
}

// Wait blocks until every flow started by the last Mount has finished.
func (g *Grid) Wait() {
	g.mu.Lock()
	eg := g.g
	g.mu.Unlock()
	if eg != nil {
		_ = eg.Wait()
	}
}

func (g *Grid) Cards() []*view.Card {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*view.Card(nil), g.cards...)
}

// Flow returns the personalization flow of productID, if one was started.
func (g *Grid) Flow(productID int) (*personalize.Flow, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	f, ok := g.flows[productID]
	return f, ok
}
