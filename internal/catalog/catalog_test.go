package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/pet-shop-storefront/internal/api"
	"github.com/wichananm65/pet-shop-storefront/internal/personalize"
	"github.com/wichananm65/pet-shop-storefront/internal/ui"
	"github.com/wichananm65/pet-shop-storefront/internal/view"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSource struct {
	products []api.Product
	err      error
	gotArgs  [2]string
}

func (f *fakeSource) Products(_ context.Context, gender, category string) ([]api.Product, error) {
	f.gotArgs = [2]string{gender, category}
	return f.products, f.err
}

func (f *fakeSource) Product(_ context.Context, id int) (*api.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &api.Error{StatusCode: 404, Detail: "Product not found"}
}

func (f *fakeSource) Categories(context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []string{"Jackets"}, nil
}

var sample = []api.Product{
	{ID: 1, Name: "Denim Jacket", Price: "89.99", Category: "Jackets", Image: "/static/images/1.jpg"},
	{ID: 2, Name: "Linen Shirt", Price: "45.00", Category: "Shirts", Image: "/static/images/2.jpg"},
}

func TestLoadProducts(t *testing.T) {
	alerts := ui.NewAlerts(time.Minute)
	defer alerts.Close()
	src := &fakeSource{products: sample}
	c := New(src, alerts, nil)

	got := c.LoadProducts(context.Background(), "men", "jack")
	assert.Equal(t, sample, got)
	assert.Equal(t, [2]string{"men", "jack"}, src.gotArgs)
	_, shown := alerts.Current()
	assert.False(t, shown)

	src.err = errors.New("connection refused")
	got = c.LoadProducts(context.Background(), "", "")
	assert.NotNil(t, got)
	assert.Empty(t, got)
	alert, shown := alerts.Current()
	require.True(t, shown)
	assert.Equal(t, "Failed to load products", alert.Message)
	assert.Equal(t, ui.KindError, alert.Kind)
	assert.Nil(t, c.Categories(context.Background()))
}

func TestGetProduct(t *testing.T) {
	alerts := ui.NewAlerts(time.Minute)
	defer alerts.Close()
	c := New(&fakeSource{products: sample}, alerts, nil)

	p := c.GetProduct(context.Background(), 2)
	require.NotNil(t, p)
	assert.Equal(t, "Linen Shirt", p.Name)

	assert.Nil(t, c.GetProduct(context.Background(), 9))
	alert, shown := alerts.Current()
	require.True(t, shown)
	assert.Equal(t, "Product not found", alert.Message)
}

func TestRenderCard(t *testing.T) {
	html := RenderCard(api.Product{ID: 7, Name: `Tee "Classic"`, Price: "19.99", Category: "Tops", Image: "/static/images/7.jpg"})
	assert.Contains(t, html, `id="product-card-7"`)
	assert.Contains(t, html, `onclick="viewProduct(7)"`)
	assert.Contains(t, html, `id="product-image-7"`)
	assert.Contains(t, html, `class="product-image"`)
	assert.Contains(t, html, `src="/static/images/7.jpg"`)
	assert.Contains(t, html, "placeholder.jpg")
	assert.Contains(t, html, `<div class="product-category">Tops</div>`)
	assert.Contains(t, html, `<div class="product-price">$19.99</div>`)
	assert.Contains(t, html, "Tee &#34;Classic&#34;")
}

func TestRenderGrid(t *testing.T) {
	assert.Equal(t, `<p style="text-align: center; color: #666;">No products found.</p>`, RenderGrid(nil))

	html := RenderGrid(sample)
	assert.Equal(t, 2, strings.Count(html, `class="product-card"`))
	assert.Less(t, strings.Index(html, "product-card-1"), strings.Index(html, "product-card-2"))
}

type loggedIn bool

func (l loggedIn) IsLoggedIn() bool { return bool(l) }

// scriptedBackend personalizes product 1, keeps product 2 generating and
// fails product 3.
type scriptedBackend struct {
	mu     sync.Mutex
	checks map[int]int
}

func (b *scriptedBackend) PersonalizedImage(_ context.Context, id int) (*api.PersonalizedStatus, error) {
	b.mu.Lock()
	b.checks[id]++
	b.mu.Unlock()
	switch id {
	case 1:
		return &api.PersonalizedStatus{HasPersonalizedImage: true, PersonalizedImageURL: "/gen/1.png"}, nil
	case 2:
		return &api.PersonalizedStatus{IsGenerating: true}, nil
	}
	return nil, errors.New("boom")
}

func (b *scriptedBackend) GeneratePersonalizedImage(context.Context, int) (*api.GenerationResult, error) {
	return nil, errors.New("not expected")
}

func (b *scriptedBackend) count(id int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.checks[id]
}

func newManager(b personalize.Backend, auth personalize.Auth) *personalize.Manager {
	return personalize.NewManager(b, auth, personalize.Options{
		InitialDelay: time.Millisecond,
		Interval:     time.Millisecond,
		MaxAttempts:  3,
	})
}

func TestGridMount_LoggedIn(t *testing.T) {
	b := &scriptedBackend{checks: map[int]int{}}
	grid := NewGrid(newManager(b, loggedIn(true)), loggedIn(true))

	products := append(append([]api.Product{}, sample...), api.Product{ID: 3, Name: "Broken", Image: "/static/images/3.jpg"})
	cards := grid.Mount(context.Background(), products)
	require.Len(t, cards, 3)
	grid.Wait()

	f1, ok := grid.Flow(1)
	require.True(t, ok)
	assert.Equal(t, personalize.StateResolved, f1.State())
	assert.True(t, strings.HasPrefix(cards[0].Image.Src(), "/gen/1.png?t="))

	f2, _ := grid.Flow(2)
	assert.Equal(t, personalize.StateTimedOut, f2.State())
	assert.Equal(t, 4, b.count(2))
	assert.Empty(t, cards[1].Indicators())

	f3, _ := grid.Flow(3)
	assert.Equal(t, personalize.StateUnavailable, f3.State())
	assert.Equal(t, "/static/images/3.jpg", cards[2].Image.Src())

	out := RenderTerminal(products, grid.Cards(), 2)
	assert.Contains(t, out, "Denim Jacket")
	assert.Contains(t, out, view.IndicatorPersonalized.Label())
}

func TestGridWait_CoversEveryFlow(t *testing.T) {
	b := &scriptedBackend{checks: map[int]int{}}
	grid := NewGrid(newManager(b, loggedIn(true)), loggedIn(true))

	products := append(append([]api.Product{}, sample...), api.Product{ID: 3, Name: "Broken", Image: "/static/images/3.jpg"})
	grid.Mount(context.Background(), products)
	for _, p := range products {
		_, ok := grid.Flow(p.ID)
		require.True(t, ok, "flow %d is registered before it runs", p.ID)
	}

	grid.Wait()
	for _, p := range products {
		f, _ := grid.Flow(p.ID)
		select {
		case <-f.Done():
		default:
			t.Fatalf("flow %d still running after Wait", p.ID)
		}
		assert.True(t, f.State().Terminal(), "product %d ended in %s", p.ID, f.State())
	}
}

func TestGridMount_Anonymous(t *testing.T) {
	b := &scriptedBackend{checks: map[int]int{}}
	grid := NewGrid(newManager(b, loggedIn(false)), loggedIn(false))

	cards := grid.Mount(context.Background(), sample)
	grid.Wait()
	require.Len(t, cards, 2)
	_, ok := grid.Flow(1)
	assert.False(t, ok)
	assert.Zero(t, b.count(1))
	assert.Equal(t, "/static/images/1.jpg", cards[0].Image.Src())
}

func TestRenderTerminal_Empty(t *testing.T) {
	assert.Contains(t, RenderTerminal(nil, nil, 3), "No products found.")
}
