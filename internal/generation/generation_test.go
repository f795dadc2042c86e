package generation

import (
	"context"
	"encoding/json"
	"image/color"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/pet-shop-storefront/internal/product"
	"github.com/wichananm65/pet-shop-storefront/internal/user"
)

// gatedGenerator writes a file once release is closed.
type gatedGenerator struct {
	release chan struct{}
	mu      sync.Mutex
	calls   int
	err     error
}

func (g *gatedGenerator) Generate(ctx context.Context, avatarPath, productPath, dest string) error {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	select {
	case <-g.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	if g.err != nil {
		return g.err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	return os.WriteFile(dest, []byte("png"), 0644)
}

func (g *gatedGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type users map[int]user.User

func (u users) GetByID(id int) (user.User, error) {
	if v, ok := u[id]; ok {
		return v, nil
	}
	return user.User{}, user.ErrNotFound
}

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T, gen Generator) (*Service, *Cache) {
	t.Helper()
	static := t.TempDir()
	cache := NewCache(filepath.Join(static, "generated", "cache"), "/static/generated/cache")
	products := product.NewInMemoryRepository(product.DefaultCatalog())
	us := users{
		1: {ID: 1, Name: "With Avatar", Image: strPtr("/static/uploads/profile_images/a.png")},
		2: {ID: 2, Name: "No Avatar"},
	}
	svc := NewService(cache, gen, products, us, Options{StaticDir: static})
	t.Cleanup(svc.Close)
	return svc, cache
}

func TestCacheKeysAndClear(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(dir, "/static/generated/cache")
	assert.Equal(t, "user_3_product_9", Key(3, 9))
	assert.Equal(t, "/static/generated/cache/user_3_product_9.png", c.URL(3, 9))

	_, ok := c.Lookup(3, 9)
	assert.False(t, ok)

	for _, k := range [][2]int{{3, 9}, {3, 10}, {4, 9}} {
		require.NoError(t, os.WriteFile(c.Path(k[0], k[1]), []byte("x"), 0644))
	}
	url, ok := c.Lookup(3, 9)
	assert.True(t, ok)
	assert.Equal(t, c.URL(3, 9), url)

	require.NoError(t, c.ClearUser(3))
	_, ok = c.Lookup(3, 10)
	assert.False(t, ok)
	_, ok = c.Lookup(4, 9)
	assert.True(t, ok)

	require.NoError(t, c.ClearProduct(9))
	_, ok = c.Lookup(4, 9)
	assert.False(t, ok)
}

func TestStatusForCallers(t *testing.T) {
	svc, _ := newTestService(t, &gatedGenerator{release: make(chan struct{})})

	st, err := svc.Status(0, 1)
	require.NoError(t, err)
	assert.True(t, st.AuthenticationRequired)
	assert.False(t, st.ReadyForPersonalization)
	assert.Equal(t, "/static/images/products/denim-jacket.jpg", st.OriginalImageURL)

	st, err = svc.Status(2, 1)
	require.NoError(t, err)
	assert.True(t, st.ProfileImageRequired)

	st, err = svc.Status(1, 1)
	require.NoError(t, err)
	assert.True(t, st.ReadyForPersonalization)
	assert.False(t, st.HasPersonalizedImage)

	_, err = svc.Status(1, 999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestTriggerLifecycle(t *testing.T) {
	gen := &gatedGenerator{release: make(chan struct{})}
	svc, cache := newTestService(t, gen)

	res, err := svc.Trigger(1, 4)
	require.NoError(t, err)
	assert.Equal(t, StatusStarted, res.Status)
	assert.NotEmpty(t, res.JobID)

	// a second trigger joins the running job
	again, err := svc.Trigger(1, 4)
	require.NoError(t, err)
	assert.Equal(t, StatusStarted, again.Status)
	assert.Equal(t, res.JobID, again.JobID)

	st, err := svc.Status(1, 4)
	require.NoError(t, err)
	assert.True(t, st.IsGenerating)

	close(gen.release)
	svc.Wait()
	assert.Equal(t, 1, gen.Calls())

	st, err = svc.Status(1, 4)
	require.NoError(t, err)
	assert.True(t, st.HasPersonalizedImage)
	require.NotNil(t, st.PersonalizedImageURL)
	assert.Equal(t, cache.URL(1, 4), *st.PersonalizedImageURL)

	res, err = svc.Trigger(1, 4)
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyExists, res.Status)
	assert.Equal(t, cache.URL(1, 4), res.PersonalizedImageURL)
}

func TestTriggerSkips(t *testing.T) {
	svc, _ := newTestService(t, &gatedGenerator{release: make(chan struct{})})

	res, err := svc.Trigger(0, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, res.Status)

	res, err = svc.Trigger(2, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, res.Status)
	assert.Equal(t, "Profile image required for personalization", res.Message)

	_, err = svc.Trigger(1, 999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestFailedGenerationIsRetryable(t *testing.T) {
	gen := &gatedGenerator{release: make(chan struct{}), err: os.ErrNotExist}
	close(gen.release)
	svc, _ := newTestService(t, gen)

	_, err := svc.Trigger(1, 2)
	require.NoError(t, err)
	svc.Wait()

	st, err := svc.Status(1, 2)
	require.NoError(t, err)
	assert.False(t, st.IsGenerating)
	assert.True(t, st.ReadyForPersonalization)
}

func TestImagingGenerator(t *testing.T) {
	dir := t.TempDir()
	avatar := filepath.Join(dir, "avatar.png")
	require.NoError(t, imaging.Save(imaging.New(64, 64, color.NRGBA{R: 200, A: 255}), avatar))

	gen := &ImagingGenerator{Size: 96}
	dest := filepath.Join(dir, "out", "user_1_product_1.png")
	require.NoError(t, gen.Generate(context.Background(), avatar, filepath.Join(dir, "missing.jpg"), dest))

	img, err := imaging.Open(dest)
	require.NoError(t, err)
	assert.Equal(t, 96, img.Bounds().Dx())
	assert.Equal(t, 96, img.Bounds().Dy())
	_, err = os.Stat(dest + ".tmp.png")
	assert.True(t, os.IsNotExist(err))

	err = gen.Generate(context.Background(), filepath.Join(dir, "nope.png"), "", filepath.Join(dir, "x.png"))
	assert.Error(t, err)
}

func TestHandlers(t *testing.T) {
	gen := &gatedGenerator{release: make(chan struct{})}
	close(gen.release)
	svc, _ := newTestService(t, gen)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"user_id": float64(id)}})
			}
		}
		return c.Next()
	})
	NewHandler(svc).RegisterRoutes(app)

	req := httptest.NewRequest("GET", "/products/1/personalized-image", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	var st map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&st))
	assert.Equal(t, true, st["authentication_required"])
	assert.Nil(t, st["personalized_image_url"])

	req = httptest.NewRequest("POST", "/products/3/generate-personalized-image", nil)
	req.Header.Set("X-User-ID", "1")
	res, err = app.Test(req)
	require.NoError(t, err)
	var out Result
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.Equal(t, StatusStarted, out.Status)
	svc.Wait()

	req = httptest.NewRequest("GET", "/products/3/personalized-image", nil)
	req.Header.Set("X-User-ID", "1")
	res, err = app.Test(req)
	require.NoError(t, err)
	st = nil
	require.NoError(t, json.NewDecoder(res.Body).Decode(&st))
	assert.Equal(t, true, st["has_personalized_image"])
	assert.Equal(t, "/static/generated/cache/user_1_product_3.png", st["personalized_image_url"])

	res, err = app.Test(httptest.NewRequest("GET", "/products/999/personalized-image", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
}
