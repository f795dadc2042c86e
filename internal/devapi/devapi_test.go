package devapi

import (
	"context"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/pet-shop-storefront/internal/api"
	"github.com/wichananm65/pet-shop-storefront/internal/personalize"
	"github.com/wichananm65/pet-shop-storefront/internal/session"
	"github.com/wichananm65/pet-shop-storefront/internal/view"
)

func startServer(t *testing.T) (*Server, *httptest.Server, string) {
	t.Helper()
	static := t.TempDir()
	srv, err := New(Options{JWTSecret: "test-secret", StaticDir: static})
	require.NoError(t, err)
	ts := httptest.NewServer(adaptor.FiberApp(srv.App))
	t.Cleanup(func() {
		ts.Close()
		srv.Generation.Close()
	})
	return srv, ts, static
}

func TestNew_RequiresSecret(t *testing.T) {
	_, err := New(Options{StaticDir: t.TempDir()})
	assert.Error(t, err)
}

func TestCatalogueEndpoints(t *testing.T) {
	_, ts, _ := startServer(t)
	client := api.NewClient(ts.URL + "/api")
	ctx := context.Background()

	products, err := client.Products(ctx, "women", "")
	require.NoError(t, err)
	assert.Len(t, products, 3)

	p, err := client.Product(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Linen Summer Shirt", p.Name)

	_, err = client.Product(ctx, 404)
	assert.True(t, api.IsNotFound(err))
	assert.Equal(t, "Product not found", err.Error())

	cats, err := client.Categories(ctx)
	require.NoError(t, err)
	assert.Contains(t, cats, "Jackets")

	banners, err := client.Banners(ctx)
	require.NoError(t, err)
	assert.Len(t, banners, 3)

	st, err := client.CheckPassword(ctx, "Abcdef1!")
	require.NoError(t, err)
	assert.Equal(t, "Strong", st.Strength)
}

func TestAnonymousAndRejectedTokens(t *testing.T) {
	_, ts, _ := startServer(t)
	ctx := context.Background()

	st, err := api.NewClient(ts.URL+"/api").PersonalizedImage(ctx, 1)
	require.NoError(t, err)
	assert.True(t, st.AuthenticationRequired)
	assert.False(t, st.ReadyForPersonalization)

	store := session.NewMemoryStore()
	sess := session.New(store, nil)
	require.NoError(t, sess.SetToken("not-a-jwt"))
	_, err = api.NewClient(ts.URL+"/api", api.WithTokenSource(sess)).PersonalizedImage(ctx, 1)
	assert.True(t, api.IsUnauthorized(err))
}

func TestLoginThenPersonalize(t *testing.T) {
	_, ts, static := startServer(t)
	ctx := context.Background()

	sess := session.New(session.NewMemoryStore(), nil)
	client := api.NewClient(ts.URL+"/api", api.WithTokenSource(sess))

	_, err := client.Login(ctx, DemoEmail, "wrong")
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))

	resp, err := client.Login(ctx, DemoEmail, DemoPassword)
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	require.NoError(t, sess.Save(resp.AccessToken, session.User{ID: resp.User.ID, Name: resp.User.Name, Image: resp.User.Image}))
	assert.Equal(t, "bearer", resp.TokenType)

	m := personalize.NewManager(client, sess, personalize.Options{
		InitialDelay: 5 * time.Millisecond,
		Interval:     20 * time.Millisecond,
		MaxAttempts:  100,
	})
	card := view.NewCard(1, "/static/images/products/denim-jacket.jpg")

	f := m.Run(ctx, card)
	require.Equal(t, personalize.StateResolved, f.State())
	assert.Regexp(t, regexp.MustCompile(`^/static/generated/cache/user_1_product_1\.png\?t=\d+$`), card.Image.Src())
	assert.True(t, card.HasIndicator(view.IndicatorPersonalized))

	_, err = os.Stat(filepath.Join(static, "generated", "cache", "user_1_product_1.png"))
	require.NoError(t, err)

	// the generated file is served from /static
	res, err := ts.Client().Get(ts.URL + strings.SplitN(card.Image.Src(), "?", 2)[0])
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, 200, res.StatusCode)

	// a second flow finds the cached image on the first check
	again := view.NewCard(1, "/static/images/products/denim-jacket.jpg")
	f = m.Run(ctx, again)
	assert.Equal(t, personalize.StateResolved, f.State())
	assert.Zero(t, f.Attempts())
}

func TestResetAndSignupClearCachedImages(t *testing.T) {
	srv, _, static := startServer(t)
	cacheDir := filepath.Join(static, "generated", "cache")
	require.NoError(t, os.MkdirAll(cacheDir, 0755))
	stale := func(name string) string {
		p := filepath.Join(cacheDir, name)
		require.NoError(t, os.WriteFile(p, []byte("png"), 0644))
		return p
	}
	productImage := stale("user_1_product_1.png")
	userImage := stale("user_2_product_99.png")

	t.Setenv("ALLOW_RESET_PRODUCTS", "1")
	res, err := srv.App.Test(httptest.NewRequest("POST", "/api/dev/reset-products", nil))
	require.NoError(t, err)
	require.Equal(t, 200, res.StatusCode)
	assert.NoFileExists(t, productImage)
	assert.FileExists(t, userImage, "product 99 was never in the catalogue")

	form := url.Values{
		"name":     {"Second Shopper"},
		"email":    {"second@example.com"},
		"password": {"Abcdef1!"},
		"country":  {"Thailand"},
		"gender":   {"female"},
	}
	req := httptest.NewRequest("POST", "/api/auth/signup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res, err = srv.App.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, res.StatusCode)

	u, err := srv.Users.GetByID(2)
	require.NoError(t, err)
	assert.Equal(t, "second@example.com", u.Email)
	assert.NoFileExists(t, userImage)
}
