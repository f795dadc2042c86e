package product

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newTestApp() *fiber.App {
	h := NewHandler(NewService(NewInMemoryRepository(DefaultCatalog())))
	app := fiber.New()
	h.RegisterPublicRoutes(app.Group("/api"))
	return app
}

func decodeProducts(t *testing.T, body io.Reader) []Product {
	t.Helper()
	var out []Product
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return out
}

func TestGetProducts_Filters(t *testing.T) {
	app := newTestApp()

	cases := []struct {
		url  string
		want int
	}{
		{"/api/products/", 6},
		{"/api/products", 6},
		{"/api/products/?gender=WOMEN", 3},
		{"/api/products/?category=jack", 2},
		{"/api/products/?gender=men&category=JACKETS", 1},
		{"/api/products/?category=hats", 0},
	}
	for _, tc := range cases {
		res, err := app.Test(httptest.NewRequest("GET", tc.url, nil))
		if err != nil {
			t.Fatalf("%s: request failed: %v", tc.url, err)
		}
		if res.StatusCode != fiber.StatusOK {
			t.Fatalf("%s: expected 200 got %d", tc.url, res.StatusCode)
		}
		if got := decodeProducts(t, res.Body); len(got) != tc.want {
			t.Fatalf("%s: expected %d products, got %d", tc.url, tc.want, len(got))
		}
	}
}

func TestGetProducts_EmptyIsArray(t *testing.T) {
	app := newTestApp()
	res, err := app.Test(httptest.NewRequest("GET", "/api/products/?gender=kids", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	b, _ := io.ReadAll(res.Body)
	if strings.TrimSpace(string(b)) != "[]" {
		t.Fatalf("expected empty JSON array, got %s", b)
	}
}

func TestGetProduct(t *testing.T) {
	app := newTestApp()

	res, err := app.Test(httptest.NewRequest("GET", "/api/products/4", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 got %d", res.StatusCode)
	}
	var p Product
	if err := json.NewDecoder(res.Body).Decode(&p); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if p.SKU != "WD-021" || p.Price != "74.00" {
		t.Fatalf("unexpected product %+v", p)
	}

	res2, _ := app.Test(httptest.NewRequest("GET", "/api/products/999", nil))
	if res2.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 got %d", res2.StatusCode)
	}
	b, _ := io.ReadAll(res2.Body)
	if !strings.Contains(string(b), `"detail":"Product not found"`) {
		t.Fatalf("unexpected error body %s", b)
	}
}

func TestCategoriesAndSKURoutes(t *testing.T) {
	app := newTestApp()

	res, err := app.Test(httptest.NewRequest("GET", "/api/products/categories/list", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var body struct {
		Categories []string `json:"categories"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(body.Categories) != 5 || body.Categories[0] != "Dresses" {
		t.Fatalf("unexpected categories %v", body.Categories)
	}

	res2, _ := app.Test(httptest.NewRequest("GET", "/api/products/sku/MT-014", nil))
	if res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for sku lookup, got %d", res2.StatusCode)
	}

	res3, _ := app.Test(httptest.NewRequest("GET", "/api/products/women", nil))
	if got := decodeProducts(t, res3.Body); len(got) != 3 {
		t.Fatalf("expected 3 women's products, got %d", len(got))
	}
}

func TestResetProducts(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("POST", "/api/dev/reset-products", strings.NewReader(`[]`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 without ALLOW_RESET_PRODUCTS, got %d", res.StatusCode)
	}

	t.Setenv("ALLOW_RESET_PRODUCTS", "1")
	payload := `[{"sku":"X-1","name":"Scarf","price":"12.00","category":"Accessories","gender":"women"}]`
	req = httptest.NewRequest("POST", "/api/dev/reset-products", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 got %d", res.StatusCode)
	}

	res2, _ := app.Test(httptest.NewRequest("GET", "/api/products/", nil))
	got := decodeProducts(t, res2.Body)
	if len(got) != 1 || got[0].Name != "Scarf" {
		t.Fatalf("unexpected products after reset: %+v", got)
	}

	bad := `[{"sku":"X-1","name":"Scarf","gender":"kids"}]`
	req = httptest.NewRequest("POST", "/api/dev/reset-products", strings.NewReader(bad))
	req.Header.Set("Content-Type", "application/json")
	res3, _ := app.Test(req)
	if res3.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload, got %d", res3.StatusCode)
	}
}

func TestResetProducts_ReportsAffectedIDs(t *testing.T) {
	t.Setenv("ALLOW_RESET_PRODUCTS", "1")
	h := NewHandler(NewService(NewInMemoryRepository(DefaultCatalog())))
	var got []int
	h.OnReset(func(ids []int) { got = ids })
	app := fiber.New()
	h.RegisterPublicRoutes(app.Group("/api"))

	payload := `[{"sku":"X-1","name":"Scarf","price":"12.00","category":"Accessories","gender":"women"},` +
		`{"id":2,"sku":"X-2","name":"Belt","price":"9.00","category":"Accessories","gender":"men"}]`
	req := httptest.NewRequest("POST", "/api/dev/reset-products", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 got %d", res.StatusCode)
	}

	// six old products plus the new scarf, with id 2 reported once
	if len(got) != 7 {
		t.Fatalf("expected 7 ids, got %v", got)
	}
	seen := map[int]int{}
	for _, id := range got {
		seen[id]++
	}
	if seen[1] != 1 || seen[2] != 1 || seen[7] != 1 {
		t.Fatalf("unexpected ids %v", got)
	}
}

func TestFilterMatch_SkipsInactive(t *testing.T) {
	p := Product{Gender: "men", Category: "Jackets"}
	if (Filter{}).Match(p) {
		t.Fatalf("inactive product must not match")
	}
	p.IsActive = true
	if !(Filter{Gender: "Men", Category: "ACK"}).Match(p) {
		t.Fatalf("expected match")
	}
}
