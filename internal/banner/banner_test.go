package banner

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
)

func TestGetBanners_Limit(t *testing.T) {
	h := NewHandler(NewService(NewInMemoryRepository(DefaultBanners())))
	app := fiber.New()
	h.RegisterPublicRoutes(app)

	for url, want := range map[string]int{"/banners": 3, "/banners?limit=2": 2, "/banners?limit=x": 3} {
		res, err := app.Test(httptest.NewRequest("GET", url, nil))
		if err != nil {
			t.Fatalf("%s: request failed: %v", url, err)
		}
		var got []Banner
		if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
			t.Fatalf("%s: decode failed: %v", url, err)
		}
		if len(got) != want {
			t.Fatalf("%s: expected %d banners, got %d", url, want, len(got))
		}
	}
}

func TestPostgresRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM banner").WithArgs(5).WillReturnRows(
		sqlmock.NewRows([]string{"banner_id", "banner_img", "banner_link", "banner_alt"}).
			AddRow(1, "/a.jpg", nil, "A").
			AddRow(2, "/b.jpg", "/sale", nil))

	items, err := repo.List(5)
	if err != nil {
		t.Fatalf("unexpected err %v", err)
	}
	if len(items) != 2 || items[0].Alt != "A" || items[1].Link != "/sale" {
		t.Fatalf("unexpected items %+v", items)
	}

	mock.ExpectQuery("FROM banner").WillReturnError(errors.New("relation does not exist"))
	items, err = repo.List(5)
	if err != nil || len(items) != 0 {
		t.Fatalf("expected empty result on query error, got %v %v", items, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
