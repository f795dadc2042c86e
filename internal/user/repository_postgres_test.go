package user

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "name", "email", "password", "country", "gender", "image", "created_at"}).
		AddRow(4, "Nok", "nok@example.com", "$2a$10$hash", "Thailand", "female", nil, created)
	mock.ExpectQuery("FROM users").WithArgs("nok@example.com").WillReturnRows(rows)

	u, err := repo.GetByEmail("nok@example.com")
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if u.ID != 4 || u.Image != nil || !u.CreatedAt.Equal(created) {
		t.Fatalf("unexpected user %+v", u)
	}

	mock.ExpectQuery("FROM users").WithArgs(99).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	if _, err := repo.GetByID(99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("Nok", "nok@example.com", "hash", "Thailand", "female", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	u, err := repo.Create(User{Name: "Nok", Email: "nok@example.com", Password: "hash", Country: "Thailand", Gender: "female", CreatedAt: time.Now()})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if u.ID != 12 {
		t.Fatalf("expected id 12, got %d", u.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
