package devapi

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/wichananm65/pet-shop-storefront/internal/banner"
	"github.com/wichananm65/pet-shop-storefront/internal/product"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		sku TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		price TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		image TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		sizes TEXT[] NOT NULL DEFAULT '{}',
		colors TEXT[] NOT NULL DEFAULT '{}',
		gender TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		country TEXT NOT NULL DEFAULT '',
		gender TEXT NOT NULL DEFAULT '',
		image TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS banner (banner_id SERIAL PRIMARY KEY, banner_img TEXT, banner_link TEXT, banner_alt TEXT, ord INT)`,
}

// OpenDB opens and pings a Postgres database through the pgx driver.
func OpenDB(url string) (*sql.DB, error) {
	if url == "" {
		return nil, fmt.Errorf("devapi: database url is empty")
	}
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the tables the dev backend reads and seeds the catalogue
// and banners when they are empty.
func Migrate(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("devapi: migrate: %w", err)
		}
	}

	var productCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&productCount); err != nil {
		return fmt.Errorf("devapi: count products: %w", err)
	}
	if productCount == 0 {
		if err := product.NewService(product.NewPostgresRepository(db)).ResetProducts(product.DefaultCatalog()); err != nil {
			return fmt.Errorf("devapi: seed products: %w", err)
		}
	}

	var bannerCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM banner`).Scan(&bannerCount); err != nil {
		return fmt.Errorf("devapi: count banners: %w", err)
	}
	if bannerCount == 0 {
		seed := banner.DefaultBanners()
		for i, b := range seed {
			if _, err := db.Exec(`INSERT INTO banner (banner_img, banner_link, banner_alt, ord) VALUES ($1,$2,$3,$4)`,
				b.Image, b.Link, b.Alt, len(seed)-i); err != nil {
				return fmt.Errorf("devapi: seed banners: %w", err)
			}
		}
	}
	return nil
}
