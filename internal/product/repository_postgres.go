package product

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	productColumns = `id, sku, name, price, category, image, description, sizes, colors, gender, is_active`

	listProductsQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE is_active = TRUE`
	getProductByIDQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1 AND is_active = TRUE
	`
	getProductBySKUQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE sku = $1 AND is_active = TRUE
	`
	listCategoriesQuery = `SELECT DISTINCT category FROM products ORDER BY category`
	insertProductQuery  = `
		INSERT INTO products (sku, name, price, category, image, description, sizes, colors, gender, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id
	`
	deleteProductsQuery = `DELETE FROM products`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List applies the filter in SQL: gender by equality on the lower-cased
// value, category with ILIKE.
func (r *PostgresRepository) List(f Filter) []Product {
	q, args := buildListQuery(f)
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return []Product{}
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

func buildListQuery(f Filter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(listProductsQuery)
	args := make([]any, 0, 2)
	if f.Gender != "" {
		args = append(args, strings.ToLower(f.Gender))
		sb.WriteString(" AND gender = $" + strconv.Itoa(len(args)))
	}
	if f.Category != "" {
		args = append(args, "%"+f.Category+"%")
		sb.WriteString(" AND category ILIKE $" + strconv.Itoa(len(args)))
	}
	sb.WriteString(" ORDER BY id")
	return sb.String(), args
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	return r.getOne(getProductByIDQuery, id)
}

func (r *PostgresRepository) GetBySKU(sku string) (Product, error) {
	return r.getOne(getProductBySKUQuery, sku)
}

func (r *PostgresRepository) getOne(q string, arg any) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(q, arg))
	if err != nil {
		if err == sql.ErrNoRows {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Categories() []string {
	rows, err := r.db.Query(listCategoriesQuery)
	if err != nil {
		return []string{}
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Reset deletes all products and inserts the provided list in a single transaction.
func (r *PostgresRepository) Reset(products []Product) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(deleteProductsQuery); err != nil {
		return err
	}

	for i, p := range products {
		var id int
		err := tx.QueryRow(insertProductQuery,
			p.SKU,
			p.Name,
			p.Price,
			p.Category,
			p.Image,
			p.Description,
			pq.Array(p.Sizes),
			pq.Array(p.Colors),
			p.Gender,
			p.IsActive,
		).Scan(&id)
		if err != nil {
			return err
		}
		products[i].ID = id
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(scanner rowScanner) (Product, error) {
	p := Product{}
	var description sql.NullString

	if err := scanner.Scan(
		&p.ID,
		&p.SKU,
		&p.Name,
		&p.Price,
		&p.Category,
		&p.Image,
		&description,
		pq.Array(&p.Sizes),
		pq.Array(&p.Colors),
		&p.Gender,
		&p.IsActive,
	); err != nil {
		return Product{}, err
	}
	if description.Valid {
		p.Description = description.String
	}
	return p, nil
}
