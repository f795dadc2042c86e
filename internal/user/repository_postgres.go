package user

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	getUserByIDQuery = `
		SELECT id, name, email, password, country, gender, image, created_at
		FROM users
		WHERE id = $1 AND is_active = TRUE
	`
	getUserByEmailQuery = `
		SELECT id, name, email, password, country, gender, image, created_at
		FROM users
		WHERE email = $1 AND is_active = TRUE
	`
	insertUserQuery = `
		INSERT INTO users (name, email, password, country, gender, image, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	return r.getOne(getUserByIDQuery, id)
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	return r.getOne(getUserByEmailQuery, email)
}

func (r *PostgresRepository) getOne(q string, arg any) (User, error) {
	user, err := scanUser(r.db.QueryRow(q, arg))
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

func (r *PostgresRepository) Create(user User) (User, error) {
	err := r.db.QueryRow(insertUserQuery,
		user.Name,
		user.Email,
		user.Password,
		user.Country,
		user.Gender,
		user.Image,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func scanUser(scanner rowScanner) (User, error) {
	var (
		user  User
		image sql.NullString
	)
	if err := scanner.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Country,
		&user.Gender,
		&image,
		&user.CreatedAt,
	); err != nil {
		return User{}, err
	}
	if image.Valid {
		user.Image = &image.String
	}
	return user, nil
}
