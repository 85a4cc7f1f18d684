package database

import (
	"context"

	"github.com/google/uuid"
)

const userColumns = `id, restaurant_id, username, password_hash, role, is_active`

func (q *Queries) GetActiveUserByUsername(ctx context.Context, username string) (User, error) {
	const sql = `SELECT ` + userColumns + ` FROM users WHERE username = $1 AND is_active`
	var u User
	err := q.db.QueryRow(ctx, sql, username).Scan(
		&u.ID, &u.RestaurantID, &u.Username, &u.PasswordHash, &u.Role, &u.IsActive,
	)
	return u, err
}

// GetActiveManagerByUsername is used by the short-lived manager login.
func (q *Queries) GetActiveManagerByUsername(ctx context.Context, username string) (User, error) {
	const sql = `SELECT ` + userColumns + `
		FROM users WHERE username = $1 AND role = 'MANAGER' AND is_active`
	var u User
	err := q.db.QueryRow(ctx, sql, username).Scan(
		&u.ID, &u.RestaurantID, &u.Username, &u.PasswordHash, &u.Role, &u.IsActive,
	)
	return u, err
}

type CreateUserParams struct {
	RestaurantID uuid.UUID
	Username     string
	PasswordHash string
	Role         string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	const sql = `
		INSERT INTO users (restaurant_id, username, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING ` + userColumns
	var u User
	err := q.db.QueryRow(ctx, sql,
		arg.RestaurantID, arg.Username, arg.PasswordHash, arg.Role,
	).Scan(&u.ID, &u.RestaurantID, &u.Username, &u.PasswordHash, &u.Role, &u.IsActive)
	return u, err
}

func (q *Queries) CreateRestaurant(ctx context.Context, name string) (Restaurant, error) {
	const sql = `INSERT INTO restaurants (name) VALUES ($1) RETURNING id, name`
	var r Restaurant
	err := q.db.QueryRow(ctx, sql, name).Scan(&r.ID, &r.Name)
	return r, err
}
