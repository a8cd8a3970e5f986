package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cookingapp/pkg/database"
	"cookingapp/pkg/models"
)

type Repo struct {
	DB *database.DB
}

func NewRepo(db *database.DB) *Repo {
	return &Repo{DB: db}
}

// FindByID returns nil, nil when the user does not exist.
func (r *Repo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_name, email, city FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.UserName, &u.Email, &u.City)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (r *Repo) Create(ctx context.Context, u *models.User) error {
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO users (user_name, email, city) VALUES (?, ?, ?) RETURNING id`,
		u.UserName, u.Email, u.City,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *Repo) UpdateCity(ctx context.Context, id int64, city string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET city = ? WHERE id = ?`, city, id)
	if err != nil {
		return false, fmt.Errorf("update user city: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
