package repository

import (
	"context"

	"github.com/coffeebeans/shop/internal/domain/model"
)

// UserRepository describes persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, name, email, passwordHash string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// AddPoints credits loyalty points, never driving the balance negative.
	AddPoints(ctx context.Context, userID int64, points int64) error
}
