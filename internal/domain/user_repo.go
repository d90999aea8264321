package domain

import "context"

// User хранит пароль открытым текстом: хэширование сознательно не вводилось.
type User struct {
	ID         int64
	Username   string `validate:"required"`
	Password   string `validate:"required"`
	ClosingDay int    `validate:"min=1,max=31"`
	GoalAmount int64  `validate:"gte=0"`
	Valid      bool
}

type UserRepo interface {
	CreateUser(ctx context.Context, u User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
	FindUserIDByCredentials(ctx context.Context, username, password string) (int64, error)
	UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error)
	UpdateUser(ctx context.Context, u User) error
	InvalidateUser(ctx context.Context, id int64) error
}
