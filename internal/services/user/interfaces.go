package userservice

import (
	"context"
	"docflow/internal/models"
)

type UserAdder interface {
	AddUser(ctx context.Context, user models.User) error
}

type UserProvider interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
	UserByLogin(ctx context.Context, login string) (*models.User, error)
	ListByRole(ctx context.Context, role string) ([]*models.User, error)
}

type RoleSetter interface {
	SetRole(ctx context.Context, id string, role string) error
}
