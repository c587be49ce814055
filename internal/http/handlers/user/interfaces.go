package user

import (
	"context"
	"docflow/internal/models"
)

const pkg = "userHandler/"

type UserAdder interface {
	Register(ctx context.Context, login string, password string, token string) (string, error)
}

type UserLister interface {
	Users(ctx context.Context, requester *models.User, role string) ([]*models.User, error)
}

type RoleSetter interface {
	SetRole(ctx context.Context, requester *models.User, userID string, role string) error
}
