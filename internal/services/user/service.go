package userservice

import (
	"context"
	"docflow/internal/models"
	"docflow/internal/validator"
	"errors"
	"log/slog"
)

const pkg = "userService/"

type UserService struct {
	log          *slog.Logger
	userAdder    UserAdder
	userProvider UserProvider
	roleSetter   RoleSetter
}

func New(
	log *slog.Logger,
	userAdder UserAdder,
	userProvider UserProvider,
	roleSetter RoleSetter,
) *UserService {
	return &UserService{
		log:          log,
		userAdder:    userAdder,
		userProvider: userProvider,
		roleSetter:   roleSetter,
	}
}

func (u *UserService) AddUser(ctx context.Context, user models.User) error {
	op := pkg + "AddUser"

	log := u.log.With(slog.String("op", op))

	log.Debug("attempting to add user")

	err := u.userAdder.AddUser(ctx, user)
	if err != nil {
		var uce *models.UniqueConstraintError
		if errors.As(err, &uce) {
			log.Warn("user already exists", slog.String("constraint", uce.Constraint))
			return models.ErrUserExists
		}
		log.Error("failed to add user", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	log.Debug("user added successfully")

	return nil
}

func (u *UserService) UserByID(ctx context.Context, id string) (*models.User, error) {
	op := pkg + "UserByID"

	log := u.log.With(slog.String("op", op))

	log.Debug("attempting to get user by id")

	user, err := u.userProvider.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Warn("failed to get user by id", slog.String("error", models.ErrUserNotFound.Error()))
			return nil, models.ErrUserNotFound
		}
		log.Error("failed to get user by id", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	log.Debug("user found successfully")

	return user, nil
}

func (u *UserService) UserByLogin(ctx context.Context, login string) (*models.User, error) {
	op := pkg + "UserByLogin"

	log := u.log.With(slog.String("op", op))

	log.Debug("attempting to get user by login")

	user, err := u.userProvider.UserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Warn("failed to get user by login", slog.String("error", models.ErrUserNotFound.Error()))
			return nil, models.ErrUserNotFound
		}
		log.Error("failed to get user by login", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	log.Debug("user found successfully")

	return user, nil
}

// Users lists users filtered by role; an empty role means everyone.
func (u *UserService) Users(ctx context.Context, requester *models.User, role string) ([]*models.User, error) {
	op := pkg + "Users"

	log := u.log.With(slog.String("op", op))

	log.Debug("attempting to list users", slog.String("role", role))

	if !requester.IsAdmin() {
		log.Warn("requester is not an admin", slog.String("user_id", requester.ID))
		return nil, models.ErrForbidden
	}

	if role != "" && !models.IsValidRole(role) {
		log.Warn("invalid role filter", slog.String("role", role))
		return nil, models.ErrInvalidParams
	}

	users, err := u.userProvider.ListByRole(ctx, role)
	if err != nil {
		log.Error("failed to list users", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	log.Debug("users listed successfully", slog.Int("count", len(users)))

	return users, nil
}

func (u *UserService) SetRole(ctx context.Context, requester *models.User, userID string, role string) error {
	op := pkg + "SetRole"

	log := u.log.With(slog.String("op", op))

	log.Debug("attempting to set user role", slog.String("user_id", userID), slog.String("role", role))

	if !requester.IsAdmin() {
		log.Warn("requester is not an admin", slog.String("user_id", requester.ID))
		return models.ErrForbidden
	}

	if err := validator.ValidateRole(role); err != nil {
		log.Warn("invalid role", slog.String("role", role))
		return models.ErrInvalidParams
	}

	err := u.roleSetter.SetRole(ctx, userID, role)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Warn("user not found", slog.String("user_id", userID))
			return models.ErrUserNotFound
		}
		log.Error("failed to set role", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	log.Debug("role set successfully")

	return nil
}
