package user

import (
	"context"
	"docflow/internal/dto"
	"docflow/internal/models"
	utils "docflow/internal/utils/http_errors"
	"encoding/json"
	"log/slog"
	"net/http"
)

func Get(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, ul UserLister) {
	op := pkg + "Get"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	role := r.URL.Query().Get("role")

	users, err := ul.Users(ctx, requester, role)
	if err != nil {
		log.Warn("failed to list users", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	dtoUsers := make([]dto.UserResponse, 0, len(users))

	for _, u := range users {
		dtoUsers = append(dtoUsers, dto.NewUserResponse(u))
	}

	response := map[string]any{
		"response": map[string]any{
			"users": dtoUsers,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
