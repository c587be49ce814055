package assignments

import (
	"context"
	"docflow/internal/models"
	utils "docflow/internal/utils/http_errors"
	"encoding/json"
	"log/slog"
	"net/http"
)

func Complete(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, assignmentID string, ac AssignmentCompleter) {
	op := pkg + "Complete"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	if err := ac.CompleteAssignment(ctx, requester, assignmentID); err != nil {
		log.Warn("failed to complete assignment", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	response := map[string]any{
		"response": map[string]any{
			assignmentID: true,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
