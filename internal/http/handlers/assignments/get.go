package assignments

import (
	"context"
	"docflow/internal/dto"
	"docflow/internal/models"
	utils "docflow/internal/utils/http_errors"
	"encoding/json"
	"log/slog"
	"net/http"
)

func Get(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, ap AssignmentProvider) {
	op := pkg + "Get"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	assignments, err := ap.AssignmentsByUser(ctx, requester)
	if err != nil {
		log.Warn("failed to list assignments", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	writeAssignments(log, w, assignments)
}

func GetCompleted(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, ap AssignmentProvider) {
	op := pkg + "GetCompleted"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	documentID := r.URL.Query().Get("document_id")

	assignments, err := ap.CompletedAssignments(ctx, requester, documentID)
	if err != nil {
		log.Warn("failed to list completed assignments", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	writeAssignments(log, w, assignments)
}

func writeAssignments(log *slog.Logger, w http.ResponseWriter, assignments []*models.Assignment) {
	dtoAssignments := make([]dto.AssignmentResponse, 0, len(assignments))

	for _, assignment := range assignments {
		dtoAssignments = append(dtoAssignments, dto.NewAssignmentResponse(assignment))
	}

	response := map[string]any{
		"response": map[string]any{
			"assignments": dtoAssignments,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
