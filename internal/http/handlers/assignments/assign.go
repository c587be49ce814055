package assignments

import (
	"context"
	"docflow/internal/dto"
	"docflow/internal/models"
	utils "docflow/internal/utils/http_errors"
	"docflow/internal/validator"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

func Assign(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, da DocumentAssigner) {
	op := pkg + "Assign"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read body", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}
	defer r.Body.Close()

	var assignRequest dto.AssignRequest

	if err := json.Unmarshal(body, &assignRequest); err != nil {
		log.Error("unmarshal body", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	if err := validator.ValidateAssign(&assignRequest); err != nil {
		log.Warn("invalid assign request", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, skipped, err := da.AssignDocument(ctx, requester, docID, assignRequest.UserIDs)
	if err != nil {
		log.Warn("failed to assign document", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	response := map[string]any{
		"response": dto.AssignResponse{
			Created: created,
			Skipped: skipped,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
