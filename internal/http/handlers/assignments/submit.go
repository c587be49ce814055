package assignments

import (
	"context"
	"docflow/internal/dto"
	"docflow/internal/models"
	utils "docflow/internal/utils/http_errors"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

func Submit(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, assignmentID string, vs ValueSubmitter) {
	op := pkg + "Submit"

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

	var submitRequest dto.SubmitValuesRequest

	if err := json.Unmarshal(body, &submitRequest); err != nil {
		log.Error("unmarshal body", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	if err := vs.SubmitValues(ctx, requester, assignmentID, submitRequest.Values); err != nil {
		log.Warn("failed to submit values", slog.String("error", err.Error()))
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
