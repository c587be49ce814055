package export

import (
	"context"
	"docflow/internal/models"
	utils "docflow/internal/utils/http_errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

const (
	docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	zipMIME  = "application/zip"
)

func Download(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, assignmentID string, ar AssignmentRenderer) {
	op := pkg + "Download"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	data, name, err := ar.RenderAssignment(ctx, requester, assignmentID)
	if err != nil {
		log.Warn("failed to render assignment", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	writeAttachment(w, log, data, name, docxMIME)
}

func DownloadBundle(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, br BundleRenderer) {
	op := pkg + "DownloadBundle"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	documentID := r.URL.Query().Get("document_id")

	data, name, err := br.RenderCompletedBundle(ctx, requester, documentID)
	if err != nil {
		log.Warn("failed to render bundle", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	writeAttachment(w, log, data, name, zipMIME)
}

func writeAttachment(w http.ResponseWriter, log *slog.Logger, data []byte, name string, mime string) {
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))

	if _, err := w.Write(data); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
