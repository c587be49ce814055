package exportservice

import (
	"archive/zip"
	"bytes"
	"context"
	"docflow/internal/content/docx"
	"docflow/internal/models"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

const pkg = "exportService/"

const bundleName = "completed_assignments.zip"

type ExportService struct {
	log         *slog.Logger
	assignments AssignmentProvider
	docProvider DocumentProvider
}

func New(
	log *slog.Logger,
	assignments AssignmentProvider,
	docProvider DocumentProvider,
) *ExportService {
	return &ExportService{
		log:         log,
		assignments: assignments,
		docProvider: docProvider,
	}
}

// RenderAssignment materializes the filled document for one assignment.
// Works for any status: fields without a value render their placeholder, so
// an in-progress assignment yields a usable preview.
func (es *ExportService) RenderAssignment(ctx context.Context, requester *models.User, assignmentID string) ([]byte, string, error) {
	op := pkg + "RenderAssignment"

	log := es.log.With(slog.String("op", op))

	log.Debug("attempting to render assignment", slog.String("assignment_id", assignmentID))

	assignment, err := es.assignments.AssignmentByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, models.ErrAssignmentNotFound) {
			log.Warn("assignment not found", slog.String("assignment_id", assignmentID))
			return nil, "", models.ErrAssignmentNotFound
		}
		log.Error("failed to get assignment", slog.String("error", err.Error()))
		return nil, "", models.ErrInternal
	}

	if !requester.IsAdmin() && requester.ID != assignment.UserID {
		log.Warn("requester does not own assignment", slog.String("user_id", requester.ID))
		return nil, "", models.ErrForbidden
	}

	payload, name, err := es.render(ctx, assignment)
	if err != nil {
		log.Error("failed to render assignment", slog.String("error", err.Error()))
		return nil, "", models.ErrInternal
	}

	log.Debug("assignment rendered successfully", slog.String("file", name))

	return payload, name, nil
}

// RenderCompletedBundle packages every completed assignment, optionally
// limited to one document, into a zip. Entries are ordered by assignment id
// ascending; zero completed assignments still yield a valid empty archive.
func (es *ExportService) RenderCompletedBundle(ctx context.Context, requester *models.User, documentID string) ([]byte, string, error) {
	op := pkg + "RenderCompletedBundle"

	log := es.log.With(slog.String("op", op))

	log.Debug("attempting to render completed bundle", slog.String("doc_id", documentID))

	if !requester.IsAdmin() {
		log.Warn("requester is not an admin", slog.String("user_id", requester.ID))
		return nil, "", models.ErrForbidden
	}

	assignments, err := es.assignments.ListCompleted(ctx, documentID)
	if err != nil {
		log.Error("failed to list completed assignments", slog.String("error", err.Error()))
		return nil, "", models.ErrInternal
	}

	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)

	used := make(map[string]int)

	for _, assignment := range assignments {
		payload, name, err := es.render(ctx, assignment)
		if err != nil {
			log.Error("failed to render assignment",
				slog.String("assignment_id", assignment.ID),
				slog.String("error", err.Error()))
			return nil, "", models.ErrInternal
		}

		n := used[name]
		used[name]++
		if n > 0 {
			name = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ".docx"), n, ".docx")
			used[name]++
		}

		w, err := zw.Create(name)
		if err != nil {
			log.Error("failed to create archive entry", slog.String("error", err.Error()))
			return nil, "", models.ErrInternal
		}

		if _, err := w.Write(payload); err != nil {
			log.Error("failed to write archive entry", slog.String("error", err.Error()))
			return nil, "", models.ErrInternal
		}
	}

	if err := zw.Close(); err != nil {
		log.Error("failed to finalize archive", slog.String("error", err.Error()))
		return nil, "", models.ErrInternal
	}

	log.Debug("bundle rendered successfully", slog.Int("entries", len(assignments)))

	return buf.Bytes(), bundleName, nil
}

func (es *ExportService) render(ctx context.Context, assignment *models.Assignment) ([]byte, string, error) {
	doc, err := es.docProvider.DocumentByID(ctx, assignment.DocumentID)
	if err != nil {
		return nil, "", err
	}

	filled := Fill(doc.Content, doc.Fields, assignment.Values)

	payload, err := docx.Build(filled)
	if err != nil {
		return nil, "", err
	}

	return payload, suggestedName(doc, assignment), nil
}

// Fill splices submitted values over the field spans of the content.
// Offsets count characters, not bytes, so non-ASCII content keeps its
// spans aligned. Fields without a value fall back to their placeholder.
// Spans are applied from the back so earlier offsets stay valid, and
// spans that no longer fit the content are clamped rather than rejected.
func Fill(content string, fields []models.EditableField, values []models.FieldValue) string {
	byField := make(map[string]string, len(values))
	for _, value := range values {
		byField[value.FieldID] = value.Value
	}

	ordered := make([]models.EditableField, len(fields))
	copy(ordered, fields)

	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].PositionStart > ordered[j].PositionStart
	})

	runes := []rune(content)

	for _, field := range ordered {
		text := byField[field.ID]
		if text == "" {
			text = field.Placeholder
		}
		if text == "" {
			text = "[" + field.Label + "]"
		}

		start, end := field.PositionStart, field.PositionEnd
		if start < 0 || start > len(runes) {
			continue
		}
		if end > len(runes) {
			end = len(runes)
		}
		if end < start {
			continue
		}

		spliced := make([]rune, 0, len(runes)-(end-start)+len(text))
		spliced = append(spliced, runes[:start]...)
		spliced = append(spliced, []rune(text)...)
		spliced = append(spliced, runes[end:]...)
		runes = spliced
	}

	return string(runes)
}

func suggestedName(doc *models.Document, assignment *models.Assignment) string {
	base := strings.TrimSuffix(doc.Name, ".docx")
	base = strings.TrimSuffix(base, ".doc")
	base = strings.ReplaceAll(strings.TrimSpace(base), " ", "_")

	if base == "" || assignment.UserLogin == "" {
		return fmt.Sprintf("assignment_%s.docx", assignment.ID)
	}

	return fmt.Sprintf("%s_%s.docx", base, assignment.UserLogin)
}
