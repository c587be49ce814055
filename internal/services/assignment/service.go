package assignmentservice

import (
	"context"
	"docflow/internal/models"
	"errors"
	"fmt"
	"log/slog"
	"time"

	uuid "github.com/satori/go.uuid"
)

const pkg = "assignmentService/"

type AssignmentService struct {
	log            *slog.Logger
	assignmentRepo AssignmentRepository
	docProvider    DocumentProvider
	userProvider   UserProvider
	cache          Cache
}

func New(
	log *slog.Logger,
	assignmentRepo AssignmentRepository,
	docProvider DocumentProvider,
	userProvider UserProvider,
	cache Cache,
) *AssignmentService {
	return &AssignmentService{
		log:            log,
		assignmentRepo: assignmentRepo,
		docProvider:    docProvider,
		userProvider:   userProvider,
		cache:          cache,
	}
}

// AssignDocument creates one pending assignment per user. Users that do not
// exist or already hold an assignment for the document are skipped, never
// failing the batch. The first created assignment flips the document to
// sent.
func (as *AssignmentService) AssignDocument(ctx context.Context, requester *models.User, docID string, userIDs []string) (int, int, error) {
	op := pkg + "AssignDocument"

	log := as.log.With(slog.String("op", op))

	log.Debug("attempting to assign document", slog.String("doc_id", docID), slog.Int("users", len(userIDs)))

	if !requester.IsAdmin() {
		log.Warn("requester is not an admin", slog.String("user_id", requester.ID))
		return 0, 0, models.ErrForbidden
	}

	if len(userIDs) == 0 {
		log.Warn("empty user list")
		return 0, 0, models.ErrEmptyUserList
	}

	doc, err := as.docProvider.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", docID))
			return 0, 0, models.ErrDocumentNotFound
		}
		log.Error("failed to get document", slog.String("error", err.Error()))
		return 0, 0, models.ErrInternal
	}

	if len(doc.Fields) == 0 {
		log.Warn("document has no editable fields", slog.String("doc_id", docID))
		return 0, 0, models.ErrNoEditableFields
	}

	created, skipped := 0, 0

	for _, userID := range userIDs {
		if _, err := as.userProvider.UserByID(ctx, userID); err != nil {
			if errors.Is(err, models.ErrUserNotFound) {
				log.Warn("user not found, skipping", slog.String("user_id", userID))
				skipped++
				continue
			}
			log.Error("failed to get user", slog.String("error", err.Error()))
			return created, skipped, models.ErrInternal
		}

		assignment := &models.Assignment{
			ID:         uuid.NewV4().String(),
			DocumentID: docID,
			UserID:     userID,
			Status:     models.AssignmentStatusPending,
			AssignedAt: time.Now(),
		}

		ok, err := as.assignmentRepo.CreateAssignment(ctx, assignment)
		if err != nil {
			log.Error("failed to create assignment", slog.String("error", err.Error()))
			return created, skipped, models.ErrInternal
		}

		if ok {
			created++
		} else {
			skipped++
		}
	}

	if created > 0 {
		if err := as.docProvider.MarkSent(ctx, docID); err != nil {
			log.Error("failed to mark document sent", slog.String("error", err.Error()))
			return created, skipped, models.ErrInternal
		}

		as.invalidateDoc(ctx, log, doc)
	}

	log.Debug("document assigned", slog.Int("created", created), slog.Int("skipped", skipped))

	return created, skipped, nil
}

func (as *AssignmentService) AssignmentByID(ctx context.Context, assignmentID string, requester *models.User) (*models.Assignment, error) {
	op := pkg + "AssignmentByID"

	log := as.log.With(slog.String("op", op))

	log.Debug("attempting to get assignment", slog.String("assignment_id", assignmentID))

	assignment, err := as.assignmentRepo.AssignmentByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, models.ErrAssignmentNotFound) {
			log.Warn("assignment not found", slog.String("assignment_id", assignmentID))
			return nil, models.ErrAssignmentNotFound
		}
		log.Error("failed to get assignment", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	if !requester.IsAdmin() && requester.ID != assignment.UserID {
		log.Warn("requester does not own assignment", slog.String("user_id", requester.ID))
		return nil, models.ErrForbidden
	}

	if err := as.attachFields(ctx, assignment); err != nil {
		log.Error("failed to load fields", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	log.Debug("assignment found successfully", slog.String("assignment_id", assignmentID))

	return assignment, nil
}

func (as *AssignmentService) AssignmentsByUser(ctx context.Context, requester *models.User) ([]*models.Assignment, error) {
	op := pkg + "AssignmentsByUser"

	log := as.log.With(slog.String("op", op))

	log.Debug("attempting to list assignments", slog.String("user_id", requester.ID))

	assignments, err := as.assignmentRepo.ListByUser(ctx, requester.ID)
	if err != nil {
		log.Error("failed to list assignments", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	for _, assignment := range assignments {
		if err := as.attachFields(ctx, assignment); err != nil {
			log.Error("failed to load fields", slog.String("error", err.Error()))
			return nil, models.ErrInternal
		}
	}

	log.Debug("assignments listed successfully", slog.Int("count", len(assignments)))

	return assignments, nil
}

func (as *AssignmentService) CompletedAssignments(ctx context.Context, requester *models.User, documentID string) ([]*models.Assignment, error) {
	op := pkg + "CompletedAssignments"

	log := as.log.With(slog.String("op", op))

	log.Debug("attempting to list completed assignments", slog.String("doc_id", documentID))

	if !requester.IsAdmin() {
		log.Warn("requester is not an admin", slog.String("user_id", requester.ID))
		return nil, models.ErrForbidden
	}

	assignments, err := as.assignmentRepo.ListCompleted(ctx, documentID)
	if err != nil {
		log.Error("failed to list completed assignments", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	for _, assignment := range assignments {
		if err := as.attachFields(ctx, assignment); err != nil {
			log.Error("failed to load fields", slog.String("error", err.Error()))
			return nil, models.ErrInternal
		}
	}

	log.Debug("completed assignments listed", slog.Int("count", len(assignments)))

	return assignments, nil
}

// SubmitValues upserts one batch of field values. Keys that do not resolve
// to a field of the assignment's document reject the whole batch. A pending
// assignment advances to in_progress.
func (as *AssignmentService) SubmitValues(ctx context.Context, requester *models.User, assignmentID string, values map[string]string) error {
	op := pkg + "SubmitValues"

	log := as.log.With(slog.String("op", op))

	log.Debug("attempting to submit values", slog.String("assignment_id", assignmentID), slog.Int("count", len(values)))

	assignment, err := as.assignmentRepo.AssignmentByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, models.ErrAssignmentNotFound) {
			log.Warn("assignment not found", slog.String("assignment_id", assignmentID))
			return models.ErrAssignmentNotFound
		}
		log.Error("failed to get assignment", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	if !requester.IsAdmin() && requester.ID != assignment.UserID {
		log.Warn("requester does not own assignment", slog.String("user_id", requester.ID))
		return models.ErrForbidden
	}

	if assignment.Status == models.AssignmentStatusCompleted {
		log.Warn("assignment already completed", slog.String("assignment_id", assignmentID))
		return models.ErrAssignmentCompleted
	}

	if len(values) == 0 {
		log.Warn("empty value batch")
		return models.ErrInvalidParams
	}

	fields, err := as.docProvider.FieldsByDocument(ctx, assignment.DocumentID)
	if err != nil {
		log.Error("failed to load fields", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	byKey := make(map[string]models.EditableField, len(fields))
	for _, field := range fields {
		byKey[field.FieldID] = field
	}

	now := time.Now()

	batch := make([]models.FieldValue, 0, len(values))

	for key, value := range values {
		field, ok := byKey[key]
		if !ok {
			log.Warn("unknown field key", slog.String("field_key", key))
			return fmt.Errorf("%q: %w", key, models.ErrUnknownFieldKey)
		}

		batch = append(batch, models.FieldValue{
			ID:        uuid.NewV4().String(),
			FieldID:   field.ID,
			FieldKey:  field.FieldID,
			Value:     value,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := as.assignmentRepo.UpsertValues(ctx, assignmentID, batch); err != nil {
		log.Error("failed to upsert values", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	if assignment.Status == models.AssignmentStatusPending {
		if err := as.assignmentRepo.Start(ctx, assignmentID, now); err != nil {
			log.Error("failed to start assignment", slog.String("error", err.Error()))
			return models.ErrInternal
		}
	}

	log.Debug("values submitted successfully", slog.Int("count", len(batch)))

	return nil
}

// CompleteAssignment finishes the fill-in. Every field of the document must
// hold a non-empty value. Under a concurrent retry exactly one caller wins;
// the other observes the completed state.
func (as *AssignmentService) CompleteAssignment(ctx context.Context, requester *models.User, assignmentID string) error {
	op := pkg + "CompleteAssignment"

	log := as.log.With(slog.String("op", op))

	log.Debug("attempting to complete assignment", slog.String("assignment_id", assignmentID))

	assignment, err := as.assignmentRepo.AssignmentByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, models.ErrAssignmentNotFound) {
			log.Warn("assignment not found", slog.String("assignment_id", assignmentID))
			return models.ErrAssignmentNotFound
		}
		log.Error("failed to get assignment", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	if !requester.IsAdmin() && requester.ID != assignment.UserID {
		log.Warn("requester does not own assignment", slog.String("user_id", requester.ID))
		return models.ErrForbidden
	}

	if assignment.Status == models.AssignmentStatusCompleted {
		log.Warn("assignment already completed", slog.String("assignment_id", assignmentID))
		return models.ErrAssignmentCompleted
	}

	fields, err := as.docProvider.FieldsByDocument(ctx, assignment.DocumentID)
	if err != nil {
		log.Error("failed to load fields", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	filled := make(map[string]string, len(assignment.Values))
	for _, value := range assignment.Values {
		filled[value.FieldID] = value.Value
	}

	for _, field := range fields {
		if filled[field.ID] == "" {
			log.Warn("field has no value", slog.String("field_key", field.FieldID))
			return models.ErrFieldsUnfilled
		}
	}

	ok, err := as.assignmentRepo.Complete(ctx, assignmentID, time.Now())
	if err != nil {
		log.Error("failed to complete assignment", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	if !ok {
		log.Warn("assignment completed concurrently", slog.String("assignment_id", assignmentID))
		return models.ErrAssignmentCompleted
	}

	log.Debug("assignment completed successfully", slog.String("assignment_id", assignmentID))

	return nil
}

// DeleteAssignment removes the assignment and its values. The document and
// sibling assignments are untouched.
func (as *AssignmentService) DeleteAssignment(ctx context.Context, requester *models.User, assignmentID string) error {
	op := pkg + "DeleteAssignment"

	log := as.log.With(slog.String("op", op))

	log.Debug("attempting to delete assignment", slog.String("assignment_id", assignmentID))

	if !requester.IsAdmin() {
		log.Warn("requester is not an admin", slog.String("user_id", requester.ID))
		return models.ErrForbidden
	}

	assignment, err := as.assignmentRepo.AssignmentByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, models.ErrAssignmentNotFound) {
			log.Warn("assignment not found", slog.String("assignment_id", assignmentID))
			return models.ErrAssignmentNotFound
		}
		log.Error("failed to get assignment", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	if err := as.assignmentRepo.Delete(ctx, assignmentID); err != nil {
		if errors.Is(err, models.ErrAssignmentNotFound) {
			log.Warn("assignment already deleted", slog.String("assignment_id", assignmentID))
			return models.ErrAssignmentNotFound
		}
		log.Error("failed to delete assignment", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	if doc, err := as.docProvider.DocumentByID(ctx, assignment.DocumentID); err == nil {
		as.invalidateDoc(ctx, log, doc)
	}

	log.Debug("assignment deleted successfully", slog.String("assignment_id", assignmentID))

	return nil
}

func (as *AssignmentService) attachFields(ctx context.Context, assignment *models.Assignment) error {
	fields, err := as.docProvider.FieldsByDocument(ctx, assignment.DocumentID)
	if err != nil {
		return err
	}

	assignment.Fields = fields

	return nil
}

func (as *AssignmentService) invalidateDoc(ctx context.Context, log *slog.Logger, doc *models.Document) {
	if err := as.cache.Del(ctx, doc.ID, fmt.Sprintf("docs:%s", doc.CreatedBy)); err != nil {
		log.Error("failed to invalidate doc cache", slog.String("error", err.Error()))
	}
}
