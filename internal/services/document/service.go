package documentservice

import (
	"bytes"
	"context"
	"docflow/internal/content/docx"
	"docflow/internal/dto"
	"docflow/internal/models"
	"docflow/internal/validator"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	uuid "github.com/satori/go.uuid"
)

const pkg = "documentService/"

type DocumentService struct {
	log         *slog.Logger
	docRepo     DocumentRepository
	cache       Cache
	fileStorage FileStorage
}

func New(
	log *slog.Logger,
	docRepo DocumentRepository,
	cache Cache,
	fileStorage FileStorage,
) *DocumentService {
	return &DocumentService{
		log:         log,
		docRepo:     docRepo,
		cache:       cache,
		fileStorage: fileStorage,
	}
}

// UploadDocument stores the source file, extracts its text once and creates
// the template in draft status with no fields.
func (ds *DocumentService) UploadDocument(ctx context.Context, requester *models.User, name string, fileName string, content io.Reader) (*models.Document, error) {
	op := pkg + "UploadDocument"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to upload document", slog.String("name", name), slog.String("file_name", fileName))

	if !requester.IsAdmin() {
		log.Warn("requester is not an admin", slog.String("user_id", requester.ID))
		return nil, models.ErrForbidden
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != ".docx" && ext != ".doc" {
		log.Warn("unsupported file extension", slog.String("ext", ext))
		return nil, models.ErrInvalidParams
	}

	data, err := io.ReadAll(content)
	if err != nil {
		log.Error("failed to read uploaded file", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	rendered, err := docx.Extract(data)
	if err != nil {
		log.Warn("failed to extract document content", slog.String("error", err.Error()))
		return nil, models.ErrInvalidParams
	}

	if name == "" {
		name = fileName
	}

	now := time.Now()

	doc := &models.Document{
		ID:        uuid.NewV4().String(),
		Name:      name,
		FileName:  fileName,
		Content:   rendered,
		CreatedBy: requester.ID,
		Status:    models.DocumentStatusDraft,
		Fields:    make([]models.EditableField, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := ds.fileStorage.SaveFile(doc, bytes.NewReader(data)); err != nil {
		log.Error("failed to save file", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if err := ds.docRepo.CreateDocument(ctx, doc); err != nil {
		log.Error("failed to save document metadata", slog.String("error", err.Error()))
		_ = ds.fileStorage.DeleteFile(doc)

		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	ds.invalidate(ctx, log, doc)

	log.Debug("document uploaded successfully", slog.String("doc_id", doc.ID))

	return doc, nil
}

func (ds *DocumentService) DocumentByID(ctx context.Context, docID string, requester *models.User) (*models.Document, error) {
	op := pkg + "DocumentByID"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to get document by id", slog.String("doc_id", docID), slog.String("user_id", requester.ID))

	if !requester.IsAdmin() {
		log.Warn("requester is not an admin", slog.String("user_id", requester.ID))
		return nil, models.ErrForbidden
	}

	doc, err := ds.documentMetaByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	log.Debug("document found successfully", slog.String("doc_id", docID))

	return doc, nil
}

func (ds *DocumentService) ListDocuments(ctx context.Context, requester *models.User, filter models.DocumentFilter) ([]*models.Document, error) {
	op := pkg + "ListDocuments"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to list documents",
		slog.String("requester_id", requester.ID),
		slog.String("filter_key", filter.Key),
		slog.String("filter_value", filter.Value),
		slog.Int("limit", filter.Limit))

	if !requester.IsAdmin() {
		log.Warn("requester is not an admin", slog.String("user_id", requester.ID))
		return nil, models.ErrForbidden
	}

	if !filter.IsValid() {
		log.Warn("invalid filter format")
		return nil, models.ErrInvalidParams
	}

	unfiltered := filter.Key == "" && filter.Value == "" && filter.Limit == 0

	cacheKey := fmt.Sprintf("docs:%s", requester.ID)

	if unfiltered {
		docsJSON, err := ds.cache.Get(ctx, cacheKey)
		if err == nil && docsJSON != "" {
			docs, err := jsonToDocs(docsJSON)
			if err == nil {
				log.Debug("documents served from cache", slog.Int("count", len(docs)))
				return docs, nil
			}
			log.Error("failed to parse cached docs", slog.String("error", err.Error()))
		}
	}

	docs, err := ds.docRepo.ListByCreator(ctx, requester.ID, filter)
	if err != nil {
		log.Error("failed to list documents", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if unfiltered {
		docsJSON, err := docsToJSON(docs)
		if err != nil {
			log.Error("failed to convert docs to json", slog.String("error", err.Error()))
		} else if err := ds.cache.Set(ctx, cacheKey, docsJSON); err != nil {
			log.Error("failed to set docs in cache", slog.String("error", err.Error()))
		}
	}

	log.Debug("documents listed successfully", slog.Int("count", len(docs)))

	return docs, nil
}

// Reprocess re-extracts the rendered content from the stored source file.
// Field offsets are not recomputed, so spans defined before a reprocess may
// no longer line up with the new content.
func (ds *DocumentService) Reprocess(ctx context.Context, docID string, requester *models.User) (*models.Document, error) {
	op := pkg + "Reprocess"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to reprocess document", slog.String("doc_id", docID))

	if !requester.IsAdmin() {
		log.Warn("requester is not an admin", slog.String("user_id", requester.ID))
		return nil, models.ErrForbidden
	}

	doc, err := ds.docRepo.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", docID))
			return nil, models.ErrDocumentNotFound
		}
		log.Error("failed to get document", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	file, err := ds.fileStorage.LoadFile(doc)
	if err != nil {
		if errors.Is(err, models.ErrSourceFileNotFound) {
			log.Warn("source file missing", slog.String("doc_id", docID))
			return nil, models.ErrSourceFileNotFound
		}
		log.Error("failed to load source file", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error("failed to read source file", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	rendered, err := docx.Extract(data)
	if err != nil {
		log.Error("failed to extract content", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	now := time.Now()

	if err := ds.docRepo.UpdateContent(ctx, docID, rendered, now); err != nil {
		log.Error("failed to update content", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	doc.Content = rendered
	doc.UpdatedAt = now

	ds.invalidate(ctx, log, doc)

	log.Debug("document reprocessed successfully", slog.String("doc_id", docID))

	return doc, nil
}

// DeleteDocument removes the template and everything hanging off it: fields,
// assignments with their values, and the stored source file.
func (ds *DocumentService) DeleteDocument(ctx context.Context, docID string, requester *models.User) error {
	op := pkg + "DeleteDocument"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to delete document", slog.String("doc_id", docID), slog.String("user_id", requester.ID))

	if !requester.IsAdmin() {
		log.Warn("requester is not an admin", slog.String("user_id", requester.ID))
		return models.ErrForbidden
	}

	doc, err := ds.documentMetaByID(ctx, docID)
	if err != nil {
		log.Warn("failed to get document by id", slog.String("error", err.Error()))
		return err
	}

	if err := ds.docRepo.Delete(ctx, docID); err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document already deleted", slog.String("doc_id", docID))
			return models.ErrDocumentNotFound
		}
		log.Error("failed to delete document meta", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	ds.invalidate(ctx, log, doc)

	if err := ds.fileStorage.DeleteFile(doc); err != nil {
		if errors.Is(err, models.ErrSourceFileNotFound) {
			log.Warn("source file already gone", slog.String("doc_id", docID))
		} else {
			log.Error("failed to delete source file", slog.String("error", err.Error()))
			return models.ErrInternal
		}
	}

	log.Debug("document deleted successfully", slog.String("doc_id", docID))

	return nil
}

// CreateField anchors a new editable field to a span of the document
// content. Existing assignments keep their values; the new field simply
// shows up unfilled.
func (ds *DocumentService) CreateField(ctx context.Context, requester *models.User, docID string, req *dto.CreateFieldRequest) (*models.EditableField, error) {
	op := pkg + "CreateField"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to create field", slog.String("doc_id", docID), slog.String("label", req.Label))

	if !requester.IsAdmin() {
		log.Warn("requester is not an admin", slog.String("user_id", requester.ID))
		return nil, models.ErrForbidden
	}

	if err := validator.ValidateCreateField(req); err != nil {
		log.Warn("invalid field request", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidParams, err.Error())
	}

	if req.PositionStart > req.PositionEnd {
		log.Warn("invalid span",
			slog.Int("start", req.PositionStart),
			slog.Int("end", req.PositionEnd))
		return nil, models.ErrInvalidSpan
	}

	doc, err := ds.docRepo.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", docID))
			return nil, models.ErrDocumentNotFound
		}
		log.Error("failed to get document", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	fieldKey := req.FieldID
	if fieldKey == "" {
		fieldKey = generateFieldKey()
	}

	original := req.OriginalValue
	if original == "" {
		original = spanText(doc.Content, req.PositionStart, req.PositionEnd)
	}

	field := &models.EditableField{
		ID:            uuid.NewV4().String(),
		DocumentID:    doc.ID,
		FieldID:       fieldKey,
		Label:         req.Label,
		Placeholder:   req.Placeholder,
		FieldType:     req.FieldType,
		PositionStart: req.PositionStart,
		PositionEnd:   req.PositionEnd,
		OriginalValue: original,
		CreatedAt:     time.Now(),
	}

	if err := ds.docRepo.CreateField(ctx, field); err != nil {
		var uce *models.UniqueConstraintError
		if errors.As(err, &uce) {
			log.Warn("field id already used", slog.String("field_id", fieldKey))
			return nil, models.ErrFieldIDTaken
		}
		log.Error("failed to create field", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	ds.invalidate(ctx, log, doc)

	log.Debug("field created successfully", slog.String("field_id", fieldKey))

	return field, nil
}

// RemoveField deletes the field definition. Submitted values referencing it
// are dropped by the database cascade.
func (ds *DocumentService) RemoveField(ctx context.Context, requester *models.User, fieldID string) error {
	op := pkg + "RemoveField"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to remove field", slog.String("field_id", fieldID))

	if !requester.IsAdmin() {
		log.Warn("requester is not an admin", slog.String("user_id", requester.ID))
		return models.ErrForbidden
	}

	field, err := ds.docRepo.FieldByID(ctx, fieldID)
	if err != nil {
		if errors.Is(err, models.ErrFieldNotFound) {
			log.Warn("field not found", slog.String("field_id", fieldID))
			return models.ErrFieldNotFound
		}
		log.Error("failed to get field", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	if err := ds.docRepo.DeleteField(ctx, fieldID); err != nil {
		if errors.Is(err, models.ErrFieldNotFound) {
			log.Warn("field already deleted", slog.String("field_id", fieldID))
			return models.ErrFieldNotFound
		}
		log.Error("failed to delete field", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	if err := ds.cache.Del(ctx, field.DocumentID); err != nil {
		log.Error("failed to invalidate doc cache", slog.String("error", err.Error()))
	}

	log.Debug("field removed successfully", slog.String("field_id", fieldID))

	return nil
}

func (ds *DocumentService) documentMetaByID(ctx context.Context, docID string) (*models.Document, error) {
	op := pkg + "documentMetaByID"

	log := ds.log.With(slog.String("op", op))

	docJSON, err := ds.cache.Get(ctx, docID)
	if err == nil && docJSON != "" {
		doc, err := jsonToDoc(docJSON)
		if err == nil {
			return doc, nil
		}
		log.Error("failed to parse cached doc", slog.String("error", err.Error()))
	}

	doc, err := ds.docRepo.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", docID))
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		log.Error("failed to get document by id", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	docJSON, err = docToJSON(doc)
	if err != nil {
		log.Error("failed to parse doc to json", slog.String("error", err.Error()))
	} else if err := ds.cache.Set(ctx, docID, docJSON); err != nil {
		log.Warn("failed to set doc to cache", slog.String("error", err.Error()))
	}

	return doc, nil
}

func (ds *DocumentService) invalidate(ctx context.Context, log *slog.Logger, doc *models.Document) {
	if err := ds.cache.Del(ctx, doc.ID, fmt.Sprintf("docs:%s", doc.CreatedBy)); err != nil {
		log.Error("failed to invalidate doc cache", slog.String("error", err.Error()))
	}
}

func generateFieldKey() string {
	return "field_" + strings.Split(uuid.NewV4().String(), "-")[0]
}

// spanText captures the original characters at a span. Offsets count
// characters, matching the offsets the render path splices against.
func spanText(content string, start, end int) string {
	runes := []rune(content)
	if start < 0 || start >= len(runes) {
		return ""
	}
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[start:end])
}

func jsonToDocs(s string) ([]*models.Document, error) {
	if len(s) == 0 {
		return nil, errors.New("empty json string")
	}
	var docs []*models.Document

	if err := json.Unmarshal([]byte(s), &docs); err != nil {
		return nil, err
	}

	return docs, nil
}

func docsToJSON(docs []*models.Document) (string, error) {
	res, err := json.Marshal(docs)
	if err != nil {
		return "", err
	}

	return string(res), nil
}

func docToJSON(doc *models.Document) (string, error) {
	jsonSlice, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}

	return string(jsonSlice), nil
}

func jsonToDoc(s string) (*models.Document, error) {
	if len(s) == 0 {
		return nil, errors.New("empty json string")
	}

	var doc models.Document
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return nil, err
	}

	return &doc, nil
}
