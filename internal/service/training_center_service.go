package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/traini8/traini8/internal/logger"
	"github.com/traini8/traini8/internal/model"
	"github.com/traini8/traini8/internal/repository"
)

// ErrDuplicateEntry is returned when a uniqueness conflict names none of the known columns
var ErrDuplicateEntry = errors.New("duplicate entry detected")

// DuplicateFieldError attributes a uniqueness conflict to a field label.
// Label is the column name up to its first underscore, so center_name and
// center_code share "center" and contact_email and contact_phone share "contact".
type DuplicateFieldError struct {
	Label   string
	Message string
	Cause   error
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("duplicate %s: %s", e.Label, e.Message)
}

func (e *DuplicateFieldError) Unwrap() error {
	return e.Cause
}

// TrainingCenterStore is the persistence gateway used by the service
type TrainingCenterStore interface {
	Save(ctx context.Context, tc *model.TrainingCenter) (*model.TrainingCenter, error)
	FindAll(ctx context.Context) ([]model.TrainingCenter, error)
}

// AuditStore records audit entries
type AuditStore interface {
	Create(ctx context.Context, log *model.AuditLog) error
}

// RequestMeta describes the caller of an operation, for auditing
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// TrainingCenterService handles training center business logic
type TrainingCenterService struct {
	store     TrainingCenterStore
	audit     AuditStore
	validator *Validator
	log       *logger.Logger

	// now is replaceable in tests
	now func() time.Time
}

// NewTrainingCenterService creates a new TrainingCenterService. audit may be nil.
func NewTrainingCenterService(store TrainingCenterStore, audit AuditStore, log *logger.Logger) *TrainingCenterService {
	return &TrainingCenterService{
		store:     store,
		audit:     audit,
		validator: NewValidator(),
		log:       log.WithComponent("training_center_service"),
		now:       time.Now,
	}
}

// Create validates and persists a new training center. The server owns ID
// and CreatedOn; whatever the client sent for them is overwritten.
func (s *TrainingCenterService) Create(ctx context.Context, tc *model.TrainingCenter, meta RequestMeta) (*model.TrainingCenter, error) {
	if err := s.validator.Struct(tc); err != nil {
		return nil, err
	}

	tc.ID = 0
	tc.CreatedOn = s.now().Unix()
	if tc.CoursesOffered == nil {
		tc.CoursesOffered = []string{}
	}

	saved, err := s.store.Save(ctx, tc)
	if err != nil {
		var conflict *repository.ConflictError
		if errors.As(err, &conflict) {
			label, msg, ok := AttributeConflict(conflict.Error())
			if !ok {
				return nil, fmt.Errorf("%w: %v", ErrDuplicateEntry, err)
			}
			return nil, &DuplicateFieldError{Label: label, Message: msg, Cause: err}
		}
		return nil, err
	}

	s.logAudit(ctx, saved, meta)
	return saved, nil
}

// List returns every training center; an empty store yields an empty, non-nil slice
func (s *TrainingCenterService) List(ctx context.Context) ([]model.TrainingCenter, error) {
	centers, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if centers == nil {
		centers = []model.TrainingCenter{}
	}
	return centers, nil
}

// AttributeConflict finds the first unique column named in msg, in
// model.TrainingCenterUniqueFields order, and returns its short label and
// user-facing message.
func AttributeConflict(msg string) (label, message string, ok bool) {
	for _, f := range model.TrainingCenterUniqueFields {
		if strings.Contains(msg, f.ColumnName) {
			return strings.SplitN(f.ColumnName, "_", 2)[0], f.Message, true
		}
	}
	return "", "", false
}

// logAudit records a creation entry; failures are logged and swallowed
func (s *TrainingCenterService) logAudit(ctx context.Context, tc *model.TrainingCenter, meta RequestMeta) {
	resourceType := model.AuditResourceTrainingCenter
	resourceID := strconv.FormatInt(tc.ID, 10)
	metadata := map[string]interface{}{
		"centerName": tc.CenterName,
		"centerCode": tc.CenterCode,
	}

	s.log.AuditLog(model.AuditActionTrainingCenterCreated, resourceType, resourceID, metadata)

	if s.audit == nil {
		return
	}

	auditLog := &model.AuditLog{
		ID:           uuid.New().String(),
		Action:       model.AuditActionTrainingCenterCreated,
		ResourceType: &resourceType,
		ResourceID:   &resourceID,
		IPAddress:    nullIfEmpty(meta.IPAddress),
		UserAgent:    nullIfEmpty(meta.UserAgent),
		Metadata:     metadata,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.audit.Create(ctx, auditLog); err != nil {
		s.log.Error().Err(err).Str("action", auditLog.Action).Msg("failed to create audit log")
	}
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
