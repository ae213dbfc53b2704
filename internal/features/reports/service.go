package reports

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/skycast/internal/pkg/metrics"
	"github.com/xyz-asif/skycast/internal/pkg/validator"
	apperrors "github.com/xyz-asif/skycast/pkg/errors"
)

// Store is the persistence the service needs. *Repository implements it.
type Store interface {
	Insert(ctx context.Context, report *Report) error
	FindByOwner(ctx context.Context, ownerID, location string) ([]Report, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Report, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Report, error)
	DeleteByIDAndOwner(ctx context.Context, id primitive.ObjectID, ownerID string) (*Report, error)
}

const notFoundMessage = "Report not found"

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create validates req and stores it as a report owned by ownerID.
func (s *Service) Create(ctx context.Context, req *CreateReportRequest, ownerID string) (report *Report, err error) {
	defer func() { record("create", err) }()

	if msg := validator.Struct(req); msg != "" {
		return nil, apperrors.Validation(msg)
	}

	report = req.toReport(ownerID)
	if err := s.store.Insert(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// ListForOwner returns only reports owned by ownerID, newest first.
func (s *Service) ListForOwner(ctx context.Context, ownerID string, filter Filter) (reports []Report, err error) {
	defer func() { record("list", err) }()

	if ownerID == "" {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	return s.store.FindByOwner(ctx, ownerID, strings.TrimSpace(filter.Location))
}

// GetByID treats malformed ids like unknown ones.
func (s *Service) GetByID(ctx context.Context, id string) (report *Report, err error) {
	defer func() { record("get", err) }()
	return s.getByID(ctx, id)
}

// GetOwned is GetByID restricted to the caller's own reports.
func (s *Service) GetOwned(ctx context.Context, id, callerID string) (report *Report, err error) {
	defer func() { record("get", err) }()

	report, err = s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.OwnerID != callerID {
		return nil, apperrors.Forbidden("You do not have access to this report")
	}
	return report, nil
}

// GetByIDs returns the subset of ids that exist, in store order. Blank and
// malformed ids are skipped.
func (s *Service) GetByIDs(ctx context.Context, ids []string) (reports []Report, err error) {
	defer func() { record("compare", err) }()
	return s.getByIDs(ctx, ids)
}

// GetByIDsForOwner is GetByIDs with foreign reports filtered out.
func (s *Service) GetByIDsForOwner(ctx context.Context, ids []string, callerID string) (reports []Report, err error) {
	defer func() { record("compare", err) }()

	all, err := s.getByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	owned := make([]Report, 0, len(all))
	for _, r := range all {
		if r.OwnerID == callerID {
			owned = append(owned, r)
		}
	}
	return owned, nil
}

// DeleteOwned removes the report if callerID owns it and returns what was
// deleted. Foreign reports are left untouched.
func (s *Service) DeleteOwned(ctx context.Context, id, callerID string) (report *Report, err error) {
	defer func() { record("delete", err) }()

	existing, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if callerID == "" || existing.OwnerID != callerID {
		return nil, apperrors.Forbidden("You can only delete your own reports")
	}

	deleted, err := s.store.DeleteByIDAndOwner(ctx, existing.ID, callerID)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		// removed or reassigned between the read and the delete
		return nil, apperrors.NotFound(notFoundMessage)
	}
	return deleted, nil
}

func (s *Service) getByID(ctx context.Context, id string) (*Report, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, apperrors.NotFound(notFoundMessage)
	}

	report, err := s.store.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, apperrors.NotFound(notFoundMessage)
	}
	return report, nil
}

func (s *Service) getByIDs(ctx context.Context, ids []string) ([]Report, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
		if err != nil {
			continue
		}
		if _, dup := seen[oid]; dup {
			continue
		}
		seen[oid] = struct{}{}
		oids = append(oids, oid)
	}

	if len(oids) == 0 {
		return []Report{}, nil
	}
	return s.store.FindByIDs(ctx, oids)
}

func record(operation string, err error) {
	metrics.ReportOperations.WithLabelValues(operation, metrics.Outcome(err)).Inc()
}
