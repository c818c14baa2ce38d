package prescription

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jwalitptl/patient-portal/internal/model"
	"github.com/jwalitptl/patient-portal/internal/store"
	"github.com/jwalitptl/patient-portal/pkg/errors"
)

// Service owns the per-user prescription collections. Drafts are validated
// here, at submit time, and only then converted to persisted records.
type Service struct {
	prescriptions *store.Collection[model.Prescription]
	validate      *validator.Validate
}

func NewService(st *store.Store) *Service {
	return &Service{
		prescriptions: store.NewCollection[model.Prescription](st, store.KindPrescriptions),
		validate:      validator.New(),
	}
}

func (s *Service) validateDraft(draft *model.PrescriptionDraft) error {
	if err := s.validate.Struct(draft); err != nil {
		return errors.BadRequest(fmt.Sprintf("invalid prescription: %v", err), err)
	}
	return nil
}

// Create validates the draft and appends the resulting prescription.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, draft *model.PrescriptionDraft) (*model.Prescription, error) {
	if err := s.validateDraft(draft); err != nil {
		return nil, err
	}

	p := draft.ToPrescription()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	stored, err := s.prescriptions.Append(userID, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create prescription: %w", err)
	}
	return &stored, nil
}

// List returns the user's prescriptions in insertion order.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]model.Prescription, error) {
	return s.prescriptions.Load(userID)
}

// Get returns one prescription by id.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*model.Prescription, error) {
	prescriptions, err := s.prescriptions.Load(userID)
	if err != nil {
		return nil, err
	}
	for i := range prescriptions {
		if prescriptions[i].ID == id {
			return &prescriptions[i], nil
		}
	}
	return nil, errors.NotFound("prescription", nil)
}

// Update validates the draft and replaces the stored record, preserving its
// id and creation time.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, draft *model.PrescriptionDraft) (*model.Prescription, error) {
	if err := s.validateDraft(draft); err != nil {
		return nil, err
	}

	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	p := draft.ToPrescription()
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()

	found, err := s.prescriptions.Replace(userID, id, p)
	if err != nil {
		return nil, fmt.Errorf("failed to update prescription: %w", err)
	}
	if !found {
		return nil, errors.NotFound("prescription", nil)
	}

	p.ID = id
	return &p, nil
}

// Delete removes a prescription. Deletion is immediate and irreversible.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	found, err := s.prescriptions.Remove(userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete prescription: %w", err)
	}
	if !found {
		return errors.NotFound("prescription", nil)
	}
	return nil
}

// Subscribe fires fn whenever the user's prescription collection changes.
func (s *Service) Subscribe(userID uuid.UUID, fn func()) func() {
	return s.prescriptions.Subscribe(userID, fn)
}
