package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/patient-portal/internal/email"
	"github.com/jwalitptl/patient-portal/internal/model"
	"github.com/jwalitptl/patient-portal/internal/service/doctor"
	"github.com/jwalitptl/patient-portal/internal/store"
	"github.com/jwalitptl/patient-portal/pkg/errors"
)

// Service owns the per-user appointment collections. Appointments are
// create/list/delete only; there is no status-transition or edit operation.
type Service struct {
	appointments *store.Collection[model.Appointment]
	doctors      *doctor.Service
	notifier     email.Service
}

func NewService(st *store.Store, doctors *doctor.Service, notifier email.Service) *Service {
	return &Service{
		appointments: store.NewCollection[model.Appointment](st, store.KindAppointments),
		doctors:      doctors,
		notifier:     notifier,
	}
}

// Book validates the request against the roster and slot labels, persists
// the appointment and sends a confirmation. The confirmation is best-effort;
// a mail failure never fails the booking.
func (s *Service) Book(ctx context.Context, userID uuid.UUID, userEmail string, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	doc, err := s.doctors.Get(req.DoctorID)
	if err != nil {
		return nil, err
	}
	if !s.doctors.HasSlot(req.Time) {
		return nil, errors.BadRequest("unknown time slot", nil)
	}

	apt := model.Appointment{
		DoctorID:   doc.ID,
		DoctorName: doc.Name,
		Specialty:  doc.Specialty,
		Date:       req.Date,
		Time:       req.Time,
		Status:     model.AppointmentStatusUpcoming,
		Reason:     req.Reason,
		CreatedAt:  time.Now(),
	}

	stored, err := s.appointments.Append(userID, apt)
	if err != nil {
		return nil, fmt.Errorf("failed to book appointment: %w", err)
	}

	if err := s.notifier.SendAppointmentConfirmation(ctx, userEmail, &stored); err != nil {
		log.Warn().
			Err(err).
			Str("appointment_id", stored.ID.String()).
			Msg("failed to send appointment confirmation")
	}

	return &stored, nil
}

// List returns the user's appointments in insertion order.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]model.Appointment, error) {
	return s.appointments.Load(userID)
}

// Get returns one appointment by id.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*model.Appointment, error) {
	appointments, err := s.appointments.Load(userID)
	if err != nil {
		return nil, err
	}
	for i := range appointments {
		if appointments[i].ID == id {
			return &appointments[i], nil
		}
	}
	return nil, errors.NotFound("appointment", nil)
}

// Delete removes an appointment. Deletion is immediate and irreversible.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	found, err := s.appointments.Remove(userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	if !found {
		return errors.NotFound("appointment", nil)
	}
	return nil
}

// Subscribe fires fn whenever the user's appointment collection changes.
func (s *Service) Subscribe(userID uuid.UUID, fn func()) func() {
	return s.appointments.Subscribe(userID, fn)
}
