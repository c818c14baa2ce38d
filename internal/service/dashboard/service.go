package dashboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/patient-portal/internal/model"
	"github.com/jwalitptl/patient-portal/internal/service/appointment"
	"github.com/jwalitptl/patient-portal/internal/service/auth"
	"github.com/jwalitptl/patient-portal/internal/service/prescription"
)

// Service aggregates the landing-page summary from the other services.
type Service struct {
	authSvc         *auth.Service
	appointmentSvc  *appointment.Service
	prescriptionSvc *prescription.Service
}

func NewService(authSvc *auth.Service, appointmentSvc *appointment.Service, prescriptionSvc *prescription.Service) *Service {
	return &Service{
		authSvc:         authSvc,
		appointmentSvc:  appointmentSvc,
		prescriptionSvc: prescriptionSvc,
	}
}

// Summary returns the profile, upcoming-appointment count, next appointment
// and prescription count for the user. The next appointment is the first
// upcoming one in stored order.
func (s *Service) Summary(ctx context.Context, userID uuid.UUID) (*model.DashboardSummary, error) {
	user, err := s.authSvc.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	appointments, err := s.appointmentSvc.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}

	prescriptions, err := s.prescriptionSvc.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load prescriptions: %w", err)
	}

	summary := &model.DashboardSummary{
		User:              user,
		PrescriptionCount: len(prescriptions),
	}
	for i := range appointments {
		if appointments[i].Status != model.AppointmentStatusUpcoming {
			continue
		}
		summary.UpcomingCount++
		if summary.NextAppointment == nil {
			summary.NextAppointment = &appointments[i]
		}
	}

	return summary, nil
}
