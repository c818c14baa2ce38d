package appointment_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/patient-portal/internal/config"
	"github.com/jwalitptl/patient-portal/internal/email"
	"github.com/jwalitptl/patient-portal/internal/model"
	"github.com/jwalitptl/patient-portal/internal/service/appointment"
	"github.com/jwalitptl/patient-portal/internal/service/doctor"
	"github.com/jwalitptl/patient-portal/internal/store"
	"github.com/jwalitptl/patient-portal/pkg/errors"
)

func newService(t *testing.T) *appointment.Service {
	t.Helper()
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return appointment.NewService(s, doctor.NewService(), email.NewService(config.SMTPConfig{}))
}

func bookRequest() *model.BookAppointmentRequest {
	return &model.BookAppointmentRequest{
		DoctorID: "1",
		Date:     "2025-02-01",
		Time:     "10:00 AM",
		Reason:   "checkup",
	}
}

func TestBookAppointment(t *testing.T) {
	svc := newService(t)
	userID := uuid.New()

	apt, err := svc.Book(context.Background(), userID, "a@b.com", bookRequest())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, apt.ID)
	assert.Equal(t, "1", apt.DoctorID)
	assert.Equal(t, "Dr. Sarah Johnson", apt.DoctorName)
	assert.Equal(t, "Cardiologist", apt.Specialty)
	assert.Equal(t, model.AppointmentStatusUpcoming, apt.Status)

	appointments, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, apt.ID, appointments[0].ID)
}

func TestBookUnknownDoctor(t *testing.T) {
	svc := newService(t)

	req := bookRequest()
	req.DoctorID = "99"

	_, err := svc.Book(context.Background(), uuid.New(), "a@b.com", req)
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestBookUnknownSlot(t *testing.T) {
	svc := newService(t)

	req := bookRequest()
	req.Time = "1:15 PM"

	_, err := svc.Book(context.Background(), uuid.New(), "a@b.com", req)
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrBadRequest, appErr.Code)
}

func TestGetAppointment(t *testing.T) {
	svc := newService(t)
	userID := uuid.New()

	booked, err := svc.Book(context.Background(), userID, "a@b.com", bookRequest())
	require.NoError(t, err)

	apt, err := svc.Get(context.Background(), userID, booked.ID)
	require.NoError(t, err)
	assert.Equal(t, booked.ID, apt.ID)

	_, err = svc.Get(context.Background(), userID, uuid.New())
	require.Error(t, err)
}

func TestDeleteAppointment(t *testing.T) {
	svc := newService(t)
	userID := uuid.New()

	booked, err := svc.Book(context.Background(), userID, "a@b.com", bookRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), userID, booked.ID))

	appointments, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, appointments)

	err = svc.Delete(context.Background(), userID, booked.ID)
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestAppointmentsIsolatedPerUser(t *testing.T) {
	svc := newService(t)
	userA := uuid.New()
	userB := uuid.New()

	_, err := svc.Book(context.Background(), userA, "a@b.com", bookRequest())
	require.NoError(t, err)

	appointments, err := svc.List(context.Background(), userB)
	require.NoError(t, err)
	assert.Empty(t, appointments)
}
