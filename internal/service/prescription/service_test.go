package prescription_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/patient-portal/internal/model"
	"github.com/jwalitptl/patient-portal/internal/service/prescription"
	"github.com/jwalitptl/patient-portal/internal/store"
	"github.com/jwalitptl/patient-portal/pkg/errors"
)

func newService(t *testing.T) *prescription.Service {
	t.Helper()
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return prescription.NewService(s)
}

func aspirinDraft() *model.PrescriptionDraft {
	return &model.PrescriptionDraft{
		DoctorName:   "Dr. Sarah Johnson",
		Date:         "2025-01-15",
		Instructions: "Take with food",
		Medications: []model.MedicationDraft{
			{Name: "Aspirin", Dosage: "100mg", Frequency: "daily", Duration: "7 days"},
		},
	}
}

func TestCreatePrescription(t *testing.T) {
	svc := newService(t)
	userID := uuid.New()

	p, err := svc.Create(context.Background(), userID, aspirinDraft())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, p.ID)
	require.Len(t, p.Medications, 1)
	assert.Equal(t, model.Medication{Name: "Aspirin", Dosage: "100mg", Frequency: "daily", Duration: "7 days"}, p.Medications[0])
	assert.False(t, p.CreatedAt.IsZero())
}

func TestCreateRejectsInvalidDraft(t *testing.T) {
	svc := newService(t)

	draft := aspirinDraft()
	draft.Medications = nil

	_, err := svc.Create(context.Background(), uuid.New(), draft)
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrBadRequest, appErr.Code)

	draft = aspirinDraft()
	draft.Medications[0].Dosage = ""
	_, err = svc.Create(context.Background(), uuid.New(), draft)
	require.Error(t, err)
}

func TestUpdatePrescription(t *testing.T) {
	svc := newService(t)
	userID := uuid.New()

	created, err := svc.Create(context.Background(), userID, aspirinDraft())
	require.NoError(t, err)

	draft := aspirinDraft()
	draft.Instructions = "Take on an empty stomach"
	updated, err := svc.Update(context.Background(), userID, created.ID, draft)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Take on an empty stomach", updated.Instructions)

	stored, err := svc.Get(context.Background(), userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Take on an empty stomach", stored.Instructions)
}

func TestUpdateMissingPrescription(t *testing.T) {
	svc := newService(t)

	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), aspirinDraft())
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestDeletePrescription(t *testing.T) {
	svc := newService(t)
	userID := uuid.New()

	created, err := svc.Create(context.Background(), userID, aspirinDraft())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), userID, created.ID))

	prescriptions, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, prescriptions)

	err = svc.Delete(context.Background(), userID, created.ID)
	require.Error(t, err)
}
