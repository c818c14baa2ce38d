package store_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/patient-portal/internal/model"
	"github.com/jwalitptl/patient-portal/internal/store"
)

func newStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func newAppointments(t *testing.T) (*store.Collection[model.Appointment], string) {
	t.Helper()
	s, dir := newStore(t)
	return store.NewCollection[model.Appointment](s, store.KindAppointments), dir
}

func TestAppendAssignsUniqueID(t *testing.T) {
	appointments, _ := newAppointments(t)
	userID := uuid.New()

	first, err := appointments.Append(userID, model.Appointment{DoctorName: "Dr. Sarah Johnson", Reason: "checkup"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.Equal(t, "checkup", first.Reason)

	second, err := appointments.Append(userID, model.Appointment{DoctorName: "Dr. Michael Chen"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	records, err := appointments.Load(userID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first, records[0])
	assert.Equal(t, second, records[1])
}

func TestAppendKeepsExplicitID(t *testing.T) {
	appointments, _ := newAppointments(t)
	userID := uuid.New()
	id := uuid.New()

	stored, err := appointments.Append(userID, model.Appointment{ID: id})
	require.NoError(t, err)
	assert.Equal(t, id, stored.ID)
}

func TestLoadMissingKeyReturnsEmpty(t *testing.T) {
	appointments, _ := newAppointments(t)

	records, err := appointments.Load(uuid.New())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoadCorruptValueReturnsEmpty(t *testing.T) {
	appointments, dir := newAppointments(t)
	userID := uuid.New()

	path := filepath.Join(dir, store.Key(store.KindAppointments, userID)+".json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	records, err := appointments.Load(userID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRemove(t *testing.T) {
	appointments, _ := newAppointments(t)
	userID := uuid.New()

	first, err := appointments.Append(userID, model.Appointment{Reason: "first"})
	require.NoError(t, err)
	second, err := appointments.Append(userID, model.Appointment{Reason: "second"})
	require.NoError(t, err)

	found, err := appointments.Remove(userID, first.ID)
	require.NoError(t, err)
	assert.True(t, found)

	records, err := appointments.Load(userID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, second.ID, records[0].ID)
}

func TestRemoveMissingIDIsNoOp(t *testing.T) {
	appointments, _ := newAppointments(t)
	userID := uuid.New()

	stored, err := appointments.Append(userID, model.Appointment{Reason: "kept"})
	require.NoError(t, err)

	found, err := appointments.Remove(userID, uuid.New())
	require.NoError(t, err)
	assert.False(t, found)

	records, err := appointments.Load(userID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, stored.ID, records[0].ID)
}

func TestReplacePreservesIDAndPosition(t *testing.T) {
	appointments, _ := newAppointments(t)
	userID := uuid.New()

	first, err := appointments.Append(userID, model.Appointment{Reason: "first"})
	require.NoError(t, err)
	_, err = appointments.Append(userID, model.Appointment{Reason: "second"})
	require.NoError(t, err)

	found, err := appointments.Replace(userID, first.ID, model.Appointment{Reason: "updated"})
	require.NoError(t, err)
	assert.True(t, found)

	records, err := appointments.Load(userID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first.ID, records[0].ID)
	assert.Equal(t, "updated", records[0].Reason)
}

func TestReplaceMissingIDLeavesCollectionUnchanged(t *testing.T) {
	appointments, _ := newAppointments(t)
	userID := uuid.New()

	stored, err := appointments.Append(userID, model.Appointment{Reason: "original"})
	require.NoError(t, err)

	found, err := appointments.Replace(userID, uuid.New(), model.Appointment{Reason: "updated"})
	require.NoError(t, err)
	assert.False(t, found)

	records, err := appointments.Load(userID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, stored, records[0])
}

func TestSaveIsIdempotent(t *testing.T) {
	appointments, dir := newAppointments(t)
	userID := uuid.New()

	records := []model.Appointment{{ID: uuid.New(), Reason: "checkup"}}
	require.NoError(t, appointments.Save(userID, records))

	path := filepath.Join(dir, store.Key(store.KindAppointments, userID)+".json")
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, appointments.Save(userID, records))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	loaded, err := appointments.Load(userID)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestUserIsolation(t *testing.T) {
	appointments, _ := newAppointments(t)
	userA := uuid.New()
	userB := uuid.New()

	stored, err := appointments.Append(userA, model.Appointment{Reason: "only for A"})
	require.NoError(t, err)

	recordsB, err := appointments.Load(userB)
	require.NoError(t, err)
	assert.Empty(t, recordsB)

	found, err := appointments.Remove(userB, stored.ID)
	require.NoError(t, err)
	assert.False(t, found)

	recordsA, err := appointments.Load(userA)
	require.NoError(t, err)
	assert.Len(t, recordsA, 1)
}

func TestSubscribeFiresOnLocalWrite(t *testing.T) {
	appointments, _ := newAppointments(t)
	userID := uuid.New()

	changed := make(chan struct{}, 4)
	unsubscribe := appointments.Subscribe(userID, func() {
		changed <- struct{}{}
	})
	defer unsubscribe()

	_, err := appointments.Append(userID, model.Appointment{Reason: "checkup"})
	require.NoError(t, err)

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not fire on local write")
	}
}

func TestSubscribeAcrossContexts(t *testing.T) {
	dir := t.TempDir()

	ctxA, err := store.Open(dir)
	require.NoError(t, err)
	defer ctxA.Close()

	ctxB, err := store.Open(dir)
	require.NoError(t, err)
	defer ctxB.Close()

	userID := uuid.New()
	prescriptionsA := store.NewCollection[model.Prescription](ctxA, store.KindPrescriptions)
	prescriptionsB := store.NewCollection[model.Prescription](ctxB, store.KindPrescriptions)

	changed := make(chan struct{}, 4)
	unsubscribe := prescriptionsB.Subscribe(userID, func() {
		changed <- struct{}{}
	})
	defer unsubscribe()

	stored, err := prescriptionsA.Append(userID, model.Prescription{DoctorName: "Dr. Sarah Johnson"})
	require.NoError(t, err)

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not fire for external write")
	}

	records, err := prescriptionsB.Load(userID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, stored.ID, records[0].ID)
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	appointments, _ := newAppointments(t)
	userID := uuid.New()

	changed := make(chan struct{}, 4)
	unsubscribe := appointments.Subscribe(userID, func() {
		changed <- struct{}{}
	})
	unsubscribe()

	_, err := appointments.Append(userID, model.Appointment{Reason: "checkup"})
	require.NoError(t, err)

	select {
	case <-changed:
		t.Fatal("unsubscribed callback fired")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestKeyDerivation(t *testing.T) {
	userID := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	assert.Equal(t, "appointments_11111111-2222-3333-4444-555555555555", store.Key(store.KindAppointments, userID))
	assert.Equal(t, "prescriptions_11111111-2222-3333-4444-555555555555", store.Key(store.KindPrescriptions, userID))
}
