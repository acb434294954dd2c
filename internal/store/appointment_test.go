//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AppointmentUpsertAndFlags(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Close()
	testDB.Truncate(t)

	ctx := context.Background()
	f := NewFixtures(t, testDB)
	tenant := f.CreateTenant(nil)
	contact := f.CreateContact(tenant.ID, "lead@x.com")
	at := time.Date(2026, 4, 6, 14, 0, 0, 0, time.UTC)

	externalID := "apt_1"
	params := CreateAppointmentParams{
		TenantID:    tenant.ID,
		ContactID:   contact.ID,
		ScheduledAt: at,
		Status:      AppointmentStatusScheduled,
		ExternalID:  &externalID,
	}
	created, err := testDB.Store.CreateAppointment(ctx, params)
	require.NoError(t, err)
	assert.Nil(t, created.InclusionFlag)

	_, err = testDB.Store.CreateAppointment(ctx, params)
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := testDB.Store.GetAppointmentByExternalID(ctx, tenant.ID, externalID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = testDB.Store.GetAppointmentByExternalID(ctx, uuid.New(), externalID)
	assert.ErrorIs(t, err, ErrNotFound, "appointments are tenant scoped")

	showed := AppointmentStatusShowed
	updated, err := testDB.Store.UpdateAppointment(ctx, tenant.ID, created.ID, UpdateAppointmentParams{Status: &showed})
	require.NoError(t, err)
	assert.Equal(t, AppointmentStatusShowed, updated.Status)
	assert.True(t, updated.ScheduledAt.Equal(at), "nil fields are left unchanged")

	_, err = testDB.Store.UpdateAppointment(ctx, tenant.ID, uuid.New(), UpdateAppointmentParams{Status: &showed})
	assert.ErrorIs(t, err, ErrNotFound)

	included := true
	require.NoError(t, testDB.Store.SetAppointmentInclusionFlag(ctx, tenant.ID, created.ID, &included))
	got, err = testDB.Store.GetAppointmentByID(ctx, tenant.ID, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.InclusionFlag)
	assert.True(t, *got.InclusionFlag)

	assert.ErrorIs(t, testDB.Store.SetAppointmentInclusionFlag(ctx, tenant.ID, uuid.New(), &included), ErrNotFound)
}

func TestStore_ListAppointmentsByContact(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Close()
	testDB.Truncate(t)

	ctx := context.Background()
	f := NewFixtures(t, testDB)
	tenant := f.CreateTenant(nil)
	contact := f.CreateContact(tenant.ID, "lead@x.com")
	other := f.CreateContact(tenant.ID, "other@x.com")
	base := time.Date(2026, 4, 6, 14, 0, 0, 0, time.UTC)

	late := f.CreateAppointment(tenant.ID, contact.ID, nil, base.Add(48*time.Hour))
	early := f.CreateAppointment(tenant.ID, contact.ID, nil, base)
	f.CreateAppointment(tenant.ID, other.ID, nil, base)

	all, err := testDB.Store.ListAppointmentsByContact(ctx, tenant.ID, contact.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, early.ID, all[0].ID, "schedule order")

	recent, err := testDB.Store.ListRecentAppointmentsByContact(ctx, tenant.ID, contact.ID, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, late.ID, recent[0].ID)

	contactIDs, err := testDB.Store.ListContactIDsWithAppointments(ctx, tenant.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{contact.ID, other.ID}, contactIDs)
}
