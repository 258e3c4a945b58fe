package repository

import (
	"context"
	"testing"
	"time"

	"klinik-sentosa/internal/domain/entity"
	"klinik-sentosa/internal/infrastructure/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewQueueRepository(store.NewMemoryStore())

	entry := &entity.QueueEntry{PatientID: "p1", PatientName: "Budi", Status: entity.QueueStatusWaiting, JoinedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, entry))
	require.NoError(t, repo.UpdateStatus(ctx, entry.ID, entity.QueueStatusExamining))

	entries, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.QueueStatusExamining, entries[0].Status)
}

func TestMedicineRepository_UpdateStock(t *testing.T) {
	ctx := context.Background()
	repo := NewMedicineRepository(store.NewMemoryStore())

	med := &entity.Medicine{Name: "Amoxicillin", Unit: "kapsul", Stock: 40}
	require.NoError(t, repo.Create(ctx, med))
	require.NoError(t, repo.UpdateStock(ctx, med.ID, 34))
	require.NoError(t, repo.Update(ctx, med.ID, map[string]interface{}{entity.FieldUnit: "strip"}))

	meds, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, meds, 1)
	assert.Equal(t, 34, meds[0].Stock)
	assert.Equal(t, "strip", meds[0].Unit)
	assert.Equal(t, "Amoxicillin", meds[0].Name)
}

func TestUserRepository_FindByUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(store.NewMemoryStore())

	require.NoError(t, repo.Create(ctx, &entity.User{Username: "doctor", Name: "dr. Andi", Role: entity.RoleDoctor}))

	user, err := repo.FindByUsername(ctx, "doctor")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, entity.RoleDoctor, user.Role)

	missing, err := repo.FindByUsername(ctx, "nurse")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPrescriptionRepository_UpdateStatusAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewPrescriptionRepository(store.NewMemoryStore())

	rx := &entity.Prescription{PatientID: "p1", Status: entity.PrescriptionStatusPending}
	require.NoError(t, repo.Create(ctx, rx))
	require.NoError(t, repo.UpdateStatus(ctx, rx.ID, entity.PrescriptionStatusCompleted))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsCompleted())

	require.NoError(t, repo.Delete(ctx, rx.ID))
	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func newTestRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSessionRepository_SaveFindDelete(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)
	repo := NewSessionRepository(client)

	session := &entity.Session{
		TokenID:   "tok-1",
		UserID:    "u1",
		Username:  "admin",
		Name:      "Admin Klinik",
		Role:      entity.RoleAdmin,
		CreatedAt: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Save(ctx, session))

	ttl, err := client.TTL(ctx, "session:tok-1").Result()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ttl)

	// a fresh repository instance sees the same slot
	got, err := NewSessionRepository(client).FindByTokenID(ctx, "tok-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *session, *got)

	require.NoError(t, repo.Delete(ctx, "tok-1"))
	got, err = repo.FindByTokenID(ctx, "tok-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
