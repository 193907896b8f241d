package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduerp-dev/eduerp-api/internal/kv"
	"github.com/eduerp-dev/eduerp-api/internal/models"
)

func TestSeedDefaultsBaseline(t *testing.T) {
	gw := NewGateway(kv.NewMemory(), nil)
	ctx := context.Background()

	app, report, err := gw.LoadAll(ctx)
	require.NoError(t, err)
	assert.False(t, report.Corrupt())

	require.NoError(t, gw.SeedDefaults(ctx, app))

	assert.Len(t, app.Students, 3)
	assert.Len(t, app.Teachers, 2)
	assert.Len(t, app.Courses, 2)
	assert.Len(t, app.Fees, 2)
	assert.Len(t, app.Books, 2)
	assert.Empty(t, app.Attendance)
	assert.Empty(t, app.Examinations)

	ids := []int64{app.Students[0].ID, app.Students[1].ID, app.Students[2].ID}
	assert.Equal(t, []int64{1, 2, 3}, ids)
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	gw := NewGateway(kv.NewMemory(), nil)
	ctx := context.Background()

	app, _, err := gw.LoadAll(ctx)
	require.NoError(t, err)
	require.NoError(t, gw.SeedDefaults(ctx, app))
	first, _, err := gw.LoadAll(ctx)
	require.NoError(t, err)

	require.NoError(t, gw.SeedDefaults(ctx, first))
	second, _, err := gw.LoadAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSaveAllLoadAllRoundTrip(t *testing.T) {
	gw := NewGateway(kv.NewMemory(), nil)
	ctx := context.Background()

	app := &AppState{
		Students: []models.Student{
			{ID: 7, Name: "Ana Reyes", Email: "ana.reyes@email.com", Course: "Biology", Year: "1", Status: models.StatusActive, EnrollmentDate: "2025-09-01"},
		},
		Teachers:     []models.Teacher{},
		Courses:      []models.Course{{Code: "BIO110", Name: "Cell Biology", Department: "Biology", Duration: "1 semester", Credits: 3}},
		Attendance:   []models.AttendanceRecord{{ID: 1, StudentID: 7, StudentName: "Ana Reyes", Status: models.AttendancePresent, Time: "2025-09-02 09:00"}},
		Fees:         []models.FeeRecord{},
		Examinations: []models.Examination{},
		Books:        []models.Book{},
		Settings:     models.DefaultSettings(),
	}

	require.NoError(t, gw.SaveAll(ctx, app))

	loaded, report, err := gw.LoadAll(ctx)
	require.NoError(t, err)
	assert.False(t, report.Corrupt())
	assert.Equal(t, app, loaded)
}

func TestLoadAllReportsCorruptDocuments(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, KeyStudents, []byte(`{not json`)))
	require.NoError(t, store.Set(ctx, KeyFees, []byte(`[{"id":1,"amount":100}]`)))

	gw := NewGateway(store, nil)
	app, report, err := gw.LoadAll(ctx)
	require.NoError(t, err)

	assert.True(t, report.Corrupt())
	assert.Equal(t, []string{KeyStudents}, report.CorruptKeys)
	assert.Empty(t, app.Students)
	assert.Len(t, app.Fees, 1)
}

func TestLoadSessionDiscardsCorruptRecord(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, KeySession, []byte(`garbage`)))

	gw := NewGateway(store, nil)
	session, ok, err := gw.LoadSession(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, session)

	// The corrupt record must be gone.
	_, err = store.Get(ctx, KeySession)
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestSessionRoundTrip(t *testing.T) {
	gw := NewGateway(kv.NewMemory(), nil)
	ctx := context.Background()

	in := &models.UserSession{
		UserType:  models.RoleTeacher,
		FullName:  "Demo Teacher",
		Email:     "teacher@school.edu",
		LoginTime: "2025-09-01T08:00:00Z",
	}
	require.NoError(t, gw.SaveSession(ctx, in))

	out, ok, err := gw.LoadSession(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in, out)

	require.NoError(t, gw.DeleteSession(ctx))
	_, ok, err = gw.LoadSession(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWipeRemovesEveryKey(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()
	gw := NewGateway(store, nil)

	app, _, err := gw.LoadAll(ctx)
	require.NoError(t, err)
	require.NoError(t, gw.SeedDefaults(ctx, app))
	require.NoError(t, gw.SaveSession(ctx, &models.UserSession{UserType: models.RoleAdmin}))

	require.NoError(t, gw.Wipe(ctx))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}
