package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduerp-dev/eduerp-api/internal/kv"
	"github.com/eduerp-dev/eduerp-api/internal/models"
	"github.com/eduerp-dev/eduerp-api/internal/state"
	appErrors "github.com/eduerp-dev/eduerp-api/pkg/errors"
)

func newSeededStore(t *testing.T) *state.Store {
	t.Helper()
	store, report, err := state.Open(context.Background(), state.NewGateway(kv.NewMemory(), nil), nil)
	require.NoError(t, err)
	require.False(t, report.Corrupt())
	return store
}

func TestAdminOverviewCountsEverything(t *testing.T) {
	svc := NewDashboardService(newSeededStore(t), nil)

	overview, err := svc.Overview(models.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, "EduERP School", overview.SchoolName)
	assert.Equal(t, 3, overview.Counts["students"])
	assert.Equal(t, 2, overview.Counts["teachers"])
	assert.Equal(t, 2, overview.Counts["courses"])
	assert.Equal(t, 2, overview.Counts["fees"])
	assert.InDelta(t, 1500.0, overview.PendingFees, 0.001)
	assert.Len(t, overview.Modules, len(models.AllModules))
}

func TestTeacherOverviewOmitsHiddenCollections(t *testing.T) {
	svc := NewDashboardService(newSeededStore(t), nil)

	overview, err := svc.Overview(models.RoleTeacher)
	require.NoError(t, err)

	_, hasFees := overview.Counts["fees"]
	assert.False(t, hasFees)
	assert.Zero(t, overview.PendingFees)
	assert.Equal(t, 3, overview.Counts["students"])
	assert.Equal(t, models.AccessLimited, overview.Access[models.ModuleReports])
}

func TestStudentOverviewOmitsRosters(t *testing.T) {
	svc := NewDashboardService(newSeededStore(t), nil)

	overview, err := svc.Overview(models.RoleStudent)
	require.NoError(t, err)

	_, hasStudents := overview.Counts["students"]
	_, hasTeachers := overview.Counts["teachers"]
	assert.False(t, hasStudents)
	assert.False(t, hasTeachers)
	// Fees stay visible to students, read-only.
	assert.Equal(t, 2, overview.Counts["fees"])
	assert.Equal(t, models.AccessReadOnly, overview.Access[models.ModuleFees])
}

func TestOverviewRejectsUnknownRole(t *testing.T) {
	svc := NewDashboardService(newSeededStore(t), nil)

	_, err := svc.Overview(models.UserRole("guest"))
	assert.ErrorIs(t, err, appErrors.ErrInvalidRole)
}

func TestFeeSummaryAgainstSeededStore(t *testing.T) {
	store := newSeededStore(t)
	svc := NewFeeService(store, nil, nil)

	summary, err := svc.Summary(models.RoleAdmin)
	require.NoError(t, err)
	assert.InDelta(t, 3000.0, summary.TotalAmount, 0.001)
	assert.InDelta(t, 1500.0, summary.PaidAmount, 0.001)
	assert.InDelta(t, 1500.0, summary.PendingAmount, 0.001)
	assert.Equal(t, 1, summary.PendingCount)

	_, err = svc.Summary(models.RoleTeacher)
	assert.ErrorIs(t, err, appErrors.ErrModuleHidden)
}

func TestAttendanceListResolvesLiveNames(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	_, err := store.UpsertAttendance(ctx, models.RoleTeacher, models.AttendanceRecord{
		StudentID: 1, Status: models.AttendancePresent,
	})
	require.NoError(t, err)

	_, err = store.UpsertStudent(ctx, models.RoleAdmin, models.Student{
		Email: "john.doe@email.com", Name: "Jonathan Doe",
	})
	require.NoError(t, err)

	svc := NewAttendanceService(store, nil, nil)
	records, err := svc.List(models.RoleTeacher)
	require.NoError(t, err)
	require.Len(t, records, 1)
	// The view resolves the live name even though the stored snapshot kept
	// the old one.
	assert.Equal(t, "Jonathan Doe", records[0].StudentName)
}
