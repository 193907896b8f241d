package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduerp-dev/eduerp-api/internal/kv"
	"github.com/eduerp-dev/eduerp-api/internal/models"
	"github.com/eduerp-dev/eduerp-api/pkg/errors"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, report, err := Open(context.Background(), NewGateway(kv.NewMemory(), nil), nil)
	require.NoError(t, err)
	require.False(t, report.Corrupt())
	return store
}

func TestOpenSeedsBaseline(t *testing.T) {
	s := openTestStore(t)

	students, err := s.ListStudents(models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, students, 3)
	assert.Equal(t, int64(1), students[0].ID)
	assert.Equal(t, int64(2), students[1].ID)
	assert.Equal(t, int64(3), students[2].ID)

	teachers, err := s.ListTeachers(models.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, teachers, 2)

	courses, err := s.ListCourses(models.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, courses, 2)

	fees, err := s.ListFees(models.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, fees, 2)
}

func TestUpsertStudentMergesByEmail(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// jane.smith is seeded with year "2".
	got, err := s.UpsertStudent(ctx, models.RoleAdmin, models.Student{
		Email: "jane.smith@email.com",
		Year:  "3",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), got.ID)
	assert.Equal(t, "Jane Smith", got.Name)
	assert.Equal(t, "3", got.Year)
	assert.Equal(t, "Mathematics", got.Course)

	students, err := s.ListStudents(models.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, students, 3)
	assert.Equal(t, "Jane Smith", students[1].Name)
}

func TestUpsertStudentAssignsMonotonicIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.UpsertStudent(ctx, models.RoleAdmin, models.Student{
		Name: "Ana Reyes", Email: "ana.reyes@email.com", Course: "Biology", Year: "1",
	})
	require.NoError(t, err)
	second, err := s.UpsertStudent(ctx, models.RoleAdmin, models.Student{
		Name: "Ben Ortiz", Email: "ben.ortiz@email.com", Course: "Biology", Year: "1",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(4), first.ID)
	assert.Equal(t, int64(5), second.ID)
	assert.Equal(t, models.StatusActive, first.Status)
	assert.NotEmpty(t, first.EnrollmentDate)
}

func TestFindStudentByEmail(t *testing.T) {
	s := openTestStore(t)

	got, ok, err := s.FindStudent(models.RoleAdmin, "MIKE.JOHNSON@email.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Mike Johnson", got.Name)

	_, ok, err = s.FindStudent(models.RoleAdmin, "nobody@email.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemoveStudentAbsentIsNoOp(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	before, err := s.ListStudents(models.RoleAdmin)
	require.NoError(t, err)

	require.NoError(t, s.RemoveStudent(ctx, models.RoleAdmin, 999))

	after, err := s.ListStudents(models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRemoveStudent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RemoveStudent(ctx, models.RoleAdmin, 2))

	students, err := s.ListStudents(models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, int64(1), students[0].ID)
	assert.Equal(t, int64(3), students[1].ID)
}

func TestUpsertCourseMergesByCode(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	got, err := s.UpsertCourse(ctx, models.RoleAdmin, models.Course{
		Code: "cs101", Credits: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "CS101", got.Code)
	assert.Equal(t, "Introduction to Programming", got.Name)
	assert.Equal(t, 5, got.Credits)

	courses, err := s.ListCourses(models.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, courses, 2)
}

func TestAttendanceSnapshotsStudentName(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec, err := s.UpsertAttendance(ctx, models.RoleTeacher, models.AttendanceRecord{
		StudentID: 1,
		Status:    models.AttendancePresent,
	})
	require.NoError(t, err)
	assert.Equal(t, "John Doe", rec.StudentName)
	assert.NotEmpty(t, rec.Time)

	// Renaming the student must not rewrite the snapshot.
	_, err = s.UpsertStudent(ctx, models.RoleAdmin, models.Student{
		Email: "john.doe@email.com", Name: "Jonathan Doe",
	})
	require.NoError(t, err)

	records, err := s.ListAttendance(models.RoleTeacher)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "John Doe", records[0].StudentName)
}

func TestRoleGatesOnMutation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Students may read fees but never write them.
	_, err := s.UpsertFee(ctx, models.RoleStudent, models.FeeRecord{StudentID: 1, Amount: 100})
	assert.ErrorIs(t, err, errors.ErrReadOnlyModule)

	_, err = s.ListFees(models.RoleStudent)
	assert.NoError(t, err)

	// Teachers cannot see fees at all.
	_, err = s.ListFees(models.RoleTeacher)
	assert.ErrorIs(t, err, errors.ErrModuleHidden)

	// Students cannot touch rosters.
	_, err = s.ListStudents(models.RoleStudent)
	assert.ErrorIs(t, err, errors.ErrModuleHidden)

	// Only admins manage the teacher roster.
	_, err = s.UpsertTeacher(ctx, models.RoleTeacher, models.Teacher{Email: "x@school.edu"})
	assert.ErrorIs(t, err, errors.ErrModuleHidden)

	// Unknown roles are rejected outright.
	_, err = s.ListCourses(models.UserRole("guest"))
	assert.ErrorIs(t, err, errors.ErrInvalidRole)
}

func TestDeniedMutationLeavesCollectionUnchanged(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	before, err := s.ListFees(models.RoleAdmin)
	require.NoError(t, err)

	_, err = s.UpsertFee(ctx, models.RoleStudent, models.FeeRecord{StudentID: 1, Amount: 250})
	require.Error(t, err)

	after, err := s.ListFees(models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSettingsAdminOnlyWrite(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	settings, err := s.Settings(models.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, "EduERP School", settings.SchoolName)

	err = s.SaveSettings(ctx, models.RoleTeacher, settings)
	assert.ErrorIs(t, err, errors.ErrForbidden)

	settings.SchoolName = "Northside Academy"
	require.NoError(t, s.SaveSettings(ctx, models.RoleAdmin, settings))

	got, err := s.Settings(models.RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, "Northside Academy", got.SchoolName)
}

func TestSnapshotAndReplace(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	snap, err := s.Snapshot(models.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, snap.Students, 3)
	assert.NotEmpty(t, snap.Timestamp)

	_, err = s.Snapshot(models.RoleTeacher)
	assert.ErrorIs(t, err, errors.ErrForbidden)

	// A bundle missing fees empties the fee collection.
	snap.Fees = nil
	require.NoError(t, s.Replace(ctx, models.RoleAdmin, snap))

	fees, err := s.ListFees(models.RoleAdmin)
	require.NoError(t, err)
	assert.Empty(t, fees)

	students, err := s.ListStudents(models.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, students, 3)
}

func TestReplaceResetsIDCounters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	snap, err := s.Snapshot(models.RoleAdmin)
	require.NoError(t, err)
	snap.Students = []models.Student{{ID: 40, Name: "Solo", Email: "solo@email.com"}}
	require.NoError(t, s.Replace(ctx, models.RoleAdmin, snap))

	got, err := s.UpsertStudent(ctx, models.RoleAdmin, models.Student{
		Name: "Next", Email: "next@email.com",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(41), got.ID)
}

func TestFactoryResetWipesStorage(t *testing.T) {
	backend := kv.NewMemory()
	ctx := context.Background()
	gw := NewGateway(backend, nil)

	s, _, err := Open(ctx, gw, nil)
	require.NoError(t, err)
	require.NoError(t, gw.SaveSession(ctx, &models.UserSession{UserType: models.RoleAdmin}))

	require.NoError(t, s.FactoryReset(ctx, models.RoleAdmin))

	keys, err := backend.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	students, err := s.ListStudents(models.RoleAdmin)
	require.NoError(t, err)
	assert.Empty(t, students)

	_, ok, err := gw.LoadSession(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	err = s.FactoryReset(ctx, models.RoleTeacher)
	assert.ErrorIs(t, err, errors.ErrForbidden)
}

func TestStatePersistsAcrossReopen(t *testing.T) {
	backend := kv.NewMemory()
	ctx := context.Background()

	s1, _, err := Open(ctx, NewGateway(backend, nil), nil)
	require.NoError(t, err)
	_, err = s1.UpsertStudent(ctx, models.RoleAdmin, models.Student{
		Name: "Ana Reyes", Email: "ana.reyes@email.com", Course: "Biology", Year: "1",
	})
	require.NoError(t, err)

	s2, _, err := Open(ctx, NewGateway(backend, nil), nil)
	require.NoError(t, err)
	students, err := s2.ListStudents(models.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, students, 4)

	// Counters must continue past the persisted maximum after reopen.
	got, err := s2.UpsertStudent(ctx, models.RoleAdmin, models.Student{
		Name: "Ben Ortiz", Email: "ben.ortiz@email.com",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ID)
}
