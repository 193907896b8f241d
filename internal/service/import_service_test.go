package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduerp-dev/eduerp-api/internal/models"
	appErrors "github.com/eduerp-dev/eduerp-api/pkg/errors"
)

type fakeImportStore struct {
	students []models.Student
	teachers []models.Teacher
	gateErr  error
}

func (f *fakeImportStore) UpsertStudent(_ context.Context, _ models.UserRole, in models.Student) (models.Student, error) {
	if f.gateErr != nil {
		return models.Student{}, f.gateErr
	}
	f.students = append(f.students, in)
	return in, nil
}

func (f *fakeImportStore) UpsertTeacher(_ context.Context, _ models.UserRole, in models.Teacher) (models.Teacher, error) {
	if f.gateErr != nil {
		return models.Teacher{}, f.gateErr
	}
	f.teachers = append(f.teachers, in)
	return in, nil
}

func (f *fakeImportStore) ListStudents(_ models.UserRole) ([]models.Student, error) {
	if f.gateErr != nil {
		return nil, f.gateErr
	}
	return f.students, nil
}

func (f *fakeImportStore) ListTeachers(_ models.UserRole) ([]models.Teacher, error) {
	if f.gateErr != nil {
		return nil, f.gateErr
	}
	return f.teachers, nil
}

func TestImportCountsBadRowsWithoutAborting(t *testing.T) {
	store := &fakeImportStore{}
	svc := NewImportService(store, nil)

	input := strings.Join([]string{
		"name,email,type,course,year",
		"Ana Reyes,ana.reyes@email.com,student,Biology,1",
		"Missing Email,,student,Physics,2",
		"Ben Ortiz,ben.ortiz@email.com,student,Chemistry,3",
	}, "\n")

	result, err := svc.ImportUsers(context.Background(), models.RoleAdmin, strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Errors)
	assert.Len(t, store.students, 2)
}

func TestImportMixedTypes(t *testing.T) {
	store := &fakeImportStore{}
	svc := NewImportService(store, nil)

	input := strings.Join([]string{
		"name,email,type,department,subject,experience",
		"Dr. Kim Lee,kim.lee@school.edu,teacher,Physics,Mechanics,8",
		"Sam Park,sam.park@email.com,student,,",
		"Ghost Row,ghost@email.com,alien,,",
	}, "\n")

	result, err := svc.ImportUsers(context.Background(), models.RoleAdmin, strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Errors)
	require.Len(t, store.teachers, 1)
	assert.Equal(t, 8, store.teachers[0].Experience)
	assert.Len(t, store.students, 1)
}

func TestImportRejectsMissingHeaderColumn(t *testing.T) {
	svc := NewImportService(&fakeImportStore{}, nil)

	_, err := svc.ImportUsers(context.Background(), models.RoleAdmin, strings.NewReader("name,email\nAna,a@email.com"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestImportCountsRoleGateRefusalsAsRowErrors(t *testing.T) {
	store := &fakeImportStore{gateErr: appErrors.ErrModuleHidden}
	svc := NewImportService(store, nil)

	input := "name,email,type\nAna,a@email.com,student"
	result, err := svc.ImportUsers(context.Background(), models.RoleStudent, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 1, result.Errors)
}

func TestExportUsersRoundTripsThroughImport(t *testing.T) {
	store := &fakeImportStore{
		students: []models.Student{{Name: "Ana Reyes", Email: "ana.reyes@email.com", Course: "Biology", Year: "1"}},
		teachers: []models.Teacher{{Name: "Dr. Kim Lee", Email: "kim.lee@school.edu", Department: "Physics", Subject: "Mechanics", Experience: 8}},
	}
	svc := NewImportService(store, nil)

	data, err := svc.ExportUsers(models.RoleAdmin)
	require.NoError(t, err)

	target := &fakeImportStore{}
	result, err := NewImportService(target, nil).ImportUsers(context.Background(), models.RoleAdmin, strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Errors)
	require.Len(t, target.teachers, 1)
	assert.Equal(t, 8, target.teachers[0].Experience)
	require.Len(t, target.students, 1)
	assert.Equal(t, "Biology", target.students[0].Course)
}
