package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduerp-dev/eduerp-api/internal/models"
	appErrors "github.com/eduerp-dev/eduerp-api/pkg/errors"
)

type fakeStudentStore struct {
	students  []models.Student
	upsertErr error
	lastRole  models.UserRole
}

func (f *fakeStudentStore) ListStudents(role models.UserRole) ([]models.Student, error) {
	f.lastRole = role
	return f.students, nil
}

func (f *fakeStudentStore) GetStudent(_ models.UserRole, id int64) (models.Student, bool, error) {
	for _, s := range f.students {
		if s.ID == id {
			return s, true, nil
		}
	}
	return models.Student{}, false, nil
}

func (f *fakeStudentStore) FindStudent(_ models.UserRole, email string) (models.Student, bool, error) {
	for _, s := range f.students {
		if s.Email == email {
			return s, true, nil
		}
	}
	return models.Student{}, false, nil
}

func (f *fakeStudentStore) UpsertStudent(_ context.Context, role models.UserRole, in models.Student) (models.Student, error) {
	f.lastRole = role
	if f.upsertErr != nil {
		return models.Student{}, f.upsertErr
	}
	in.ID = int64(len(f.students) + 1)
	f.students = append(f.students, in)
	return in, nil
}

func (f *fakeStudentStore) RemoveStudent(_ context.Context, role models.UserRole, id int64) error {
	f.lastRole = role
	return nil
}

func TestStudentUpsertValidatesPayload(t *testing.T) {
	svc := NewStudentService(&fakeStudentStore{}, nil, nil)

	_, err := svc.Upsert(context.Background(), models.RoleAdmin, UpsertStudentRequest{Name: "No Email"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Upsert(context.Background(), models.RoleAdmin, UpsertStudentRequest{
		Name: "Bad Status", Email: "x@email.com", Status: "expelled",
	})
	require.Error(t, err)
}

func TestStudentUpsertPassesRoleThrough(t *testing.T) {
	store := &fakeStudentStore{}
	svc := NewStudentService(store, nil, nil)

	got, err := svc.Upsert(context.Background(), models.RoleTeacher, UpsertStudentRequest{
		Name: "Ana Reyes", Email: "ana.reyes@email.com", Course: "Biology", Year: "1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, store.lastRole)
	assert.Equal(t, "Ana Reyes", got.Name)
}

func TestStudentUpsertPropagatesGateError(t *testing.T) {
	store := &fakeStudentStore{upsertErr: appErrors.ErrModuleHidden}
	svc := NewStudentService(store, nil, nil)

	_, err := svc.Upsert(context.Background(), models.RoleStudent, UpsertStudentRequest{
		Name: "Nope", Email: "nope@email.com",
	})
	assert.ErrorIs(t, err, appErrors.ErrModuleHidden)
}

func TestStudentGetNotFound(t *testing.T) {
	svc := NewStudentService(&fakeStudentStore{}, nil, nil)

	_, err := svc.Get(models.RoleAdmin, 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
