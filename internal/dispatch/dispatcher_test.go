package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduerp-dev/eduerp-api/internal/models"
	"github.com/eduerp-dev/eduerp-api/pkg/errors"
)

func TestInitialStateIsDashboard(t *testing.T) {
	d := New(nil)
	assert.Equal(t, models.ModuleDashboard, d.Active())
}

func TestActivateRunsLoader(t *testing.T) {
	d := New(nil)
	d.Register(models.ModuleCourses, func(_ context.Context, role models.UserRole) (any, error) {
		return []string{"CS101", "MATH201"}, nil
	})

	view, err := d.Activate(context.Background(), models.RoleStudent, models.ModuleCourses)
	require.NoError(t, err)
	assert.Equal(t, models.ModuleCourses, view.Module)
	assert.Equal(t, []string{"CS101", "MATH201"}, view.Payload)
	assert.Equal(t, models.ModuleCourses, d.Active())
}

func TestActivateDisallowedModuleLeavesStateUnchanged(t *testing.T) {
	d := New(nil)

	_, err := d.Activate(context.Background(), models.RoleStudent, models.ModuleTeachers)
	assert.ErrorIs(t, err, errors.ErrModuleHidden)
	assert.Equal(t, models.ModuleDashboard, d.Active())
}

func TestActivateUnknownRole(t *testing.T) {
	d := New(nil)

	_, err := d.Activate(context.Background(), models.UserRole("guest"), models.ModuleDashboard)
	assert.ErrorIs(t, err, errors.ErrInvalidRole)
}

func TestActivateWithoutLoader(t *testing.T) {
	d := New(nil)

	view, err := d.Activate(context.Background(), models.RoleAdmin, models.ModuleReports)
	require.NoError(t, err)
	assert.Nil(t, view.Payload)
	assert.Equal(t, models.ModuleReports, d.Active())
}

func TestNavigationMarksActiveModule(t *testing.T) {
	d := New(nil)
	_, err := d.Activate(context.Background(), models.RoleTeacher, models.ModuleStudents)
	require.NoError(t, err)

	nav, err := d.Navigation(models.RoleTeacher)
	require.NoError(t, err)
	require.Len(t, nav, 7)

	var activeModules []models.Module
	for _, v := range nav {
		if v.Active {
			activeModules = append(activeModules, v.Module)
		}
	}
	assert.Equal(t, []models.Module{models.ModuleStudents}, activeModules)
}
