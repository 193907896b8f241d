package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eduerp-dev/eduerp-api/internal/models"
)

func TestAllowedModules(t *testing.T) {
	tests := []struct {
		name string
		role models.UserRole
		want []models.Module
	}{
		{
			name: "student",
			role: models.RoleStudent,
			want: []models.Module{
				models.ModuleDashboard,
				models.ModuleCourses,
				models.ModuleAttendance,
				models.ModuleFees,
				models.ModuleExaminations,
				models.ModuleContentLibrary,
			},
		},
		{
			name: "teacher",
			role: models.RoleTeacher,
			want: []models.Module{
				models.ModuleDashboard,
				models.ModuleStudents,
				models.ModuleCourses,
				models.ModuleAttendance,
				models.ModuleExaminations,
				models.ModuleContentLibrary,
				models.ModuleReports,
			},
		},
		{
			name: "admin sees everything",
			role: models.RoleAdmin,
			want: models.AllModules,
		},
		{
			name: "unknown role sees nothing",
			role: models.UserRole("guest"),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AllowedModules(tt.role))
		})
	}
}

func TestAccessLevels(t *testing.T) {
	tests := []struct {
		name   string
		role   models.UserRole
		module models.Module
		want   models.AccessLevel
	}{
		{"student fees are read-only", models.RoleStudent, models.ModuleFees, models.AccessReadOnly},
		{"student cannot touch rosters", models.RoleStudent, models.ModuleStudents, models.AccessNone},
		{"student cannot see reports", models.RoleStudent, models.ModuleReports, models.AccessNone},
		{"teacher cannot see fees", models.RoleTeacher, models.ModuleFees, models.AccessNone},
		{"teacher reports are limited", models.RoleTeacher, models.ModuleReports, models.AccessLimited},
		{"teacher manages students fully", models.RoleTeacher, models.ModuleStudents, models.AccessFull},
		{"admin is full everywhere", models.RoleAdmin, models.ModuleFees, models.AccessFull},
		{"unlisted module defaults to full", models.RoleStudent, models.ModuleCourses, models.AccessFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Access(tt.role, tt.module))
		})
	}
}

func TestCanView(t *testing.T) {
	// Teacher has fees hidden AND access none; both gates agree.
	assert.False(t, CanView(models.RoleTeacher, models.ModuleFees))

	// Student can view fees read-only but not mutate them.
	assert.True(t, CanView(models.RoleStudent, models.ModuleFees))
	assert.False(t, CanMutate(models.RoleStudent, models.ModuleFees))

	// Teacher reports are viewable but limited, so no writes.
	assert.True(t, CanView(models.RoleTeacher, models.ModuleReports))
	assert.False(t, CanMutate(models.RoleTeacher, models.ModuleReports))

	assert.True(t, CanMutate(models.RoleAdmin, models.ModuleTeachers))
	assert.False(t, CanView(models.UserRole("guest"), models.ModuleDashboard))
}

func TestAllowedModulesCopyIsSafe(t *testing.T) {
	first := AllowedModules(models.RoleStudent)
	first[0] = models.ModuleReports

	second := AllowedModules(models.RoleStudent)
	assert.Equal(t, models.ModuleDashboard, second[0])
}
