// Package policy is the single authority on which modules each role can see
// and what it can do inside them. Handlers, the dispatcher, and the state
// store all consult it; nothing else hardcodes role rules.
package policy

import "github.com/eduerp-dev/eduerp-api/internal/models"

var allowedModules = map[models.UserRole][]models.Module{
	models.RoleStudent: {
		models.ModuleDashboard,
		models.ModuleCourses,
		models.ModuleAttendance,
		models.ModuleFees,
		models.ModuleExaminations,
		models.ModuleContentLibrary,
	},
	models.RoleTeacher: {
		models.ModuleDashboard,
		models.ModuleStudents,
		models.ModuleCourses,
		models.ModuleAttendance,
		models.ModuleExaminations,
		models.ModuleContentLibrary,
		models.ModuleReports,
	},
	models.RoleAdmin: append([]models.Module(nil), models.AllModules...),
}

// accessOverrides narrows what a role may do inside a module it can reach,
// or marks a module completely hidden. Absent entries mean full access.
var accessOverrides = map[models.UserRole]map[models.Module]models.AccessLevel{
	models.RoleStudent: {
		models.ModuleFees:     models.AccessReadOnly,
		models.ModuleStudents: models.AccessNone,
		models.ModuleTeachers: models.AccessNone,
		models.ModuleReports:  models.AccessNone,
	},
	models.RoleTeacher: {
		models.ModuleFees:    models.AccessNone,
		models.ModuleReports: models.AccessLimited,
	},
}

// AllowedModules returns the navigation list for a role, in display order.
// Unknown roles get nothing.
func AllowedModules(role models.UserRole) []models.Module {
	modules, ok := allowedModules[role]
	if !ok {
		return nil
	}
	out := make([]models.Module, len(modules))
	copy(out, modules)
	return out
}

// IsAllowed reports whether the module appears in the role's navigation.
func IsAllowed(role models.UserRole, module models.Module) bool {
	for _, m := range allowedModules[role] {
		if m == module {
			return true
		}
	}
	return false
}

// Access resolves the role's access level for a module. Roles default to
// full access on the modules they can reach.
func Access(role models.UserRole, module models.Module) models.AccessLevel {
	if overrides, ok := accessOverrides[role]; ok {
		if level, ok := overrides[module]; ok {
			return level
		}
	}
	return models.AccessFull
}

// CanView reports whether the role may read the module's data at all.
// A module can be absent from navigation yet still have a non-none access
// level, so both checks apply.
func CanView(role models.UserRole, module models.Module) bool {
	return IsAllowed(role, module) && Access(role, module) != models.AccessNone
}

// CanMutate reports whether the role may create, update, or delete records
// in the module. Read-only and limited access both refuse writes.
func CanMutate(role models.UserRole, module models.Module) bool {
	return CanView(role, module) && Access(role, module) == models.AccessFull
}
