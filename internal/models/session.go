package models

import "github.com/golang-jwt/jwt/v5"

// UserSession is the single locally persisted identity record. Exactly one
// exists at a time; it is created at login and removed at logout.
type UserSession struct {
	UserType  UserRole `json:"userType"`
	FullName  string   `json:"fullName"`
	Email     string   `json:"email"`
	LoginTime string   `json:"loginTime"`
}

// SessionClaims is the JWT payload for session tokens. The token is a
// transport handle for the stored session record, not an authentication
// proof: login requires no credentials.
type SessionClaims struct {
	Role     UserRole `json:"role"`
	FullName string   `json:"full_name"`
	Email    string   `json:"email"`
	jwt.RegisteredClaims
}

// Settings is the admin-settings document.
type Settings struct {
	SchoolName   string `json:"schoolName"`
	AcademicYear string `json:"academicYear"`
	Semester     string `json:"semester"`
	Timezone     string `json:"timezone"`
	Language     string `json:"language"`
	Currency     string `json:"currency"`
}

// DefaultSettings returns the factory settings document.
func DefaultSettings() Settings {
	return Settings{
		SchoolName:   "EduERP School",
		AcademicYear: "2024-2025",
		Semester:     "Spring",
		Timezone:     "UTC+0",
		Language:     "English",
		Currency:     "USD",
	}
}
