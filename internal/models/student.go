package models

// Student represents a learner registered in the institution. JSON field
// names match the persisted document layout, which predates this service.
type Student struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Course         string `json:"course"`
	Year           string `json:"year"`
	Status         string `json:"status"`
	EnrollmentDate string `json:"enrollmentDate"`
}

// Teacher represents a staff member on the teaching roster.
type Teacher struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Subject    string `json:"subject"`
	Experience int    `json:"experience"`
	Status     string `json:"status,omitempty"`
	JoinDate   string `json:"joinDate,omitempty"`
}

// RecordStatus values shared by students and teachers.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)
