package models

// Course is keyed by its code; there is no numeric id.
type Course struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Duration   string `json:"duration"`
	Credits    int    `json:"credits"`
}

// AttendanceRecord marks a student present or absent at a point in time.
// StudentName is a point-in-time snapshot and is not resynced when the
// referenced student is renamed; views resolve the live name when possible.
type AttendanceRecord struct {
	ID          int64  `json:"id"`
	StudentID   int64  `json:"studentId"`
	StudentName string `json:"studentName"`
	Status      string `json:"status"`
	Time        string `json:"time"`
}

// Attendance statuses.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
)

// FeeRecord tracks a payment obligation. StudentID is a weak reference.
type FeeRecord struct {
	ID          int64   `json:"id"`
	StudentID   int64   `json:"studentId"`
	StudentName string  `json:"studentName"`
	Amount      float64 `json:"amount"`
	DueDate     string  `json:"dueDate"`
	Status      string  `json:"status"`
	FeeType     string  `json:"feeType,omitempty"`
}

// Fee statuses.
const (
	FeePaid    = "paid"
	FeePending = "pending"
)

// Examination is scheduled against a free-text subject, not a course code.
type Examination struct {
	ID       int64  `json:"id"`
	Subject  string `json:"subject"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Duration int    `json:"duration"`
	Room     string `json:"room,omitempty"`
}

// Book is a content-library entry.
type Book struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
	Status string `json:"status"`
}
