package models

// Backup is the exported bundle of every collection plus settings. A restore
// replaces the entity collections wholesale; keys absent from the bundle
// become empty collections. Record shapes inside collections are not
// validated on restore.
type Backup struct {
	Students     []Student          `json:"students"`
	Teachers     []Teacher          `json:"teachers"`
	Courses      []Course           `json:"courses"`
	Attendance   []AttendanceRecord `json:"attendance"`
	Fees         []FeeRecord        `json:"fees"`
	Examinations []Examination      `json:"examinations"`
	Books        []Book             `json:"books,omitempty"`
	Settings     *Settings          `json:"settings,omitempty"`
	Timestamp    string             `json:"timestamp"`
}
