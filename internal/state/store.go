package state

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eduerp-dev/eduerp-api/internal/models"
	"github.com/eduerp-dev/eduerp-api/internal/policy"
	"github.com/eduerp-dev/eduerp-api/pkg/errors"
)

// Store is the single owner of the loaded collections. Every read and write
// goes through it, and every mutation entry point checks the caller's role
// against the role policy before touching data. External code never holds a
// reference into the underlying slices.
type Store struct {
	mu  sync.RWMutex
	gw  *Gateway
	log *zap.Logger

	state *AppState

	nextStudentID    int64
	nextTeacherID    int64
	nextAttendanceID int64
	nextFeeID        int64
	nextExamID       int64
	nextBookID       int64
}

// Open loads persisted state, seeds the fixed baseline into any empty
// collection, and primes the id counters from the highest persisted ids.
// The returned report lists documents that were corrupt on disk.
func Open(ctx context.Context, gw *Gateway, log *zap.Logger) (*Store, *LoadReport, error) {
	if log == nil {
		log = zap.NewNop()
	}

	app, report, err := gw.LoadAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := gw.SeedDefaults(ctx, app); err != nil {
		return nil, nil, err
	}

	s := &Store{gw: gw, log: log, state: app}
	s.resetCounters()
	return s, report, nil
}

func (s *Store) resetCounters() {
	s.nextStudentID = 1
	for _, r := range s.state.Students {
		if r.ID >= s.nextStudentID {
			s.nextStudentID = r.ID + 1
		}
	}
	s.nextTeacherID = 1
	for _, r := range s.state.Teachers {
		if r.ID >= s.nextTeacherID {
			s.nextTeacherID = r.ID + 1
		}
	}
	s.nextAttendanceID = 1
	for _, r := range s.state.Attendance {
		if r.ID >= s.nextAttendanceID {
			s.nextAttendanceID = r.ID + 1
		}
	}
	s.nextFeeID = 1
	for _, r := range s.state.Fees {
		if r.ID >= s.nextFeeID {
			s.nextFeeID = r.ID + 1
		}
	}
	s.nextExamID = 1
	for _, r := range s.state.Examinations {
		if r.ID >= s.nextExamID {
			s.nextExamID = r.ID + 1
		}
	}
	s.nextBookID = 1
	for _, r := range s.state.Books {
		if r.ID >= s.nextBookID {
			s.nextBookID = r.ID + 1
		}
	}
}

func nextID(counter *int64) int64 {
	id := *counter
	*counter++
	return id
}

// gateView refuses roles that cannot see the module at all.
func gateView(role models.UserRole, module models.Module) error {
	if !role.Valid() {
		return errors.ErrInvalidRole
	}
	if !policy.CanView(role, module) {
		return errors.ErrModuleHidden
	}
	return nil
}

// gateMutate additionally refuses roles restricted to reading.
func gateMutate(role models.UserRole, module models.Module) error {
	if err := gateView(role, module); err != nil {
		return err
	}
	if !policy.CanMutate(role, module) {
		return errors.ErrReadOnlyModule
	}
	return nil
}

func (s *Store) persist(ctx context.Context) error {
	if err := s.gw.SaveAll(ctx, s.state); err != nil {
		return errors.Wrap(err, errors.ErrInternal.Code, errors.ErrInternal.Status, "persist state")
	}
	return nil
}

// --- students ---

func (s *Store) ListStudents(role models.UserRole) ([]models.Student, error) {
	if err := gateView(role, models.ModuleStudents); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Student, len(s.state.Students))
	copy(out, s.state.Students)
	return out, nil
}

// FindStudent looks a student up by email, the collection's natural key.
func (s *Store) FindStudent(role models.UserRole, email string) (models.Student, bool, error) {
	if err := gateView(role, models.ModuleStudents); err != nil {
		return models.Student{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.state.Students {
		if strings.EqualFold(r.Email, email) {
			return r, true, nil
		}
	}
	return models.Student{}, false, nil
}

func (s *Store) GetStudent(role models.UserRole, id int64) (models.Student, bool, error) {
	if err := gateView(role, models.ModuleStudents); err != nil {
		return models.Student{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.state.Students {
		if r.ID == id {
			return r, true, nil
		}
	}
	return models.Student{}, false, nil
}

// UpsertStudent merges by email. A match updates the existing record in
// place, keeping its id and position; provided fields overwrite, absent
// (empty) fields are left untouched. No match appends a new record with a
// store-assigned id regardless of any id the caller supplied.
func (s *Store) UpsertStudent(ctx context.Context, role models.UserRole, in models.Student) (models.Student, error) {
	if err := gateMutate(role, models.ModuleStudents); err != nil {
		return models.Student{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Students {
		if strings.EqualFold(s.state.Students[i].Email, in.Email) {
			mergeStudent(&s.state.Students[i], in)
			if err := s.persist(ctx); err != nil {
				return models.Student{}, err
			}
			return s.state.Students[i], nil
		}
	}

	in.ID = nextID(&s.nextStudentID)
	if in.Status == "" {
		in.Status = models.StatusActive
	}
	if in.EnrollmentDate == "" {
		in.EnrollmentDate = time.Now().Format("2006-01-02")
	}
	s.state.Students = append(s.state.Students, in)
	if err := s.persist(ctx); err != nil {
		return models.Student{}, err
	}
	return in, nil
}

// RemoveStudent deletes by id. Removing an absent id is a no-op.
func (s *Store) RemoveStudent(ctx context.Context, role models.UserRole, id int64) error {
	if err := gateMutate(role, models.ModuleStudents); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.state.Students {
		if r.ID == id {
			s.state.Students = append(s.state.Students[:i], s.state.Students[i+1:]...)
			return s.persist(ctx)
		}
	}
	return nil
}

func mergeStudent(dst *models.Student, in models.Student) {
	if in.Name != "" {
		dst.Name = in.Name
	}
	if in.Course != "" {
		dst.Course = in.Course
	}
	if in.Year != "" {
		dst.Year = in.Year
	}
	if in.Status != "" {
		dst.Status = in.Status
	}
	if in.EnrollmentDate != "" {
		dst.EnrollmentDate = in.EnrollmentDate
	}
}

// --- teachers ---

func (s *Store) ListTeachers(role models.UserRole) ([]models.Teacher, error) {
	if err := gateView(role, models.ModuleTeachers); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Teacher, len(s.state.Teachers))
	copy(out, s.state.Teachers)
	return out, nil
}

func (s *Store) FindTeacher(role models.UserRole, email string) (models.Teacher, bool, error) {
	if err := gateView(role, models.ModuleTeachers); err != nil {
		return models.Teacher{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.state.Teachers {
		if strings.EqualFold(r.Email, email) {
			return r, true, nil
		}
	}
	return models.Teacher{}, false, nil
}

// UpsertTeacher merges by email, mirroring UpsertStudent.
func (s *Store) UpsertTeacher(ctx context.Context, role models.UserRole, in models.Teacher) (models.Teacher, error) {
	if err := gateMutate(role, models.ModuleTeachers); err != nil {
		return models.Teacher{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Teachers {
		if strings.EqualFold(s.state.Teachers[i].Email, in.Email) {
			mergeTeacher(&s.state.Teachers[i], in)
			if err := s.persist(ctx); err != nil {
				return models.Teacher{}, err
			}
			return s.state.Teachers[i], nil
		}
	}

	in.ID = nextID(&s.nextTeacherID)
	if in.Status == "" {
		in.Status = models.StatusActive
	}
	if in.JoinDate == "" {
		in.JoinDate = time.Now().Format("2006-01-02")
	}
	s.state.Teachers = append(s.state.Teachers, in)
	if err := s.persist(ctx); err != nil {
		return models.Teacher{}, err
	}
	return in, nil
}

func (s *Store) RemoveTeacher(ctx context.Context, role models.UserRole, id int64) error {
	if err := gateMutate(role, models.ModuleTeachers); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.state.Teachers {
		if r.ID == id {
			s.state.Teachers = append(s.state.Teachers[:i], s.state.Teachers[i+1:]...)
			return s.persist(ctx)
		}
	}
	return nil
}

func mergeTeacher(dst *models.Teacher, in models.Teacher) {
	if in.Name != "" {
		dst.Name = in.Name
	}
	if in.Department != "" {
		dst.Department = in.Department
	}
	if in.Subject != "" {
		dst.Subject = in.Subject
	}
	if in.Experience != 0 {
		dst.Experience = in.Experience
	}
	if in.Status != "" {
		dst.Status = in.Status
	}
	if in.JoinDate != "" {
		dst.JoinDate = in.JoinDate
	}
}

// --- courses ---

func (s *Store) ListCourses(role models.UserRole) ([]models.Course, error) {
	if err := gateView(role, models.ModuleCourses); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Course, len(s.state.Courses))
	copy(out, s.state.Courses)
	return out, nil
}

func (s *Store) FindCourse(role models.UserRole, code string) (models.Course, bool, error) {
	if err := gateView(role, models.ModuleCourses); err != nil {
		return models.Course{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.state.Courses {
		if strings.EqualFold(r.Code, code) {
			return r, true, nil
		}
	}
	return models.Course{}, false, nil
}

// UpsertCourse merges by code; courses carry no numeric id.
func (s *Store) UpsertCourse(ctx context.Context, role models.UserRole, in models.Course) (models.Course, error) {
	if err := gateMutate(role, models.ModuleCourses); err != nil {
		return models.Course{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Courses {
		if strings.EqualFold(s.state.Courses[i].Code, in.Code) {
			mergeCourse(&s.state.Courses[i], in)
			if err := s.persist(ctx); err != nil {
				return models.Course{}, err
			}
			return s.state.Courses[i], nil
		}
	}

	s.state.Courses = append(s.state.Courses, in)
	if err := s.persist(ctx); err != nil {
		return models.Course{}, err
	}
	return in, nil
}

func (s *Store) RemoveCourse(ctx context.Context, role models.UserRole, code string) error {
	if err := gateMutate(role, models.ModuleCourses); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.state.Courses {
		if strings.EqualFold(r.Code, code) {
			s.state.Courses = append(s.state.Courses[:i], s.state.Courses[i+1:]...)
			return s.persist(ctx)
		}
	}
	return nil
}

func mergeCourse(dst *models.Course, in models.Course) {
	if in.Name != "" {
		dst.Name = in.Name
	}
	if in.Department != "" {
		dst.Department = in.Department
	}
	if in.Duration != "" {
		dst.Duration = in.Duration
	}
	if in.Credits != 0 {
		dst.Credits = in.Credits
	}
}

// --- attendance ---

func (s *Store) ListAttendance(role models.UserRole) ([]models.AttendanceRecord, error) {
	if err := gateView(role, models.ModuleAttendance); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AttendanceRecord, len(s.state.Attendance))
	copy(out, s.state.Attendance)
	return out, nil
}

// UpsertAttendance merges by record id. New records snapshot the student's
// current name when the weak studentId reference resolves; the snapshot is
// deliberately never resynced afterwards.
func (s *Store) UpsertAttendance(ctx context.Context, role models.UserRole, in models.AttendanceRecord) (models.AttendanceRecord, error) {
	if err := gateMutate(role, models.ModuleAttendance); err != nil {
		return models.AttendanceRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if in.ID != 0 {
		for i := range s.state.Attendance {
			if s.state.Attendance[i].ID == in.ID {
				mergeAttendance(&s.state.Attendance[i], in)
				if err := s.persist(ctx); err != nil {
					return models.AttendanceRecord{}, err
				}
				return s.state.Attendance[i], nil
			}
		}
	}

	in.ID = nextID(&s.nextAttendanceID)
	if in.StudentName == "" {
		in.StudentName = s.studentNameLocked(in.StudentID)
	}
	if in.Time == "" {
		in.Time = time.Now().Format("2006-01-02 15:04")
	}
	s.state.Attendance = append(s.state.Attendance, in)
	if err := s.persist(ctx); err != nil {
		return models.AttendanceRecord{}, err
	}
	return in, nil
}

func (s *Store) RemoveAttendance(ctx context.Context, role models.UserRole, id int64) error {
	if err := gateMutate(role, models.ModuleAttendance); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.state.Attendance {
		if r.ID == id {
			s.state.Attendance = append(s.state.Attendance[:i], s.state.Attendance[i+1:]...)
			return s.persist(ctx)
		}
	}
	return nil
}

func mergeAttendance(dst *models.AttendanceRecord, in models.AttendanceRecord) {
	if in.StudentID != 0 {
		dst.StudentID = in.StudentID
	}
	if in.StudentName != "" {
		dst.StudentName = in.StudentName
	}
	if in.Status != "" {
		dst.Status = in.Status
	}
	if in.Time != "" {
		dst.Time = in.Time
	}
}

// --- fees ---

func (s *Store) ListFees(role models.UserRole) ([]models.FeeRecord, error) {
	if err := gateView(role, models.ModuleFees); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.FeeRecord, len(s.state.Fees))
	copy(out, s.state.Fees)
	return out, nil
}

func (s *Store) UpsertFee(ctx context.Context, role models.UserRole, in models.FeeRecord) (models.FeeRecord, error) {
	if err := gateMutate(role, models.ModuleFees); err != nil {
		return models.FeeRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if in.ID != 0 {
		for i := range s.state.Fees {
			if s.state.Fees[i].ID == in.ID {
				mergeFee(&s.state.Fees[i], in)
				if err := s.persist(ctx); err != nil {
					return models.FeeRecord{}, err
				}
				return s.state.Fees[i], nil
			}
		}
	}

	in.ID = nextID(&s.nextFeeID)
	if in.StudentName == "" {
		in.StudentName = s.studentNameLocked(in.StudentID)
	}
	if in.Status == "" {
		in.Status = models.FeePending
	}
	s.state.Fees = append(s.state.Fees, in)
	if err := s.persist(ctx); err != nil {
		return models.FeeRecord{}, err
	}
	return in, nil
}

func (s *Store) RemoveFee(ctx context.Context, role models.UserRole, id int64) error {
	if err := gateMutate(role, models.ModuleFees); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.state.Fees {
		if r.ID == id {
			s.state.Fees = append(s.state.Fees[:i], s.state.Fees[i+1:]...)
			return s.persist(ctx)
		}
	}
	return nil
}

func mergeFee(dst *models.FeeRecord, in models.FeeRecord) {
	if in.StudentID != 0 {
		dst.StudentID = in.StudentID
	}
	if in.StudentName != "" {
		dst.StudentName = in.StudentName
	}
	if in.Amount != 0 {
		dst.Amount = in.Amount
	}
	if in.DueDate != "" {
		dst.DueDate = in.DueDate
	}
	if in.Status != "" {
		dst.Status = in.Status
	}
	if in.FeeType != "" {
		dst.FeeType = in.FeeType
	}
}

// --- examinations ---

func (s *Store) ListExaminations(role models.UserRole) ([]models.Examination, error) {
	if err := gateView(role, models.ModuleExaminations); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Examination, len(s.state.Examinations))
	copy(out, s.state.Examinations)
	return out, nil
}

func (s *Store) UpsertExamination(ctx context.Context, role models.UserRole, in models.Examination) (models.Examination, error) {
	if err := gateMutate(role, models.ModuleExaminations); err != nil {
		return models.Examination{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if in.ID != 0 {
		for i := range s.state.Examinations {
			if s.state.Examinations[i].ID == in.ID {
				mergeExamination(&s.state.Examinations[i], in)
				if err := s.persist(ctx); err != nil {
					return models.Examination{}, err
				}
				return s.state.Examinations[i], nil
			}
		}
	}

	in.ID = nextID(&s.nextExamID)
	s.state.Examinations = append(s.state.Examinations, in)
	if err := s.persist(ctx); err != nil {
		return models.Examination{}, err
	}
	return in, nil
}

func (s *Store) RemoveExamination(ctx context.Context, role models.UserRole, id int64) error {
	if err := gateMutate(role, models.ModuleExaminations); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.state.Examinations {
		if r.ID == id {
			s.state.Examinations = append(s.state.Examinations[:i], s.state.Examinations[i+1:]...)
			return s.persist(ctx)
		}
	}
	return nil
}

func mergeExamination(dst *models.Examination, in models.Examination) {
	if in.Subject != "" {
		dst.Subject = in.Subject
	}
	if in.Date != "" {
		dst.Date = in.Date
	}
	if in.Time != "" {
		dst.Time = in.Time
	}
	if in.Duration != 0 {
		dst.Duration = in.Duration
	}
	if in.Room != "" {
		dst.Room = in.Room
	}
}

// --- books (content library) ---

func (s *Store) ListBooks(role models.UserRole) ([]models.Book, error) {
	if err := gateView(role, models.ModuleContentLibrary); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Book, len(s.state.Books))
	copy(out, s.state.Books)
	return out, nil
}

func (s *Store) UpsertBook(ctx context.Context, role models.UserRole, in models.Book) (models.Book, error) {
	if err := gateMutate(role, models.ModuleContentLibrary); err != nil {
		return models.Book{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if in.ID != 0 {
		for i := range s.state.Books {
			if s.state.Books[i].ID == in.ID {
				mergeBook(&s.state.Books[i], in)
				if err := s.persist(ctx); err != nil {
					return models.Book{}, err
				}
				return s.state.Books[i], nil
			}
		}
	}

	in.ID = nextID(&s.nextBookID)
	if in.Status == "" {
		in.Status = "available"
	}
	s.state.Books = append(s.state.Books, in)
	if err := s.persist(ctx); err != nil {
		return models.Book{}, err
	}
	return in, nil
}

func (s *Store) RemoveBook(ctx context.Context, role models.UserRole, id int64) error {
	if err := gateMutate(role, models.ModuleContentLibrary); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.state.Books {
		if r.ID == id {
			s.state.Books = append(s.state.Books[:i], s.state.Books[i+1:]...)
			return s.persist(ctx)
		}
	}
	return nil
}

func mergeBook(dst *models.Book, in models.Book) {
	if in.Title != "" {
		dst.Title = in.Title
	}
	if in.Author != "" {
		dst.Author = in.Author
	}
	if in.ISBN != "" {
		dst.ISBN = in.ISBN
	}
	if in.Status != "" {
		dst.Status = in.Status
	}
}

// --- settings ---

// Settings is readable by every valid role; the school name appears on the
// dashboard for everyone.
func (s *Store) Settings(role models.UserRole) (models.Settings, error) {
	if !role.Valid() {
		return models.Settings{}, errors.ErrInvalidRole
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Settings, nil
}

// SaveSettings is admin-only.
func (s *Store) SaveSettings(ctx context.Context, role models.UserRole, settings models.Settings) error {
	if !role.Valid() {
		return errors.ErrInvalidRole
	}
	if role != models.RoleAdmin {
		return errors.ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Settings = settings
	return s.persist(ctx)
}

// --- bundle operations ---

// Snapshot returns a full copy of every collection plus settings for backup
// export. Admin-only.
func (s *Store) Snapshot(role models.UserRole) (*models.Backup, error) {
	if !role.Valid() {
		return nil, errors.ErrInvalidRole
	}
	if role != models.RoleAdmin {
		return nil, errors.ErrForbidden
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := s.state.Settings
	b := &models.Backup{
		Students:     append([]models.Student{}, s.state.Students...),
		Teachers:     append([]models.Teacher{}, s.state.Teachers...),
		Courses:      append([]models.Course{}, s.state.Courses...),
		Attendance:   append([]models.AttendanceRecord{}, s.state.Attendance...),
		Fees:         append([]models.FeeRecord{}, s.state.Fees...),
		Examinations: append([]models.Examination{}, s.state.Examinations...),
		Books:        append([]models.Book{}, s.state.Books...),
		Settings:     &settings,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
	return b, nil
}

// Replace applies a backup bundle wholesale: every collection is replaced,
// and a collection absent from the bundle becomes empty. Settings are only
// replaced when the bundle carries them. Admin-only. The session record is
// untouched.
func (s *Store) Replace(ctx context.Context, role models.UserRole, b *models.Backup) error {
	if !role.Valid() {
		return errors.ErrInvalidRole
	}
	if role != models.RoleAdmin {
		return errors.ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Students = orEmpty(b.Students)
	s.state.Teachers = orEmpty(b.Teachers)
	s.state.Courses = orEmpty(b.Courses)
	s.state.Attendance = orEmpty(b.Attendance)
	s.state.Fees = orEmpty(b.Fees)
	s.state.Examinations = orEmpty(b.Examinations)
	s.state.Books = orEmpty(b.Books)
	if b.Settings != nil {
		s.state.Settings = *b.Settings
	}
	s.resetCounters()
	return s.persist(ctx)
}

// FactoryReset erases every persisted document, the session record included,
// and resets in-memory state to empty collections with factory settings.
// Admin-only. The baseline records are re-seeded on the next Open.
func (s *Store) FactoryReset(ctx context.Context, role models.UserRole) error {
	if !role.Valid() {
		return errors.ErrInvalidRole
	}
	if role != models.RoleAdmin {
		return errors.ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gw.Wipe(ctx); err != nil {
		return errors.Wrap(err, errors.ErrInternal.Code, errors.ErrInternal.Status, "wipe storage")
	}
	s.state = &AppState{
		Students:     []models.Student{},
		Teachers:     []models.Teacher{},
		Courses:      []models.Course{},
		Attendance:   []models.AttendanceRecord{},
		Fees:         []models.FeeRecord{},
		Examinations: []models.Examination{},
		Books:        []models.Book{},
		Settings:     models.DefaultSettings(),
	}
	s.resetCounters()
	s.log.Info("factory reset complete")
	return nil
}

// StudentNameByID resolves a student's live display name. It is not role
// gated: attendance and fee views show a name to roles that cannot open the
// student roster itself.
func (s *Store) StudentNameByID(id int64) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.state.Students {
		if r.ID == id {
			return r.Name, true
		}
	}
	return "", false
}

// studentNameLocked resolves a student's current name for denormalized
// snapshots. Caller must hold the lock. Unresolvable references yield an
// empty name; the weak reference itself is kept as given.
func (s *Store) studentNameLocked(id int64) string {
	for _, r := range s.state.Students {
		if r.ID == id {
			return r.Name
		}
	}
	return ""
}

func orEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
