// Package state owns all application data: a persistence gateway over the
// kv document store and an in-process store that serves role-gated reads
// and writes over the loaded collections.
package state

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/eduerp-dev/eduerp-api/internal/kv"
	"github.com/eduerp-dev/eduerp-api/internal/models"
)

// Storage keys. The names predate this service and must not change: existing
// deployments carry documents under them.
const (
	KeySession      = "erp_user_data"
	KeyStudents     = "erp_students"
	KeyTeachers     = "erp_teachers"
	KeyCourses      = "erp_courses"
	KeyAttendance   = "erp_attendance"
	KeyFees         = "erp_fees"
	KeyExaminations = "erp_examinations"
	KeyBooks        = "erp_books"
	KeySettings     = "erp_admin_settings"
)

// AllKeys lists every storage key the service owns.
var AllKeys = []string{
	KeySession,
	KeyStudents,
	KeyTeachers,
	KeyCourses,
	KeyAttendance,
	KeyFees,
	KeyExaminations,
	KeyBooks,
	KeySettings,
}

// AppState is the complete set of collections held in memory.
type AppState struct {
	Students     []models.Student
	Teachers     []models.Teacher
	Courses      []models.Course
	Attendance   []models.AttendanceRecord
	Fees         []models.FeeRecord
	Examinations []models.Examination
	Books        []models.Book
	Settings     models.Settings
}

// LoadReport records storage keys whose documents failed to decode during a
// load. Corrupt collections are replaced with empty ones, but the damage is
// surfaced rather than swallowed.
type LoadReport struct {
	CorruptKeys []string
}

// Corrupt reports whether any document failed to decode.
func (r *LoadReport) Corrupt() bool {
	return len(r.CorruptKeys) > 0
}

// Gateway moves whole collections between memory and the kv store. Each
// collection is one JSON document under one key.
type Gateway struct {
	store kv.Store
	log   *zap.Logger
}

// NewGateway wires a gateway over a kv backend.
func NewGateway(store kv.Store, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{store: store, log: log}
}

// loadInto reads one document into dst. A missing key leaves dst untouched
// and returns (false, nil); a corrupt document leaves dst untouched and
// returns (true, nil). Storage failures propagate.
func (g *Gateway) loadInto(ctx context.Context, key string, dst any) (corrupt bool, err error) {
	raw, err := g.store.Get(ctx, key)
	if err != nil {
		if err == kv.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		g.log.Warn("corrupt document in storage",
			zap.String("key", key),
			zap.Error(err),
		)
		return true, nil
	}
	return false, nil
}

// save serializes one value under one key.
func (g *Gateway) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return g.store.Set(ctx, key, raw)
}

// LoadAll reads every collection plus settings. Missing documents become
// empty collections; corrupt documents become empty collections AND are
// listed in the returned report. Settings fall back to factory defaults
// when missing or corrupt.
func (g *Gateway) LoadAll(ctx context.Context) (*AppState, *LoadReport, error) {
	state := &AppState{
		Students:     []models.Student{},
		Teachers:     []models.Teacher{},
		Courses:      []models.Course{},
		Attendance:   []models.AttendanceRecord{},
		Fees:         []models.FeeRecord{},
		Examinations: []models.Examination{},
		Books:        []models.Book{},
		Settings:     models.DefaultSettings(),
	}
	report := &LoadReport{}

	targets := []struct {
		key string
		dst any
	}{
		{KeyStudents, &state.Students},
		{KeyTeachers, &state.Teachers},
		{KeyCourses, &state.Courses},
		{KeyAttendance, &state.Attendance},
		{KeyFees, &state.Fees},
		{KeyExaminations, &state.Examinations},
		{KeyBooks, &state.Books},
		{KeySettings, &state.Settings},
	}
	for _, t := range targets {
		corrupt, err := g.loadInto(ctx, t.key, t.dst)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", t.key, err)
		}
		if corrupt {
			report.CorruptKeys = append(report.CorruptKeys, t.key)
		}
	}
	return state, report, nil
}

// SaveAll writes every collection plus settings back unconditionally. The
// document count is tiny, so whole-state writes stay cheap and keep the
// storage layout trivially consistent.
func (g *Gateway) SaveAll(ctx context.Context, state *AppState) error {
	writes := []struct {
		key string
		v   any
	}{
		{KeyStudents, state.Students},
		{KeyTeachers, state.Teachers},
		{KeyCourses, state.Courses},
		{KeyAttendance, state.Attendance},
		{KeyFees, state.Fees},
		{KeyExaminations, state.Examinations},
		{KeyBooks, state.Books},
		{KeySettings, state.Settings},
	}
	for _, w := range writes {
		if err := g.save(ctx, w.key, w.v); err != nil {
			return fmt.Errorf("save %s: %w", w.key, err)
		}
	}
	return nil
}

// SeedDefaults fills any collection that is currently empty with the fixed
// baseline records, then persists everything. Collections with data are left
// alone, so the call is idempotent.
func (g *Gateway) SeedDefaults(ctx context.Context, state *AppState) error {
	seeded := false

	if len(state.Students) == 0 {
		state.Students = seedStudents()
		seeded = true
	}
	if len(state.Teachers) == 0 {
		state.Teachers = seedTeachers()
		seeded = true
	}
	if len(state.Courses) == 0 {
		state.Courses = seedCourses()
		seeded = true
	}
	if len(state.Fees) == 0 {
		state.Fees = seedFees()
		seeded = true
	}
	if len(state.Books) == 0 {
		state.Books = seedBooks()
		seeded = true
	}

	if !seeded {
		return nil
	}
	return g.SaveAll(ctx, state)
}

// Wipe deletes every storage key, session included.
func (g *Gateway) Wipe(ctx context.Context) error {
	for _, key := range AllKeys {
		if err := g.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("wipe %s: %w", key, err)
		}
	}
	return nil
}

// LoadSession reads the persisted session record. A missing record returns
// (nil, false, nil). A corrupt record is deleted and reported as absent:
// a session that cannot be parsed must not keep anyone logged in.
func (g *Gateway) LoadSession(ctx context.Context) (*models.UserSession, bool, error) {
	raw, err := g.store.Get(ctx, KeySession)
	if err != nil {
		if err == kv.ErrNotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load session: %w", err)
	}

	var session models.UserSession
	if err := json.Unmarshal(raw, &session); err != nil {
		g.log.Warn("corrupt session record, discarding", zap.Error(err))
		if delErr := g.store.Delete(ctx, KeySession); delErr != nil {
			return nil, false, fmt.Errorf("discard corrupt session: %w", delErr)
		}
		return nil, false, nil
	}
	return &session, true, nil
}

// SaveSession persists the session record.
func (g *Gateway) SaveSession(ctx context.Context, session *models.UserSession) error {
	return g.save(ctx, KeySession, session)
}

// DeleteSession removes the session record only; collections stay intact.
func (g *Gateway) DeleteSession(ctx context.Context) error {
	return g.store.Delete(ctx, KeySession)
}

func seedStudents() []models.Student {
	return []models.Student{
		{
			ID:             1,
			Name:           "John Doe",
			Email:          "john.doe@email.com",
			Course:         "Computer Science",
			Year:           "3",
			Status:         models.StatusActive,
			EnrollmentDate: "2022-09-01",
		},
		{
			ID:             2,
			Name:           "Jane Smith",
			Email:          "jane.smith@email.com",
			Course:         "Mathematics",
			Year:           "2",
			Status:         models.StatusActive,
			EnrollmentDate: "2023-09-01",
		},
		{
			ID:             3,
			Name:           "Mike Johnson",
			Email:          "mike.johnson@email.com",
			Course:         "Physics",
			Year:           "4",
			Status:         models.StatusActive,
			EnrollmentDate: "2021-09-01",
		},
	}
}

func seedTeachers() []models.Teacher {
	return []models.Teacher{
		{
			ID:         1,
			Name:       "Dr. Sarah Wilson",
			Email:      "sarah.wilson@school.edu",
			Department: "Computer Science",
			Subject:    "Data Structures",
			Experience: 10,
		},
		{
			ID:         2,
			Name:       "Prof. David Brown",
			Email:      "david.brown@school.edu",
			Department: "Mathematics",
			Subject:    "Calculus",
			Experience: 15,
		},
	}
}

func seedCourses() []models.Course {
	return []models.Course{
		{
			Code:       "CS101",
			Name:       "Introduction to Programming",
			Department: "Computer Science",
			Duration:   "1 year",
			Credits:    4,
		},
		{
			Code:       "MATH201",
			Name:       "Calculus I",
			Department: "Mathematics",
			Duration:   "1 semester",
			Credits:    3,
		},
	}
}

func seedFees() []models.FeeRecord {
	return []models.FeeRecord{
		{
			ID:          1,
			StudentID:   1,
			StudentName: "John Doe",
			Amount:      1500,
			DueDate:     "2024-01-15",
			Status:      models.FeePaid,
		},
		{
			ID:          2,
			StudentID:   2,
			StudentName: "Jane Smith",
			Amount:      1500,
			DueDate:     "2024-01-15",
			Status:      models.FeePending,
		},
	}
}

func seedBooks() []models.Book {
	return []models.Book{
		{
			ID:     1,
			Title:  "Introduction to Algorithms",
			Author: "Thomas H. Cormen",
			ISBN:   "978-0262033848",
			Status: "available",
		},
		{
			ID:     2,
			Title:  "Calculus: Early Transcendentals",
			Author: "James Stewart",
			ISBN:   "978-1285741550",
			Status: "borrowed",
		},
	}
}
