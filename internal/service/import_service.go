package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/eduerp-dev/eduerp-api/internal/models"
	appErrors "github.com/eduerp-dev/eduerp-api/pkg/errors"
	"github.com/eduerp-dev/eduerp-api/pkg/export"
)

type importStore interface {
	UpsertStudent(ctx context.Context, role models.UserRole, in models.Student) (models.Student, error)
	UpsertTeacher(ctx context.Context, role models.UserRole, in models.Teacher) (models.Teacher, error)
	ListStudents(role models.UserRole) ([]models.Student, error)
	ListTeachers(role models.UserRole) ([]models.Teacher, error)
}

// ImportResult aggregates a bulk import run. Bad rows never abort the run;
// they are counted and the rest proceeds.
type ImportResult struct {
	Imported int      `json:"imported"`
	Errors   int      `json:"errors"`
	Details  []string `json:"details,omitempty"`
}

// ImportService ingests delimited user tables. The header row must name at
// least name, email, and type (student|teacher); role-specific columns
// (course/year or department/subject/experience) are optional.
type ImportService struct {
	store  importStore
	logger *zap.Logger
}

// NewImportService constructs the import service.
func NewImportService(store importStore, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{store: store, logger: logger}
}

// ImportUsers parses CSV from r and upserts each well-formed row under the
// caller's role. Rows missing a required column, naming an unknown type, or
// refused by the store's role gate count as errors.
func (s *ImportService) ImportUsers(ctx context.Context, role models.UserRole, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "missing or unreadable header row")
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"name", "email", "type"} {
		if _, ok := columns[required]; !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("header is missing required column %q", required))
		}
	}

	result := &ImportResult{}
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Errors++
			result.Details = append(result.Details, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		if rowErr := s.importRow(ctx, role, columns, row); rowErr != nil {
			result.Errors++
			result.Details = append(result.Details, fmt.Sprintf("line %d: %v", line, rowErr))
			continue
		}
		result.Imported++
	}

	s.logger.Info("bulk import finished",
		zap.String("role", string(role)),
		zap.Int("imported", result.Imported),
		zap.Int("errors", result.Errors),
	)
	return result, nil
}

// ExportUsers renders both rosters as one CSV in the import column layout,
// so an exported file can be imported back unchanged.
func (s *ImportService) ExportUsers(role models.UserRole) ([]byte, error) {
	students, err := s.store.ListStudents(role)
	if err != nil {
		return nil, err
	}
	teachers, err := s.store.ListTeachers(role)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"name", "email", "type", "course", "year", "department", "subject", "experience"},
	}
	for _, st := range students {
		data.Rows = append(data.Rows, map[string]string{
			"name":   st.Name,
			"email":  st.Email,
			"type":   "student",
			"course": st.Course,
			"year":   st.Year,
		})
	}
	for _, te := range teachers {
		data.Rows = append(data.Rows, map[string]string{
			"name":       te.Name,
			"email":      te.Email,
			"type":       "teacher",
			"department": te.Department,
			"subject":    te.Subject,
			"experience": strconv.Itoa(te.Experience),
		})
	}

	return export.NewCSVExporter().Render(data)
}

func (s *ImportService) importRow(ctx context.Context, role models.UserRole, columns map[string]int, row []string) error {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	name := field("name")
	email := field("email")
	kind := strings.ToLower(field("type"))
	if name == "" || email == "" || kind == "" {
		return fmt.Errorf("missing required field")
	}

	switch kind {
	case "student":
		_, err := s.store.UpsertStudent(ctx, role, models.Student{
			Name:   name,
			Email:  email,
			Course: field("course"),
			Year:   field("year"),
		})
		return err
	case "teacher":
		experience := 0
		if raw := field("experience"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil {
				experience = parsed
			}
		}
		_, err := s.store.UpsertTeacher(ctx, role, models.Teacher{
			Name:       name,
			Email:      email,
			Department: field("department"),
			Subject:    field("subject"),
			Experience: experience,
		})
		return err
	default:
		return fmt.Errorf("unknown user type %q", kind)
	}
}
