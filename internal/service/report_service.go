package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduerp-dev/eduerp-api/internal/models"
	"github.com/eduerp-dev/eduerp-api/internal/policy"
	appErrors "github.com/eduerp-dev/eduerp-api/pkg/errors"
	"github.com/eduerp-dev/eduerp-api/pkg/export"
	"github.com/eduerp-dev/eduerp-api/pkg/jobs"
	"github.com/eduerp-dev/eduerp-api/pkg/storage"
)

type reportStore interface {
	ListStudents(role models.UserRole) ([]models.Student, error)
	ListTeachers(role models.UserRole) ([]models.Teacher, error)
	ListCourses(role models.UserRole) ([]models.Course, error)
	ListAttendance(role models.UserRole) ([]models.AttendanceRecord, error)
	ListFees(role models.UserRole) ([]models.FeeRecord, error)
	ListExaminations(role models.UserRole) ([]models.Examination, error)
}

// GenerateReportRequest names the collection to render and the output format.
type GenerateReportRequest struct {
	Collection string `json:"collection" validate:"required,oneof=students teachers courses attendance fees examinations"`
	Format     string `json:"format" validate:"required,oneof=csv pdf"`
}

// ReportService renders collection reports to CSV or PDF through the
// background queue. Access follows the reports module policy: admins render
// anything, teachers (limited access) only the student roster, everyone
// else is refused.
type ReportService struct {
	store     reportStore
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	files     *storage.LocalStorage
	signer    *storage.SignedURLSigner
	tracker   *ArtifactTracker
	queue     *jobs.Queue
	validator *validator.Validate
	logger    *zap.Logger
}

type reportJobPayload struct {
	ArtifactID string
	Title      string
	Format     string
	Dataset    export.Dataset
}

// NewReportService constructs the report service and its own job queue.
func NewReportService(store reportStore, files *storage.LocalStorage, signer *storage.SignedURLSigner, tracker *ArtifactTracker, queueCfg jobs.QueueConfig, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ReportService{
		store:     store,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		files:     files,
		signer:    signer,
		tracker:   tracker,
		validator: validate,
		logger:    logger,
	}
	s.queue = jobs.NewQueue("reports", s.handleJob, queueCfg)
	return s
}

// Start launches the report workers.
func (s *ReportService) Start(ctx context.Context) { s.queue.Start(ctx) }

// Stop drains the report workers.
func (s *ReportService) Stop() { s.queue.Stop() }

// Generate builds the dataset now, under the caller's role, and queues the
// render.
func (s *ReportService) Generate(role models.UserRole, req GenerateReportRequest) (*Artifact, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report request")
	}
	if err := s.authorize(role, req.Collection); err != nil {
		return nil, err
	}

	dataset, title, err := s.buildDataset(role, req.Collection)
	if err != nil {
		return nil, err
	}

	artifact := s.tracker.Create("report")
	err = s.queue.Enqueue(jobs.Job{
		ID:   artifact.ID,
		Type: "report.render",
		Payload: reportJobPayload{
			ArtifactID: artifact.ID,
			Title:      title,
			Format:     req.Format,
			Dataset:    dataset,
		},
	})
	if err != nil {
		s.tracker.Fail(artifact.ID, "queue unavailable")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue report")
	}
	return artifact, nil
}

// Status reports a render job for roles that can reach the reports module.
func (s *ReportService) Status(role models.UserRole, id string) (*Artifact, error) {
	if !role.Valid() {
		return nil, appErrors.ErrInvalidRole
	}
	if !policy.CanView(role, models.ModuleReports) {
		return nil, appErrors.ErrModuleHidden
	}
	artifact, ok := s.tracker.Get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
	}
	return artifact, nil
}

// Download validates a signed token and returns the rendered bytes.
func (s *ReportService) Download(token string) ([]byte, string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}
	data, err := s.files.Read(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "report artifact not found")
	}
	return data, relPath, nil
}

func (s *ReportService) authorize(role models.UserRole, collection string) error {
	if !role.Valid() {
		return appErrors.ErrInvalidRole
	}
	switch policy.Access(role, models.ModuleReports) {
	case models.AccessFull:
		return nil
	case models.AccessLimited:
		if collection == "students" {
			return nil
		}
		return appErrors.Clone(appErrors.ErrForbidden, "only the student roster report is available for this role")
	default:
		return appErrors.ErrModuleHidden
	}
}

func (s *ReportService) buildDataset(role models.UserRole, collection string) (export.Dataset, string, error) {
	switch collection {
	case "students":
		students, err := s.store.ListStudents(role)
		if err != nil {
			return export.Dataset{}, "", err
		}
		ds := export.Dataset{Headers: []string{"ID", "Name", "Email", "Course", "Year", "Status", "Enrolled"}}
		for _, r := range students {
			ds.Rows = append(ds.Rows, map[string]string{
				"ID": strconv.FormatInt(r.ID, 10), "Name": r.Name, "Email": r.Email,
				"Course": r.Course, "Year": r.Year, "Status": r.Status, "Enrolled": r.EnrollmentDate,
			})
		}
		return ds, "Student Roster", nil
	case "teachers":
		teachers, err := s.store.ListTeachers(role)
		if err != nil {
			return export.Dataset{}, "", err
		}
		ds := export.Dataset{Headers: []string{"ID", "Name", "Email", "Department", "Subject", "Experience"}}
		for _, r := range teachers {
			ds.Rows = append(ds.Rows, map[string]string{
				"ID": strconv.FormatInt(r.ID, 10), "Name": r.Name, "Email": r.Email,
				"Department": r.Department, "Subject": r.Subject, "Experience": strconv.Itoa(r.Experience),
			})
		}
		return ds, "Teaching Staff", nil
	case "courses":
		courses, err := s.store.ListCourses(role)
		if err != nil {
			return export.Dataset{}, "", err
		}
		ds := export.Dataset{Headers: []string{"Code", "Name", "Department", "Duration", "Credits"}}
		for _, r := range courses {
			ds.Rows = append(ds.Rows, map[string]string{
				"Code": r.Code, "Name": r.Name, "Department": r.Department,
				"Duration": r.Duration, "Credits": strconv.Itoa(r.Credits),
			})
		}
		return ds, "Course Catalogue", nil
	case "attendance":
		records, err := s.store.ListAttendance(role)
		if err != nil {
			return export.Dataset{}, "", err
		}
		ds := export.Dataset{Headers: []string{"ID", "Student ID", "Student", "Status", "Time"}}
		for _, r := range records {
			ds.Rows = append(ds.Rows, map[string]string{
				"ID": strconv.FormatInt(r.ID, 10), "Student ID": strconv.FormatInt(r.StudentID, 10),
				"Student": r.StudentName, "Status": r.Status, "Time": r.Time,
			})
		}
		return ds, "Attendance Log", nil
	case "fees":
		fees, err := s.store.ListFees(role)
		if err != nil {
			return export.Dataset{}, "", err
		}
		ds := export.Dataset{Headers: []string{"ID", "Student", "Amount", "Due", "Status", "Type"}}
		for _, r := range fees {
			ds.Rows = append(ds.Rows, map[string]string{
				"ID": strconv.FormatInt(r.ID, 10), "Student": r.StudentName,
				"Amount": strconv.FormatFloat(r.Amount, 'f', 2, 64), "Due": r.DueDate,
				"Status": r.Status, "Type": r.FeeType,
			})
		}
		return ds, "Fee Book", nil
	case "examinations":
		exams, err := s.store.ListExaminations(role)
		if err != nil {
			return export.Dataset{}, "", err
		}
		ds := export.Dataset{Headers: []string{"ID", "Subject", "Date", "Time", "Duration", "Room"}}
		for _, r := range exams {
			ds.Rows = append(ds.Rows, map[string]string{
				"ID": strconv.FormatInt(r.ID, 10), "Subject": r.Subject, "Date": r.Date,
				"Time": r.Time, "Duration": strconv.Itoa(r.Duration), "Room": r.Room,
			})
		}
		return ds, "Examination Schedule", nil
	default:
		return export.Dataset{}, "", appErrors.Clone(appErrors.ErrValidation, "unknown report collection")
	}
}

func (s *ReportService) handleJob(_ context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(reportJobPayload)
	if !ok {
		s.tracker.Fail(job.ID, "malformed job payload")
		return nil
	}

	var (
		data []byte
		err  error
	)
	switch payload.Format {
	case "pdf":
		data, err = s.pdf.Render(payload.Dataset, payload.Title)
	default:
		data, err = s.csv.Render(payload.Dataset)
	}
	if err != nil {
		s.tracker.Fail(payload.ArtifactID, "failed to render report")
		return err
	}

	fileName := fmt.Sprintf("report-%s.%s", payload.ArtifactID, payload.Format)
	if _, err := s.files.Save(fileName, data); err != nil {
		s.tracker.Fail(payload.ArtifactID, "failed to write report")
		return err
	}

	token, expiresAt, err := s.signer.Generate(payload.ArtifactID, fileName)
	if err != nil {
		s.tracker.Fail(payload.ArtifactID, "failed to sign download token")
		return nil
	}

	s.tracker.Complete(payload.ArtifactID, fileName, token, expiresAt)
	s.logger.Info("report ready",
		zap.String("artifact_id", payload.ArtifactID),
		zap.String("file", fileName),
	)
	return nil
}
