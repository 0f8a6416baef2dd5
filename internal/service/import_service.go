package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sekolahku/pelajar-gateway/internal/importer"
	"github.com/sekolahku/pelajar-gateway/internal/model"
	"github.com/sekolahku/pelajar-gateway/internal/response"
	"github.com/sekolahku/pelajar-gateway/internal/schoolapi"
	"github.com/sekolahku/pelajar-gateway/internal/session"
)

// Common import errors.
var ErrNoValidRows = errors.New("no valid rows")

// SchoolAPI is the upstream surface the import workflow depends on.
type SchoolAPI interface {
	FetchValidationData(ctx context.Context, token string) (*model.ReferenceData, error)
	SubmitStudents(ctx context.Context, token string, students []model.StudentPayload) (*model.ImportResult, error)
}

// ImportService drives the spreadsheet import workflow: session
// creation, file parsing and validation, row review, and submission to
// the school API.
type ImportService struct {
	store *session.Store
	api   SchoolAPI
	log   zerolog.Logger
}

// NewImportService creates a new ImportService.
func NewImportService(store *session.Store, api SchoolAPI, log zerolog.Logger) *ImportService {
	return &ImportService{
		store: store,
		api:   api,
		log:   log.With().Str("component", "import_service").Logger(),
	}
}

// CreateSession opens a new import session. The reference snapshot is
// fetched up front; when the upstream is unavailable the session is
// still created, degraded, and rows skip the reference cross-checks.
func (s *ImportService) CreateSession(ctx context.Context, token string) (session.Session, error) {
	if err := schoolapi.CheckTokenExpiry(token, time.Now()); err != nil {
		return session.Session{}, err
	}

	ref, err := s.api.FetchValidationData(ctx, token)
	refErr := ""
	if err != nil {
		refErr = err.Error()
		s.log.Warn().
			Err(err).
			Msg("Reference data unavailable, creating degraded session")
	}

	sess := s.store.Create(ref, refErr)

	s.log.Info().
		Str("session_id", sess.ID).
		Bool("reference_loaded", ref != nil).
		Time("expires_at", sess.ExpiresAt).
		Msg("Import session created")

	return sess, nil
}

// LoadFile parses an uploaded spreadsheet into the session, replacing
// any previously loaded rows, and validates every row against the
// session's reference snapshot.
func (s *ImportService) LoadFile(id, filename string, data []byte) (session.Session, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return session.Session{}, err
	}

	rows, err := importer.ParseFile(filename, data)
	if err != nil {
		return session.Session{}, err
	}

	importer.Validate(rows, sess.Reference)

	sess, err = s.store.SetRows(id, rows)
	if err != nil {
		return session.Session{}, err
	}

	s.log.Info().
		Str("session_id", id).
		Str("filename", filename).
		Int("rows", len(sess.Rows)).
		Int("valid", sess.ValidCount()).
		Msg("File loaded into session")

	return sess, nil
}

// GetSession returns the current state of a session.
func (s *ImportService) GetSession(id string) (session.Session, error) {
	return s.store.Get(id)
}

// DeleteSession discards a session and its rows.
func (s *ImportService) DeleteSession(id string) error {
	return s.store.Delete(id)
}

// RemoveRow drops one row from the session by its sheet row number.
func (s *ImportService) RemoveRow(id string, rowNumber int) (session.Session, error) {
	return s.store.RemoveRow(id, rowNumber)
}

// RemoveRows drops every listed row number from the session and reports
// how many rows were removed.
func (s *ImportService) RemoveRows(id string, rowNumbers []int) (session.Session, int, error) {
	return s.store.RemoveRows(id, rowNumbers)
}

// ListRows returns one page of the session's rows.
func (s *ImportService) ListRows(id string, page, perPage int) ([]model.ImportRow, *response.Pagination, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, nil, err
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	total := len(sess.Rows)
	totalPages := (total + perPage - 1) / perPage

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	rows := make([]model.ImportRow, end-start)
	copy(rows, sess.Rows[start:end])

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}

	return rows, pagination, nil
}

// Submit sends the session's valid rows to the school API. Invalid rows
// are left behind; the upstream summary is recorded on the session. On
// failure the rows survive untouched so the submission can be retried.
func (s *ImportService) Submit(ctx context.Context, id, token string) (*model.ImportResult, error) {
	if err := schoolapi.CheckTokenExpiry(token, time.Now()); err != nil {
		return nil, err
	}

	rows, err := s.store.BeginSubmit(id)
	if err != nil {
		return nil, err
	}

	students := make([]model.StudentPayload, 0, len(rows))
	for _, row := range rows {
		if row.IsValid {
			students = append(students, toPayload(row))
		}
	}

	if len(students) == 0 {
		s.store.EndSubmit(id, nil)
		return nil, ErrNoValidRows
	}

	result, err := s.api.SubmitStudents(ctx, token, students)
	if err != nil {
		s.store.EndSubmit(id, nil)
		return nil, err
	}

	s.store.EndSubmit(id, result)

	s.log.Info().
		Str("session_id", id).
		Int("submitted", len(students)).
		Int("succeeded", result.SuccessCount).
		Int("failed", result.FailedCount).
		Msg("Import submitted")

	return result, nil
}

// toPayload maps a validated row to the school API wire shape. Only
// rows that passed validation reach this point, so gender is already
// canonical.
func toPayload(row model.ImportRow) model.StudentPayload {
	return model.StudentPayload{
		StudentCode:   row.StudentCode,
		FullName:      row.FullName,
		OtherName:     row.OtherName,
		DateOfBirth:   nullable(row.DateOfBirth),
		Gender:        model.Gender(row.Gender),
		AcademicYear:  row.AcademicYear,
		ClassName:     row.ClassName,
		Email:         row.Email,
		PhoneNumber:   row.PhoneNumber,
		ParentName:    row.ParentName,
		ParentContact: row.ParentContact,
		ParentEmail:   row.ParentEmail,
		Address:       row.Address,
	}
}

func nullable(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
