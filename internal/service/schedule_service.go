package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin-api/internal/dto"
	"github.com/noah-isme/academy-admin-api/internal/models"
	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
	"github.com/noah-isme/academy-admin-api/pkg/export"
)

// Grid bounds. Row 0 is 9 AM and the last row is 9 PM.
const (
	gridFirstHour = 9
	gridLastRow   = 12
)

var timeLabelPattern = regexp.MustCompile(`(?i)(\d+):\d{2}\s*(AM|PM)?`)

type sessionGridRepository interface {
	ListWeekGrid(ctx context.Context, q models.WeekQuery) ([]models.SessionGridRow, error)
}

// ScheduleService assembles the weekly session grid of a teacher.
type ScheduleService struct {
	sessions  sessionGridRepository
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService instantiates ScheduleService.
func NewScheduleService(sessions sessionGridRepository, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{sessions: sessions, metrics: metrics, validator: validate, logger: logger}
}

// GridRow maps the first time found in a slot label onto the 9 AM - 9 PM grid.
// Labels without a recognizable time land on row 0.
func GridRow(label string) int {
	match := timeLabelPattern.FindStringSubmatch(label)
	if match == nil {
		return 0
	}
	hour, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	// Only an explicit PM marker means afternoon; a bare 12 reads as midnight.
	if strings.EqualFold(match[2], "PM") {
		if hour != 12 {
			hour += 12
		}
	} else if hour == 12 {
		hour = 0
	}
	row := hour - gridFirstHour
	if row < 0 {
		return 0
	}
	if row > gridLastRow {
		return gridLastRow
	}
	return row
}

// AssembleSessions folds joined grid rows into one view per session,
// keeping the order in which sessions first appear.
func AssembleSessions(rows []models.SessionGridRow) []models.SessionView {
	views := make([]models.SessionView, 0)
	index := make(map[string]int)
	for _, row := range rows {
		pos, ok := index[row.SessionID]
		if !ok {
			pos = len(views)
			index[row.SessionID] = pos
			views = append(views, models.SessionView{
				ID:             row.SessionID,
				Time:           row.TimeSlot,
				Duration:       row.Duration,
				Specialization: row.Specialization,
				Type:           row.Type,
				Note:           row.Note,
				Day:            row.DayOfWeek,
				StartRow:       GridRow(row.TimeSlot),
				Students:       []models.SessionStudentView{},
			})
		}
		if row.StudentID == nil || *row.StudentID == "" {
			continue
		}
		student := models.SessionStudentView{
			ID:         *row.StudentID,
			Name:       derefString(row.StudentName),
			Attendance: row.AttendanceStatus,
			Note:       row.AttendanceNote,
		}
		if row.PendingRemoval != nil {
			student.PendingRemoval = *row.PendingRemoval
		}
		views[pos].Students = append(views[pos].Students, student)
	}
	return views
}

// Week returns the teacher's sessions for the week containing q.WeekStart.
func (s *ScheduleService) Week(ctx context.Context, claims *models.JWTClaims, q dto.SessionWeekQuery) ([]models.SessionView, error) {
	query, err := s.weekQuery(claims, q)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := s.sessions.ListWeekGrid(ctx, query)
	s.metrics.ObserveDBQuery("sessions_week_grid", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions")
	}
	return AssembleSessions(rows), nil
}

func (s *ScheduleService) weekQuery(claims *models.JWTClaims, q dto.SessionWeekQuery) (models.WeekQuery, error) {
	if err := s.validator.Struct(q); err != nil {
		return models.WeekQuery{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session query")
	}
	if claims.IsTeacher() && !strings.EqualFold(strings.TrimSpace(claims.Name), strings.TrimSpace(q.TeacherName)) {
		return models.WeekQuery{}, appErrors.Clone(appErrors.ErrForbidden, "teachers can only view their own sessions")
	}
	day, err := models.ParseDate(q.WeekStart)
	if err != nil {
		return models.WeekQuery{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid weekStart")
	}
	return models.WeekQuery{
		SemesterID:  q.SemesterID,
		TeacherName: q.TeacherName,
		WeekStart:   day.WeekStart(),
	}, nil
}

var weekExportHeaders = []string{"Day", "Time", "Specialization", "Type", "Student", "Attendance", "Pending Removal"}

// Export renders the assembled week as a landscape PDF (default) or CSV.
func (s *ScheduleService) Export(ctx context.Context, claims *models.JWTClaims, q dto.SessionWeekQuery) ([]byte, string, string, error) {
	query, err := s.weekQuery(claims, q)
	if err != nil {
		return nil, "", "", err
	}
	rows, err := s.sessions.ListWeekGrid(ctx, query)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions")
	}

	dataset := export.Dataset{Headers: weekExportHeaders}
	for _, view := range AssembleSessions(rows) {
		base := map[string]string{
			"Day":            view.Day,
			"Time":           view.Time,
			"Specialization": derefString(view.Specialization),
			"Type":           string(view.Type),
		}
		if len(view.Students) == 0 {
			dataset.Rows = append(dataset.Rows, base)
			continue
		}
		for _, st := range view.Students {
			row := make(map[string]string, len(weekExportHeaders))
			for k, v := range base {
				row[k] = v
			}
			row["Student"] = st.Name
			if st.Attendance != nil {
				row["Attendance"] = string(*st.Attendance)
			}
			if st.PendingRemoval {
				row["Pending Removal"] = "yes"
			}
			dataset.Rows = append(dataset.Rows, row)
		}
	}

	filename := fmt.Sprintf("sessions-%s-%s", slug(query.TeacherName), query.WeekStart.Format("20060102"))
	if q.Format == "csv" {
		data, err := export.NewCSVExporter().Render(dataset)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return data, ContentTypeCSV, filename + ".csv", nil
	}

	title := fmt.Sprintf("%s - week of %s", query.TeacherName, query.WeekStart.String())
	data, err := export.NewPDFExporter(export.Landscape).Render(dataset, title)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return data, ContentTypePDF, filename + ".pdf", nil
}

// BuildMasterSchedule groups roster rows into teacher -> day -> sessions.
func BuildMasterSchedule(rows []models.RosterRow) models.MasterSchedule {
	tree := make(models.MasterSchedule)
	type slot struct {
		teacher string
		day     string
		pos     int
	}
	seen := make(map[string]slot)
	for _, row := range rows {
		loc, ok := seen[row.ID]
		if !ok {
			days := tree[row.TeacherName]
			if days == nil {
				days = make(map[string][]models.SessionView)
				tree[row.TeacherName] = days
			}
			days[row.DayOfWeek] = append(days[row.DayOfWeek], models.SessionView{
				ID:             row.ID,
				Time:           row.TimeSlot,
				Duration:       row.Duration,
				Specialization: row.Specialization,
				Type:           row.Type,
				Note:           row.Note,
				Day:            row.DayOfWeek,
				StartRow:       GridRow(row.TimeSlot),
				Students:       []models.SessionStudentView{},
			})
			loc = slot{teacher: row.TeacherName, day: row.DayOfWeek, pos: len(days[row.DayOfWeek]) - 1}
			seen[row.ID] = loc
		}
		if row.StudentID == nil || *row.StudentID == "" {
			continue
		}
		view := &tree[loc.teacher][loc.day][loc.pos]
		view.Students = append(view.Students, models.SessionStudentView{ID: *row.StudentID, Name: derefString(row.StudentName)})
	}
	return tree
}

func slug(value string) string {
	fields := strings.Fields(strings.ToLower(value))
	cleaned := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,")
		if f != "" {
			cleaned = append(cleaned, f)
		}
	}
	if len(cleaned) == 0 {
		return "teacher"
	}
	return strings.Join(cleaned, "-")
}
