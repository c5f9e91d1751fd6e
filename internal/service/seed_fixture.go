package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/academy-admin-api/internal/models"
)

const seedSemesterID = "fall-2024"

type seedUser struct {
	id       string
	username string
	name     string
	roles    models.RoleList
}

var seedUsers = []seedUser{
	{"1", "admin1", "Admin One", models.RoleList{models.RoleAdmin}},
	{"2", "رغد", "Raghad", models.RoleList{models.RoleAdmin}},
	{"3", "عبدالرحمن", "Abdulrahman", models.RoleList{models.RoleAdmin}},
	{"4", "manar", "Manar", models.RoleList{models.RoleAdmin, models.RoleHighLevelDashboard}},
	{"5", "MC", "MC", models.RoleList{models.RoleUpperManagement}},
	{"6", "نهاد", "نهاد", models.RoleList{models.RoleTeacher}},
	{"7", "حازم", "حازم", models.RoleList{models.RoleTeacher}},
	{"8", "هاني", "هاني", models.RoleList{models.RoleTeacher}},
	{"9", "نبيل", "نبيل", models.RoleList{models.RoleTeacher}},
	{"10", "باسم", "باسم", models.RoleList{models.RoleTeacher}},
	{"11", "بسام", "بسام", models.RoleList{models.RoleTeacher}},
	{"12", "ناجي", "ناجي", models.RoleList{models.RoleTeacher}},
	{"13", "يعرب", "يعرب", models.RoleList{models.RoleTeacher}},
	{"14", "إسلام", "إسلام", models.RoleList{models.RoleTeacher}},
}

type seedSession struct {
	id             string
	teacher        string
	day            string
	slot           string
	hours          int64
	specialization string
}

var seedSessions = []seedSession{
	{"Saturday-13", "نهاد", "Saturday", "1:00 PM - 3:00 PM", 2, "عود"},
	{"Saturday-15", "نهاد", "Saturday", "3:00 PM - 5:00 PM", 2, "عود"},
	{"Sunday-14", "حازم", "Sunday", "2:00 PM - 3:00 PM", 1, "عود"},
	{"Sunday-16", "حازم", "Sunday", "4:00 PM - 5:00 PM", 1, "عود"},
	{"Monday-17", "هاني", "Monday", "5:00 PM - 6:00 PM", 1, "ناي"},
	{"Tuesday-18", "بسام", "Tuesday", "6:00 PM - 7:00 PM", 1, "قانون"},
	{"Wednesday-16", "يعرب", "Wednesday", "4:00 PM - 5:00 PM", 1, "صناعة العود"},
}

type seedStudent struct {
	id      string
	name    string
	level   string
	session string
}

var seedStudents = []seedStudent{
	{"STU001", "أحمد الفلاني", "Beginner", "Saturday-13"},
	{"STU002", "فاطمة الزهراني", "Intermediate", "Saturday-13"},
	{"STU003", "خالد المصري", "Advanced", "Sunday-14"},
	{"STU004", "مريم العتيبي", "Beginner", "Monday-17"},
	{"STU005", "علياء الشمري", "Intermediate", "Tuesday-18"},
	{"STU006", "يوسف القحطاني", "Beginner", "Tuesday-18"},
	{"STU007", "نورة الغامدي", "Advanced", "Wednesday-16"},
	{"STU008", "سارة الدوسري", "Beginner", "Saturday-15"},
	{"STU009", "محمد الحربي", "Intermediate", "Sunday-16"},
}

type seedRequest struct {
	id      string
	kind    models.RequestType
	date    models.Date
	teacher string
	student string
	session string
	reason  string
}

var seedRequests = []seedRequest{
	{"REQ001", models.RequestRemoveStudent, calendarDay(2024, time.May, 20), "6", "STU002", "Saturday-13",
		"Student has not attended for the last 4 weeks and has not responded to communication."},
	{"REQ002", models.RequestRemoveStudent, calendarDay(2024, time.May, 21), "7", "STU003", "Sunday-14",
		"Student is moving to another city and can no longer attend."},
	{"REQ003", models.RequestChangeTime, calendarDay(2024, time.May, 22), "8", "STU004", "Monday-17",
		"Student has a new work schedule and requests to move to the 7:00 PM slot."},
}

func calendarDay(year int, month time.Month, day int) models.Date {
	return models.NewDate(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DefaultSeedFixture returns the reference data of a fresh academy. Every user
// shares passwordHash.
func DefaultSeedFixture(passwordHash string) models.SeedFixture {
	var fixture models.SeedFixture

	for _, u := range seedUsers {
		fixture.Users = append(fixture.Users, models.User{
			ID:           u.id,
			Username:     u.username,
			Name:         u.name,
			PasswordHash: passwordHash,
			Roles:        u.roles,
		})
	}

	teachers := models.TeacherList{}
	for _, u := range seedUsers {
		if u.roles.Has(models.RoleTeacher) {
			teachers = append(teachers, u.name)
		}
	}
	fixture.Semesters = []models.Semester{{
		ID:        seedSemesterID,
		Name:      "Fall 2024",
		StartDate: calendarDay(2024, time.September, 1),
		EndDate:   calendarDay(2024, time.December, 20),
		Teachers:  teachers,
		IsActive:  true,
	}}

	slots := make(map[string]seedSession, len(seedSessions))
	for _, s := range seedSessions {
		slots[s.id] = s
		fixture.Sessions = append(fixture.Sessions, models.Session{
			ID:             s.id,
			SemesterID:     seedSemesterID,
			TeacherName:    s.teacher,
			DayOfWeek:      s.day,
			TimeSlot:       s.slot,
			Duration:       decimal.NewFromInt(s.hours),
			Specialization: optionalString(s.specialization),
			Type:           models.SessionPractical,
		})
	}

	names := make(map[string]string, len(seedStudents))
	for _, s := range seedStudents {
		names[s.id] = s.name
		fixture.Students = append(fixture.Students, models.Student{
			ID:          s.id,
			Name:        s.name,
			Level:       s.level,
			PaymentPlan: models.PlanNone,
		})
		fixture.Enrollments = append(fixture.Enrollments, models.Enrollment{
			ID:        models.EnrollmentID(s.session, s.id),
			SessionID: s.session,
			StudentID: s.id,
		})
	}

	for _, r := range seedRequests {
		session := slots[r.session]
		fixture.Requests = append(fixture.Requests, models.TeacherRequest{
			ID:          r.id,
			Type:        r.kind,
			Status:      models.RequestPending,
			RequestDate: r.date,
			TeacherID:   r.teacher,
			TeacherName: session.teacher,
			StudentID:   optionalString(r.student),
			StudentName: optionalString(names[r.student]),
			SessionID:   optionalString(r.session),
			SessionTime: optionalString(session.slot),
			Day:         optionalString(session.day),
			Reason:      optionalString(r.reason),
			SemesterID:  seedSemesterID,
		})
	}

	return fixture
}
