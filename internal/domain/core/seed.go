package core

import (
	"time"

	"github.com/z2hlabs/edudesk/internal/domain/ledger"
)

// DemoState returns the demo fixture shown on a fresh install when
// data.seed_demo is enabled. Ids here are stable on purpose so the
// fixture survives export/import round-trips in docs and tests.
func DemoState(now time.Time) State {
	st := DefaultState()
	today := ledger.DateKey(now)

	st.Mentors = []Mentor{
		{ID: "m1", Name: "Dr. Ahmed Salem", Phone: "0599123456", Email: "ahmed@edu.com", Notes: "Senior Web Developer"},
		{ID: "m2", Name: "Sarah Johnson", Phone: "0598765432", Email: "sarah.j@design.com", Notes: "UI/UX Specialist"},
		{ID: "m3", Name: "Mohammed Ali", Phone: "0597112233", Email: "mali@english.com", Notes: "IELTS Certified Trainer"},
	}
	st.Students = []Student{
		{ID: "s1", Name: "Omar Khalid", Phone: "0592233445", Email: "omar@mail.com"},
		{ID: "s2", Name: "Laila Mahmoud", Phone: "0595566778", Email: "laila@mail.com"},
		{ID: "s3", Name: "Yousef Hassan", Phone: "0593344556", Email: "yousef@mail.com"},
		{ID: "s4", Name: "Mariam Isaac", Phone: "0591122334", Email: "mariam@mail.com"},
		{ID: "s5", Name: "Zaid Amari", Phone: "0596677889", Email: "zaid@mail.com"},
	}
	st.Courses = []Course{
		{ID: "c1", Title: "Full-Stack React Bootcamp", MentorID: "m1", PriceTotal: 1200, CreatedAt: now},
		{ID: "c2", Title: "Graphic Design Masterclass", MentorID: "m2", PriceTotal: 800, CreatedAt: now},
		{ID: "c3", Title: "Business English Level 1", MentorID: "m3", PriceTotal: 500, CreatedAt: now},
	}
	st.Enrollments = []Enrollment{
		{ID: "e1", CourseID: "c1", StudentID: "s1", PaidAmount: 1200, Status: StatusActive, Attendance: map[string]bool{today: true}, CreatedAt: now},
		{ID: "e2", CourseID: "c1", StudentID: "s2", PaidAmount: 600, Status: StatusActive, Attendance: map[string]bool{}, CreatedAt: now},
		{ID: "e3", CourseID: "c2", StudentID: "s3", PaidAmount: 800, Status: StatusCompleted, Attendance: map[string]bool{}, CreatedAt: now},
		{ID: "e4", CourseID: "c3", StudentID: "s4", PaidAmount: 200, Status: StatusActive, Attendance: map[string]bool{today: true}, CreatedAt: now},
	}
	st.Expenses = []Expense{
		{ID: "ex1", Title: "Office Rent - March", Amount: 1500, Category: CategoryRent, Date: today, CreatedAt: now},
		{ID: "ex2", Title: "Electricity Bill", Amount: 240, Category: CategoryUtilities, Date: today, CreatedAt: now},
		{ID: "ex3", Title: "Facebook Ads Campaign", Amount: 350, Category: CategoryMarketing, Date: today, CreatedAt: now},
	}
	st.Subscriptions = []Subscription{
		{ID: "sub1", PersonName: "Zaid Amari", StudentID: "s5", Plan: PlanMonthly, TotalPrice: 350, PaidAmount: 350, Method: MethodCash, CreatedAt: now},
		{ID: "sub2", PersonName: "Guest User 1", Plan: PlanDaily, TotalPrice: 20, PaidAmount: 0, Method: MethodCash, CreatedAt: now},
	}
	st.Workspace = []WorkspaceSession{
		{ID: "w1", PersonName: "Omar Khalid", Date: today, CheckInAt: now},
		{ID: "w2", PersonName: "Laila Mahmoud", Date: today, CheckInAt: now},
	}
	return st
}
