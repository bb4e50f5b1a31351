package core

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RoleMentor Role = "mentor"
)

type SubscriptionPlan string

const (
	PlanDaily   SubscriptionPlan = "daily"
	PlanWeekly  SubscriptionPlan = "weekly"
	PlanMonthly SubscriptionPlan = "monthly"
)

type PaymentMethod string

const (
	MethodCash PaymentMethod = "cash"
	MethodBank PaymentMethod = "bank"
)

type ExpenseCategory string

const (
	CategoryRent      ExpenseCategory = "rent"
	CategorySalary    ExpenseCategory = "salary"
	CategoryUtilities ExpenseCategory = "utilities"
	CategoryMarketing ExpenseCategory = "marketing"
	CategorySupplies  ExpenseCategory = "supplies"
	CategoryOther     ExpenseCategory = "other"
)

// EnrollmentStatus is a free-form label; any value may move to any
// other at any time, no transition rules are enforced.
type EnrollmentStatus string

const (
	StatusActive    EnrollmentStatus = "active"
	StatusCompleted EnrollmentStatus = "completed"
	StatusDropped   EnrollmentStatus = "dropped"
)

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Name     string `json:"name"`
}

type Mentor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
	Notes string `json:"notes,omitempty"`
}

type Student struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
	Notes string `json:"notes,omitempty"`
}

type Course struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	MentorID   string    `json:"mentorId,omitempty"` // weak ref, cleared when the mentor goes
	PriceTotal float64   `json:"priceTotal"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Enrollment struct {
	ID         string           `json:"id"`
	CourseID   string           `json:"courseId"`
	StudentID  string           `json:"studentId"`
	PaidAmount float64          `json:"paidAmount"`
	Attendance map[string]bool  `json:"attendance"` // keyed by YYYY-MM-DD
	Grade      *int             `json:"grade,omitempty"`
	Status     EnrollmentStatus `json:"status"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// WorkspaceSession is a billed-by-time walk-in visit. A session is
// open while CheckOutAt is nil.
type WorkspaceSession struct {
	ID         string     `json:"id"`
	Date       string     `json:"date"` // YYYY-MM-DD
	PersonName string     `json:"personName"`
	CheckInAt  time.Time  `json:"checkInAt"`
	CheckOutAt *time.Time `json:"checkOutAt,omitempty"`
}

// Open reports whether the visitor has not checked out yet.
func (w WorkspaceSession) Open() bool { return w.CheckOutAt == nil }

type Subscription struct {
	ID         string           `json:"id"`
	StudentID  string           `json:"studentId,omitempty"` // weak ref, guests have none
	PersonName string           `json:"personName"`
	Plan       SubscriptionPlan `json:"plan"`
	TotalPrice float64          `json:"totalPrice"`
	PaidAmount float64          `json:"paidAmount"`
	Method     PaymentMethod    `json:"method"`
	CreatedAt  time.Time        `json:"createdAt"`
}

type Expense struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Amount    float64         `json:"amount"`
	Category  ExpenseCategory `json:"category"`
	Date      string          `json:"date"` // YYYY-MM-DD
	CreatedAt time.Time       `json:"createdAt"`
}

type SubPrices struct {
	Daily   float64 `json:"daily"`
	Weekly  float64 `json:"weekly"`
	Monthly float64 `json:"monthly"`
}

type Settings struct {
	Lang       string    `json:"lang"`
	HourlyRate float64   `json:"hourlyRate"`
	Theme      string    `json:"theme"`
	Currency   string    `json:"currency"`
	SubPrices  SubPrices `json:"subPrices"`
}

// State is the whole entity store content: every collection plus the
// singleton settings and the signed-in user. It is the unit of
// persistence (one opaque document) and of export/import.
type State struct {
	CurrentUserID string             `json:"currentUserId,omitempty"`
	Users         []User             `json:"users"`
	Mentors       []Mentor           `json:"mentors"`
	Students      []Student          `json:"students"`
	Courses       []Course           `json:"courses"`
	Enrollments   []Enrollment       `json:"enrollments"`
	Workspace     []WorkspaceSession `json:"workspace"`
	Subscriptions []Subscription     `json:"subscriptions"`
	Expenses      []Expense          `json:"expenses"`
	Settings      Settings           `json:"settings"`
}

// AdminUserID is the single built-in administrator; import resets the
// signed-in identity to it.
const AdminUserID = "u_admin"

// DefaultState returns the empty store with the built-in admin and
// default settings.
func DefaultState() State {
	return State{
		CurrentUserID: AdminUserID,
		Users: []User{
			{ID: AdminUserID, Username: "admin", Role: RoleAdmin, Name: "Administrator"},
		},
		Mentors:       []Mentor{},
		Students:      []Student{},
		Courses:       []Course{},
		Enrollments:   []Enrollment{},
		Workspace:     []WorkspaceSession{},
		Subscriptions: []Subscription{},
		Expenses:      []Expense{},
		Settings: Settings{
			Lang:       "ar",
			HourlyRate: 5,
			Theme:      "dark",
			Currency:   "ILS",
			SubPrices:  SubPrices{Daily: 20, Weekly: 120, Monthly: 350},
		},
	}
}

// Clone deep-copies the state so snapshots handed to readers never
// alias the store's own slices and maps.
func (s State) Clone() State {
	out := s
	out.Users = append([]User(nil), s.Users...)
	out.Mentors = append([]Mentor(nil), s.Mentors...)
	out.Students = append([]Student(nil), s.Students...)
	out.Courses = append([]Course(nil), s.Courses...)
	out.Workspace = append([]WorkspaceSession(nil), s.Workspace...)
	out.Subscriptions = append([]Subscription(nil), s.Subscriptions...)
	out.Expenses = append([]Expense(nil), s.Expenses...)
	out.Enrollments = make([]Enrollment, len(s.Enrollments))
	for i, e := range s.Enrollments {
		att := make(map[string]bool, len(e.Attendance))
		for k, v := range e.Attendance {
			att[k] = v
		}
		e.Attendance = att
		if e.Grade != nil {
			g := *e.Grade
			e.Grade = &g
		}
		out.Enrollments[i] = e
	}
	for i, w := range s.Workspace {
		if w.CheckOutAt != nil {
			t := *w.CheckOutAt
			out.Workspace[i].CheckOutAt = &t
		}
	}
	return out
}

// CourseByID looks a course up in a snapshot. Second return is false
// when the id is unknown.
func (s State) CourseByID(id string) (Course, bool) {
	for _, c := range s.Courses {
		if c.ID == id {
			return c, true
		}
	}
	return Course{}, false
}

func (s State) StudentByID(id string) (Student, bool) {
	for _, st := range s.Students {
		if st.ID == id {
			return st, true
		}
	}
	return Student{}, false
}

func (s State) MentorByID(id string) (Mentor, bool) {
	for _, m := range s.Mentors {
		if m.ID == id {
			return m, true
		}
	}
	return Mentor{}, false
}

func (s State) EnrollmentByID(id string) (Enrollment, bool) {
	for _, e := range s.Enrollments {
		if e.ID == id {
			return e, true
		}
	}
	return Enrollment{}, false
}

func (s State) SubscriptionByID(id string) (Subscription, bool) {
	for _, sub := range s.Subscriptions {
		if sub.ID == id {
			return sub, true
		}
	}
	return Subscription{}, false
}
