package core

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/z2hlabs/edudesk/internal/domain/ledger"
)

// ErrInvalidCredentials is returned by Login for a bad username or password.
var ErrInvalidCredentials = errors.New("core: invalid credentials")

// Store is the single source of truth for all entities. Every mutation
// goes through a named operation so id/timestamp assignment and the
// referential cleanup rules are guaranteed; callers never edit fields
// directly. Reads work on deep-copied snapshots.
//
// Contract notes carried over from the product:
//   - update/delete of an unknown id is a no-op, not an error; those
//     mutators report false so callers can skip side effects;
//   - the store accepts whatever it is given (empty names, payments
//     outside [0, total]) — validation is the caller layer's job;
//   - payment mutators round after applying the delta.
type Store struct {
	mu     sync.RWMutex
	hookMu sync.Mutex
	state  State

	now      func() time.Time
	newID    func() string
	onChange func(State)
}

type Option func(*Store)

// WithClock overrides the time source. Tests use a fixed clock.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs overrides id generation.
func WithIDs(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// OnChange registers a hook invoked with a snapshot after every
// effective mutation. The process owner wires persistence and metrics
// here. Delivery is serialized in mutation order so a slow hook never
// persists a stale snapshot over a newer one; readers are not blocked
// while the hook runs.
func OnChange(fn func(State)) Option {
	return func(s *Store) { s.onChange = fn }
}

func NewStore(initial State, opts ...Option) *Store {
	s := &Store{
		state: initial.Clone(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Snapshot returns a deep copy of the current state. Derivations and
// exports run against snapshots, never against live store internals.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// mutate runs fn under the write lock and reports whether anything
// changed; fn returns false on unknown-id no-ops so the change hook is
// skipped. hookMu is taken before the write lock is released, which
// hands hooks their snapshots in the same order the mutations landed.
func (s *Store) mutate(fn func(*State) bool) bool {
	s.mu.Lock()
	changed := fn(&s.state)
	var snap State
	notify := changed && s.onChange != nil
	if notify {
		snap = s.state.Clone()
		s.hookMu.Lock()
	}
	s.mu.Unlock()
	if notify {
		s.onChange(snap)
		s.hookMu.Unlock()
	}
	return changed
}

// ---- auth ----

// Login signs the named user in. The single-operator build ships one
// built-in admin with a fixed password.
func (s *Store) Login(username, password string) error {
	var found *User
	s.mu.RLock()
	for i := range s.state.Users {
		if s.state.Users[i].Username == username {
			found = &s.state.Users[i]
			break
		}
	}
	s.mu.RUnlock()
	if found == nil || password != "admin" {
		return ErrInvalidCredentials
	}
	id := found.ID
	s.mutate(func(st *State) bool {
		st.CurrentUserID = id
		return true
	})
	return nil
}

func (s *Store) Logout() {
	s.mutate(func(st *State) bool {
		st.CurrentUserID = ""
		return true
	})
}

// CurrentUser returns the signed-in user, if any.
func (s *Store) CurrentUser() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.state.Users {
		if u.ID == s.state.CurrentUserID {
			return u, true
		}
	}
	return User{}, false
}

// ---- mentors ----

func (s *Store) AddMentor(m Mentor) string {
	m.ID = s.newID()
	s.mutate(func(st *State) bool {
		st.Mentors = append(st.Mentors, m)
		return true
	})
	return m.ID
}

type MentorPatch struct {
	Name  *string
	Phone *string
	Email *string
	Notes *string
}

func (s *Store) UpdateMentor(id string, p MentorPatch) bool {
	return s.mutate(func(st *State) bool {
		for i := range st.Mentors {
			if st.Mentors[i].ID != id {
				continue
			}
			applyStr(&st.Mentors[i].Name, p.Name)
			applyStr(&st.Mentors[i].Phone, p.Phone)
			applyStr(&st.Mentors[i].Email, p.Email)
			applyStr(&st.Mentors[i].Notes, p.Notes)
			return true
		}
		return false
	})
}

// DeleteMentor removes the mentor and clears the weak reference on
// dependent courses. Courses themselves stay.
func (s *Store) DeleteMentor(id string) bool {
	return s.mutate(func(st *State) bool {
		n := len(st.Mentors)
		st.Mentors = deleteByID(st.Mentors, func(m Mentor) string { return m.ID }, id)
		if len(st.Mentors) == n {
			return false
		}
		for i := range st.Courses {
			if st.Courses[i].MentorID == id {
				st.Courses[i].MentorID = ""
			}
		}
		return true
	})
}

// ---- students ----

func (s *Store) AddStudent(st Student) string {
	st.ID = s.newID()
	s.mutate(func(state *State) bool {
		state.Students = append(state.Students, st)
		return true
	})
	return st.ID
}

// AddStudentsBatch appends one student per row; ids are assigned here.
// Used by the bulk xlsx upload.
func (s *Store) AddStudentsBatch(students []Student) []string {
	if len(students) == 0 {
		return nil
	}
	ids := make([]string, len(students))
	for i := range students {
		students[i].ID = s.newID()
		ids[i] = students[i].ID
	}
	s.mutate(func(st *State) bool {
		st.Students = append(st.Students, students...)
		return true
	})
	return ids
}

type StudentPatch struct {
	Name  *string
	Phone *string
	Email *string
	Notes *string
}

func (s *Store) UpdateStudent(id string, p StudentPatch) bool {
	return s.mutate(func(st *State) bool {
		for i := range st.Students {
			if st.Students[i].ID != id {
				continue
			}
			applyStr(&st.Students[i].Name, p.Name)
			applyStr(&st.Students[i].Phone, p.Phone)
			applyStr(&st.Students[i].Email, p.Email)
			applyStr(&st.Students[i].Notes, p.Notes)
			return true
		}
		return false
	})
}

// DeleteStudent removes the student and cascades: every enrollment and
// every subscription referencing the student goes with it.
func (s *Store) DeleteStudent(id string) bool {
	return s.mutate(func(st *State) bool {
		n := len(st.Students)
		st.Students = deleteByID(st.Students, func(x Student) string { return x.ID }, id)
		if len(st.Students) == n {
			return false
		}
		st.Enrollments = keep(st.Enrollments, func(e Enrollment) bool { return e.StudentID != id })
		st.Subscriptions = keep(st.Subscriptions, func(x Subscription) bool { return x.StudentID != id })
		return true
	})
}

// ---- courses ----

func (s *Store) AddCourse(c Course) string {
	c.ID = s.newID()
	c.CreatedAt = s.now()
	s.mutate(func(st *State) bool {
		st.Courses = append(st.Courses, c)
		return true
	})
	return c.ID
}

type CoursePatch struct {
	Title      *string
	MentorID   *string
	PriceTotal *float64
}

func (s *Store) UpdateCourse(id string, p CoursePatch) bool {
	return s.mutate(func(st *State) bool {
		for i := range st.Courses {
			if st.Courses[i].ID != id {
				continue
			}
			applyStr(&st.Courses[i].Title, p.Title)
			applyStr(&st.Courses[i].MentorID, p.MentorID)
			if p.PriceTotal != nil {
				st.Courses[i].PriceTotal = *p.PriceTotal
			}
			return true
		}
		return false
	})
}

// DeleteCourse removes the course and its enrollments. Subscriptions
// never reference courses, so they are untouched.
func (s *Store) DeleteCourse(id string) bool {
	return s.mutate(func(st *State) bool {
		n := len(st.Courses)
		st.Courses = deleteByID(st.Courses, func(c Course) string { return c.ID }, id)
		if len(st.Courses) == n {
			return false
		}
		st.Enrollments = keep(st.Enrollments, func(e Enrollment) bool { return e.CourseID != id })
		return true
	})
}

// ---- enrollments ----

// EnrollStudent creates one active zero-paid enrollment per course the
// student is not already enrolled in. Existing (student, course) pairs
// are silently skipped, so the call is idempotent per pair.
func (s *Store) EnrollStudent(studentID string, courseIDs []string) []string {
	var ids []string
	s.mutate(func(st *State) bool {
		existing := map[string]bool{}
		for _, e := range st.Enrollments {
			if e.StudentID == studentID {
				existing[e.CourseID] = true
			}
		}
		for _, cid := range courseIDs {
			if existing[cid] {
				continue
			}
			existing[cid] = true
			e := Enrollment{
				ID:         s.newID(),
				CourseID:   cid,
				StudentID:  studentID,
				Attendance: map[string]bool{},
				Status:     StatusActive,
				CreatedAt:  s.now(),
			}
			st.Enrollments = append(st.Enrollments, e)
			ids = append(ids, e.ID)
		}
		return len(ids) > 0
	})
	return ids
}

func (s *Store) Unenroll(enrollmentID string) bool {
	return s.mutate(func(st *State) bool {
		n := len(st.Enrollments)
		st.Enrollments = keep(st.Enrollments, func(e Enrollment) bool { return e.ID != enrollmentID })
		return len(st.Enrollments) != n
	})
}

// AddCoursePayment applies a payment delta (negative = correction) to
// the enrollment's paid amount and rounds. The [0, total] bound is the
// caller's pre-check, not enforced here.
func (s *Store) AddCoursePayment(enrollmentID string, delta float64) bool {
	return s.mutate(func(st *State) bool {
		for i := range st.Enrollments {
			if st.Enrollments[i].ID == enrollmentID {
				st.Enrollments[i].PaidAmount = ledger.Round(st.Enrollments[i].PaidAmount + delta)
				return true
			}
		}
		return false
	})
}

// ToggleAttendance flips the presence flag for the day, creating the
// key when absent (absent counts as false).
func (s *Store) ToggleAttendance(enrollmentID, date string) bool {
	return s.mutate(func(st *State) bool {
		for i := range st.Enrollments {
			if st.Enrollments[i].ID != enrollmentID {
				continue
			}
			if st.Enrollments[i].Attendance == nil {
				st.Enrollments[i].Attendance = map[string]bool{}
			}
			st.Enrollments[i].Attendance[date] = !st.Enrollments[i].Attendance[date]
			return true
		}
		return false
	})
}

type EnrollmentPatch struct {
	PaidAmount *float64
	Grade      *int
	Status     *EnrollmentStatus
}

func (s *Store) UpdateEnrollment(id string, p EnrollmentPatch) bool {
	return s.mutate(func(st *State) bool {
		for i := range st.Enrollments {
			if st.Enrollments[i].ID != id {
				continue
			}
			if p.PaidAmount != nil {
				st.Enrollments[i].PaidAmount = ledger.Round(*p.PaidAmount)
			}
			if p.Grade != nil {
				g := *p.Grade
				st.Enrollments[i].Grade = &g
			}
			if p.Status != nil {
				st.Enrollments[i].Status = *p.Status
			}
			return true
		}
		return false
	})
}

// ---- workspace ----

// CheckIn opens a session for a walk-in visitor. date defaults to
// today's calendar day.
func (s *Store) CheckIn(personName, date string) string {
	if date == "" {
		date = ledger.DateKey(s.now())
	}
	w := WorkspaceSession{
		ID:         s.newID(),
		Date:       date,
		PersonName: personName,
		CheckInAt:  s.now(),
	}
	s.mutate(func(st *State) bool {
		st.Workspace = append(st.Workspace, w)
		return true
	})
	return w.ID
}

// CheckOut stamps the session's checkout time. Calling it again on a
// closed session overwrites the stamp with the later time; kept as-is
// pending a product decision.
func (s *Store) CheckOut(sessionID string) bool {
	now := s.now()
	return s.mutate(func(st *State) bool {
		for i := range st.Workspace {
			if st.Workspace[i].ID == sessionID {
				t := now
				st.Workspace[i].CheckOutAt = &t
				return true
			}
		}
		return false
	})
}

func (s *Store) DeleteWorkspaceSession(sessionID string) bool {
	return s.mutate(func(st *State) bool {
		n := len(st.Workspace)
		st.Workspace = keep(st.Workspace, func(w WorkspaceSession) bool { return w.ID != sessionID })
		return len(st.Workspace) != n
	})
}

// ---- subscriptions ----

func (s *Store) AddSubscription(sub Subscription) string {
	sub.ID = s.newID()
	sub.CreatedAt = s.now()
	s.mutate(func(st *State) bool {
		st.Subscriptions = append(st.Subscriptions, sub)
		return true
	})
	return sub.ID
}

// AddSubscriptionPayment mirrors AddCoursePayment for flat-rate plans.
func (s *Store) AddSubscriptionPayment(subID string, delta float64) bool {
	return s.mutate(func(st *State) bool {
		for i := range st.Subscriptions {
			if st.Subscriptions[i].ID == subID {
				st.Subscriptions[i].PaidAmount = ledger.Round(st.Subscriptions[i].PaidAmount + delta)
				return true
			}
		}
		return false
	})
}

func (s *Store) DeleteSubscription(subID string) bool {
	return s.mutate(func(st *State) bool {
		n := len(st.Subscriptions)
		st.Subscriptions = keep(st.Subscriptions, func(x Subscription) bool { return x.ID != subID })
		return len(st.Subscriptions) != n
	})
}

// ---- expenses ----

func (s *Store) AddExpense(e Expense) string {
	e.ID = s.newID()
	e.CreatedAt = s.now()
	if e.Date == "" {
		e.Date = ledger.DateKey(s.now())
	}
	s.mutate(func(st *State) bool {
		st.Expenses = append(st.Expenses, e)
		return true
	})
	return e.ID
}

func (s *Store) DeleteExpense(id string) bool {
	return s.mutate(func(st *State) bool {
		n := len(st.Expenses)
		st.Expenses = keep(st.Expenses, func(e Expense) bool { return e.ID != id })
		return len(st.Expenses) != n
	})
}

// ---- settings ----

type SettingsPatch struct {
	Lang       *string
	HourlyRate *float64
	Theme      *string
	Currency   *string
	SubPrices  *SubPrices
}

func (s *Store) SetSettings(p SettingsPatch) {
	s.mutate(func(st *State) bool {
		applyStr(&st.Settings.Lang, p.Lang)
		applyStr(&st.Settings.Theme, p.Theme)
		applyStr(&st.Settings.Currency, p.Currency)
		if p.HourlyRate != nil {
			st.Settings.HourlyRate = *p.HourlyRate
		}
		if p.SubPrices != nil {
			st.Settings.SubPrices = *p.SubPrices
		}
		return true
	})
}

// ---- whole-state replace ----

// ReplaceState swaps the entire store content atomically and resets
// the signed-in identity to the built-in admin. Import is the only
// caller; parse failures never reach this point.
func (s *Store) ReplaceState(next State) {
	next = next.Clone()
	next.CurrentUserID = AdminUserID
	s.mutate(func(st *State) bool {
		*st = next
		return true
	})
}

// ---- helpers ----

func applyStr(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func keep[T any](in []T, pred func(T) bool) []T {
	out := in[:0]
	for _, v := range in {
		if pred(v) {
			out = append(out, v)
		}
	}
	return out
}

func deleteByID[T any](in []T, id func(T) string, target string) []T {
	return keep(in, func(v T) bool { return id(v) != target })
}
