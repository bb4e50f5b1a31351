// Package httpapi is the JSON boundary the dashboard UI calls. The
// handlers stay thin: decode, validate what the store deliberately
// does not (payment bounds, required names), invoke a store operation
// or a derivation, encode.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/z2hlabs/edudesk/internal/domain/core"
	"github.com/z2hlabs/edudesk/internal/infra/metrics"
	"github.com/z2hlabs/edudesk/internal/infra/notify"
)

type API struct {
	log      *slog.Logger
	store    *core.Store
	metrics  *metrics.Metrics
	notifier *notify.Notifier // nil when telegram is not configured
}

func New(log *slog.Logger, store *core.Store, m *metrics.Metrics, n *notify.Notifier) *API {
	return &API{log: log, store: store, metrics: m, notifier: n}
}

// Routes returns the /api mux.
func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/login", a.login)
	mux.HandleFunc("POST /api/logout", a.logout)

	mux.HandleFunc("GET /api/dashboard", a.dashboard)
	mux.HandleFunc("GET /api/report", a.reportRange)

	mux.HandleFunc("GET /api/mentors", a.listMentors)
	mux.HandleFunc("POST /api/mentors", a.addMentor)
	mux.HandleFunc("PATCH /api/mentors/{id}", a.updateMentor)
	mux.HandleFunc("DELETE /api/mentors/{id}", a.deleteMentor)

	mux.HandleFunc("GET /api/students", a.listStudents)
	mux.HandleFunc("POST /api/students", a.addStudent)
	mux.HandleFunc("PATCH /api/students/{id}", a.updateStudent)
	mux.HandleFunc("DELETE /api/students/{id}", a.deleteStudent)
	mux.HandleFunc("GET /api/students/{id}/balance", a.studentBalance)
	mux.HandleFunc("POST /api/students/import", a.importStudents)
	mux.HandleFunc("GET /api/students/template", a.studentTemplate)

	mux.HandleFunc("GET /api/courses", a.listCourses)
	mux.HandleFunc("POST /api/courses", a.addCourse)
	mux.HandleFunc("PATCH /api/courses/{id}", a.updateCourse)
	mux.HandleFunc("DELETE /api/courses/{id}", a.deleteCourse)
	mux.HandleFunc("GET /api/courses/{id}/attendance.xlsx", a.attendanceExport)

	mux.HandleFunc("POST /api/enrollments", a.enroll)
	mux.HandleFunc("PATCH /api/enrollments/{id}", a.updateEnrollment)
	mux.HandleFunc("DELETE /api/enrollments/{id}", a.unenroll)
	mux.HandleFunc("POST /api/enrollments/{id}/payments", a.coursePayment)
	mux.HandleFunc("POST /api/enrollments/{id}/attendance", a.toggleAttendance)

	mux.HandleFunc("GET /api/workspace", a.listWorkspace)
	mux.HandleFunc("POST /api/workspace/checkin", a.checkIn)
	mux.HandleFunc("POST /api/workspace/{id}/checkout", a.checkOut)
	mux.HandleFunc("DELETE /api/workspace/{id}", a.deleteSession)

	mux.HandleFunc("GET /api/subscriptions", a.listSubscriptions)
	mux.HandleFunc("POST /api/subscriptions", a.addSubscription)
	mux.HandleFunc("DELETE /api/subscriptions/{id}", a.deleteSubscription)
	mux.HandleFunc("POST /api/subscriptions/{id}/payments", a.subscriptionPayment)

	mux.HandleFunc("GET /api/expenses", a.listExpenses)
	mux.HandleFunc("POST /api/expenses", a.addExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", a.deleteExpense)

	mux.HandleFunc("GET /api/settings", a.getSettings)
	mux.HandleFunc("PATCH /api/settings", a.setSettings)

	mux.HandleFunc("GET /api/backup/export", a.exportBackup)
	mux.HandleFunc("POST /api/backup/import", a.importBackup)

	mux.HandleFunc("POST /api/alerts/outstanding", a.sendOutstandingAlert)

	return mux
}

func (a *API) count(op string) {
	if a.metrics != nil {
		a.metrics.Mutations.WithLabelValues(op).Inc()
	}
}

// countIf counts the operation only when the store reports it changed
// something, so unknown-id no-ops stay out of the mutation series.
func (a *API) countIf(op string, changed bool) {
	if changed {
		a.count(op)
	}
}

type errResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (a *API) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Error("encode response failed", "err", err)
	}
}

func (a *API) writeErr(w http.ResponseWriter, code int, msg string) {
	a.writeJSON(w, code, errResponse{OK: false, Error: msg})
}

func (a *API) readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		a.writeErr(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}

func (a *API) writeOK(w http.ResponseWriter) {
	a.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
