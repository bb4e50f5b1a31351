package httpapi

import (
	"net/http"

	"github.com/z2hlabs/edudesk/internal/domain/core"
	"github.com/z2hlabs/edudesk/internal/domain/ledger"
)

func (a *API) enroll(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StudentID string   `json:"studentId"`
		CourseIDs []string `json:"courseIds"`
	}
	if !a.readJSON(w, r, &req) {
		return
	}
	if _, found := a.store.Snapshot().StudentByID(req.StudentID); !found {
		a.writeErr(w, http.StatusNotFound, "unknown student")
		return
	}
	ids := a.store.EnrollStudent(req.StudentID, req.CourseIDs)
	a.countIf("enrollStudent", len(ids) > 0)
	a.writeJSON(w, http.StatusOK, map[string]any{"ok": true, "created": ids})
}

func (a *API) updateEnrollment(w http.ResponseWriter, r *http.Request) {
	var p core.EnrollmentPatch
	if !a.readJSON(w, r, &p) {
		return
	}
	if p.Grade != nil && (*p.Grade < 0 || *p.Grade > 100) {
		a.writeErr(w, http.StatusUnprocessableEntity, "grade must be within 0..100")
		return
	}
	a.countIf("updateEnrollment", a.store.UpdateEnrollment(r.PathValue("id"), p))
	a.writeOK(w)
}

func (a *API) unenroll(w http.ResponseWriter, r *http.Request) {
	a.countIf("unenroll", a.store.Unenroll(r.PathValue("id")))
	a.writeOK(w)
}

// coursePayment applies a payment delta after the [0, total] pre-check
// the store itself deliberately leaves to this layer.
func (a *API) coursePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if !a.readJSON(w, r, &req) {
		return
	}

	st := a.store.Snapshot()
	e, found := st.EnrollmentByID(r.PathValue("id"))
	if !found {
		a.writeErr(w, http.StatusNotFound, "unknown enrollment")
		return
	}
	course, _ := st.CourseByID(e.CourseID)
	next := ledger.Round(e.PaidAmount + req.Amount)
	if next < 0 || next > course.PriceTotal {
		a.writeErr(w, http.StatusUnprocessableEntity, "payment would leave paid amount outside 0..total")
		return
	}

	a.countIf("addCoursePayment", a.store.AddCoursePayment(e.ID, req.Amount))
	a.writeOK(w)
}

func (a *API) subscriptionPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if !a.readJSON(w, r, &req) {
		return
	}

	sub, found := a.store.Snapshot().SubscriptionByID(r.PathValue("id"))
	if !found {
		a.writeErr(w, http.StatusNotFound, "unknown subscription")
		return
	}
	next := ledger.Round(sub.PaidAmount + req.Amount)
	if next < 0 || next > sub.TotalPrice {
		a.writeErr(w, http.StatusUnprocessableEntity, "payment would leave paid amount outside 0..total")
		return
	}

	a.countIf("addSubscriptionPayment", a.store.AddSubscriptionPayment(sub.ID, req.Amount))
	a.writeOK(w)
}

func (a *API) toggleAttendance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if !a.readJSON(w, r, &req) {
		return
	}
	if _, err := ledger.ParseDay(req.Date); err != nil {
		a.writeErr(w, http.StatusUnprocessableEntity, "date must be YYYY-MM-DD")
		return
	}
	a.countIf("toggleAttendance", a.store.ToggleAttendance(r.PathValue("id"), req.Date))
	a.writeOK(w)
}
