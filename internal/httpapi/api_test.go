package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/z2hlabs/edudesk/internal/domain/core"
	"github.com/z2hlabs/edudesk/internal/domain/report"
	"github.com/z2hlabs/edudesk/internal/infra/metrics"
)

func newTestAPI() (*API, *core.Store) {
	n := 0
	store := core.NewStore(core.DefaultState(),
		core.WithClock(func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }),
		core.WithIDs(func() string { n++; return fmt.Sprintf("id%d", n) }),
	)
	log := slog.New(slog.DiscardHandler)
	return New(log, store, nil, nil), store
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCoursePaymentValidation(t *testing.T) {
	api, store := newTestAPI()
	h := api.Routes()

	sid := store.AddStudent(core.Student{Name: "Omar"})
	cid := store.AddCourse(core.Course{Title: "Go", PriceTotal: 100})
	eid := store.EnrollStudent(sid, []string{cid})[0]

	// Over total is rejected before it reaches the store.
	rec := do(t, h, "POST", "/api/enrollments/"+eid+"/payments", map[string]float64{"amount": 150})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("over-total payment: status %d, want 422", rec.Code)
	}
	if e, _ := store.Snapshot().EnrollmentByID(eid); e.PaidAmount != 0 {
		t.Fatalf("rejected payment mutated the store: paid=%v", e.PaidAmount)
	}

	// Valid payment lands.
	rec = do(t, h, "POST", "/api/enrollments/"+eid+"/payments", map[string]float64{"amount": 60})
	if rec.Code != http.StatusOK {
		t.Fatalf("valid payment: status %d, body %s", rec.Code, rec.Body)
	}
	// Negative correction below zero is rejected.
	rec = do(t, h, "POST", "/api/enrollments/"+eid+"/payments", map[string]float64{"amount": -80})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("below-zero correction: status %d, want 422", rec.Code)
	}
	if e, _ := store.Snapshot().EnrollmentByID(eid); e.PaidAmount != 60 {
		t.Fatalf("paid = %v, want 60", e.PaidAmount)
	}
}

func TestSubscriptionPaymentValidation(t *testing.T) {
	api, store := newTestAPI()
	h := api.Routes()

	subID := store.AddSubscription(core.Subscription{PersonName: "Guest", Plan: core.PlanDaily, TotalPrice: 20})
	rec := do(t, h, "POST", "/api/subscriptions/"+subID+"/payments", map[string]float64{"amount": 25})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422", rec.Code)
	}
	rec = do(t, h, "POST", "/api/subscriptions/unknown/payments", map[string]float64{"amount": 5})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown sub: status %d, want 404", rec.Code)
	}
}

func TestAddStudentRequiresName(t *testing.T) {
	api, _ := newTestAPI()
	h := api.Routes()

	rec := do(t, h, "POST", "/api/students", core.Student{Name: "   "})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("blank name: status %d, want 422", rec.Code)
	}
	rec = do(t, h, "POST", "/api/students", core.Student{Name: "Omar"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d, want 201", rec.Code)
	}
}

func TestDeleteUnknownIDIsOK(t *testing.T) {
	// The store's silent no-op policy surfaces as a 200, not a 404.
	api, _ := newTestAPI()
	h := api.Routes()
	rec := do(t, h, "DELETE", "/api/mentors/ghost", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
}

func TestNoOpMutationsAreNotCounted(t *testing.T) {
	n := 0
	store := core.NewStore(core.DefaultState(),
		core.WithIDs(func() string { n++; return fmt.Sprintf("id%d", n) }),
	)
	m := metrics.New(prometheus.NewRegistry())
	h := New(slog.New(slog.DiscardHandler), store, m, nil).Routes()

	mid := store.AddMentor(core.Mentor{Name: "Dr. Salem"})

	rec := do(t, h, "DELETE", "/api/mentors/ghost", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	deletes := m.Mutations.WithLabelValues("deleteMentor")
	if got := testutil.ToFloat64(deletes); got != 0 {
		t.Fatalf("unknown-id delete counted: %v", got)
	}

	do(t, h, "DELETE", "/api/mentors/"+mid, nil)
	if got := testutil.ToFloat64(deletes); got != 1 {
		t.Fatalf("effective delete count = %v, want 1", got)
	}
}

func TestReportRange(t *testing.T) {
	api, store := newTestAPI()
	h := api.Routes()

	store.AddExpense(core.Expense{Title: "Rent", Amount: 100, Category: core.CategoryRent, Date: "2025-03-05"})
	store.AddExpense(core.Expense{Title: "Old", Amount: 40, Category: core.CategoryOther, Date: "2024-01-01"})

	rec := do(t, h, "GET", "/api/report?start=2025-03-01&end=2025-03-31", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body)
	}
	var m report.Metrics
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	if m.Expenses != 100 {
		t.Fatalf("filtered expenses = %v, want 100", m.Expenses)
	}

	rec = do(t, h, "GET", "/api/report?start=not-a-date", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad date: status %d, want 400", rec.Code)
	}
}

func TestDashboard(t *testing.T) {
	api, store := newTestAPI()
	h := api.Routes()

	sid := store.AddStudent(core.Student{Name: "Omar"})
	cid := store.AddCourse(core.Course{Title: "Go", PriceTotal: 500})
	eid := store.EnrollStudent(sid, []string{cid})[0]
	store.AddCoursePayment(eid, 200)

	rec := do(t, h, "GET", "/api/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var out struct {
		Metrics     report.Metrics `json:"metrics"`
		Students    int            `json:"students"`
		Outstanding []core.Student `json:"outstanding"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Metrics.Revenue != 200 || out.Metrics.Debt != 300 {
		t.Fatalf("metrics = %+v", out.Metrics)
	}
	if out.Students != 1 || len(out.Outstanding) != 1 {
		t.Fatalf("students=%d outstanding=%d", out.Students, len(out.Outstanding))
	}
}

func TestLoginEndpoint(t *testing.T) {
	api, _ := newTestAPI()
	h := api.Routes()

	rec := do(t, h, "POST", "/api/login", map[string]string{"username": "admin", "password": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
	rec = do(t, h, "POST", "/api/login", map[string]string{"username": "admin", "password": "admin"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
}

func TestBackupRoundTripOverHTTP(t *testing.T) {
	api, store := newTestAPI()
	h := api.Routes()
	store.AddStudent(core.Student{Name: "Omar"})

	rec := do(t, h, "GET", "/api/backup/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status %d", rec.Code)
	}

	store.DeleteStudent(store.Snapshot().Students[0].ID)
	req := httptest.NewRequest("POST", "/api/backup/import", bytes.NewReader(rec.Body.Bytes()))
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Fatalf("import status %d, body %s", rec2.Code, rec2.Body)
	}
	if got := len(store.Snapshot().Students); got != 1 {
		t.Fatalf("students after import = %d, want 1", got)
	}

	rec3 := httptest.NewRecorder()
	h.ServeHTTP(rec3, httptest.NewRequest("POST", "/api/backup/import", bytes.NewReader([]byte("{bad"))))
	if rec3.Code != http.StatusUnprocessableEntity {
		t.Fatalf("malformed import status %d, want 422", rec3.Code)
	}
}
