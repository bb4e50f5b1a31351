package httpapi

import (
	"net/http"
	"strings"

	"github.com/z2hlabs/edudesk/internal/domain/core"
	"github.com/z2hlabs/edudesk/internal/domain/ledger"
)

// ---- workspace ----

func (a *API) listWorkspace(w http.ResponseWriter, _ *http.Request) {
	st := a.store.Snapshot()
	type sessionView struct {
		core.WorkspaceSession
		Cost float64 `json:"cost"`
	}
	out := make([]sessionView, len(st.Workspace))
	for i, s := range st.Workspace {
		out[i] = sessionView{
			WorkspaceSession: s,
			Cost:             ledger.SessionCost(s.CheckInAt, s.CheckOutAt, st.Settings.HourlyRate),
		}
	}
	a.writeJSON(w, http.StatusOK, out)
}

func (a *API) checkIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PersonName string `json:"personName"`
		Date       string `json:"date"`
	}
	if !a.readJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.PersonName) == "" {
		a.writeErr(w, http.StatusUnprocessableEntity, "personName is required")
		return
	}
	a.count("checkIn")
	id := a.store.CheckIn(req.PersonName, req.Date)
	a.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (a *API) checkOut(w http.ResponseWriter, r *http.Request) {
	a.countIf("checkOut", a.store.CheckOut(r.PathValue("id")))
	a.writeOK(w)
}

func (a *API) deleteSession(w http.ResponseWriter, r *http.Request) {
	a.countIf("deleteWorkspaceSession", a.store.DeleteWorkspaceSession(r.PathValue("id")))
	a.writeOK(w)
}

// ---- subscriptions ----

func (a *API) listSubscriptions(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, http.StatusOK, a.store.Snapshot().Subscriptions)
}

func (a *API) addSubscription(w http.ResponseWriter, r *http.Request) {
	var sub core.Subscription
	if !a.readJSON(w, r, &sub) {
		return
	}
	if strings.TrimSpace(sub.PersonName) == "" {
		a.writeErr(w, http.StatusUnprocessableEntity, "personName is required")
		return
	}
	if sub.TotalPrice < 0 || sub.PaidAmount < 0 || sub.PaidAmount > sub.TotalPrice {
		a.writeErr(w, http.StatusUnprocessableEntity, "paid amount must be within 0..totalPrice")
		return
	}
	a.count("addSubscription")
	a.writeJSON(w, http.StatusCreated, map[string]string{"id": a.store.AddSubscription(sub)})
}

func (a *API) deleteSubscription(w http.ResponseWriter, r *http.Request) {
	a.countIf("deleteSubscription", a.store.DeleteSubscription(r.PathValue("id")))
	a.writeOK(w)
}

// ---- expenses ----

func (a *API) listExpenses(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, http.StatusOK, a.store.Snapshot().Expenses)
}

func (a *API) addExpense(w http.ResponseWriter, r *http.Request) {
	var e core.Expense
	if !a.readJSON(w, r, &e) {
		return
	}
	if strings.TrimSpace(e.Title) == "" {
		a.writeErr(w, http.StatusUnprocessableEntity, "title is required")
		return
	}
	if e.Amount <= 0 {
		a.writeErr(w, http.StatusUnprocessableEntity, "amount must be positive")
		return
	}
	a.count("addExpense")
	a.writeJSON(w, http.StatusCreated, map[string]string{"id": a.store.AddExpense(e)})
}

func (a *API) deleteExpense(w http.ResponseWriter, r *http.Request) {
	a.countIf("deleteExpense", a.store.DeleteExpense(r.PathValue("id")))
	a.writeOK(w)
}

// ---- settings ----

func (a *API) getSettings(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, http.StatusOK, a.store.Snapshot().Settings)
}

func (a *API) setSettings(w http.ResponseWriter, r *http.Request) {
	var p core.SettingsPatch
	if !a.readJSON(w, r, &p) {
		return
	}
	if p.HourlyRate != nil && *p.HourlyRate < 0 {
		a.writeErr(w, http.StatusUnprocessableEntity, "hourlyRate must be non-negative")
		return
	}
	a.count("setSettings")
	a.store.SetSettings(p)
	a.writeOK(w)
}
