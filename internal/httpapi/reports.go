package httpapi

import (
	"net/http"
	"time"

	"github.com/z2hlabs/edudesk/internal/domain/core"
	"github.com/z2hlabs/edudesk/internal/domain/ledger"
	"github.com/z2hlabs/edudesk/internal/domain/report"
)

func (a *API) dashboard(w http.ResponseWriter, _ *http.Request) {
	st := a.store.Snapshot()
	a.writeJSON(w, http.StatusOK, struct {
		Metrics     report.Metrics `json:"metrics"`
		Students    int            `json:"students"`
		Outstanding []core.Student `json:"outstanding"`
	}{
		Metrics:     report.Summary(st, nil, nil),
		Students:    len(st.Students),
		Outstanding: report.OutstandingStudents(st),
	})
}

// reportRange serves the date-filtered report. start/end are optional
// YYYY-MM-DD query params; omitting one leaves that side unbounded.
func (a *API) reportRange(w http.ResponseWriter, r *http.Request) {
	start, okStart := a.queryDay(w, r, "start")
	if !okStart {
		return
	}
	end, okEnd := a.queryDay(w, r, "end")
	if !okEnd {
		return
	}
	a.writeJSON(w, http.StatusOK, report.Summary(a.store.Snapshot(), start, end))
}

func (a *API) queryDay(w http.ResponseWriter, r *http.Request, key string) (*time.Time, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, true
	}
	t, err := ledger.ParseDay(raw)
	if err != nil {
		a.writeErr(w, http.StatusBadRequest, key+" must be YYYY-MM-DD")
		return nil, false
	}
	return &t, true
}
