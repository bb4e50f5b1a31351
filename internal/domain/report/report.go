// Package report derives dashboard and report figures from a store
// snapshot. Everything here is a pure read-only projection, cheap
// enough (tens to low-thousands of records) to recompute on every
// request instead of caching.
package report

import (
	"time"

	"github.com/z2hlabs/edudesk/internal/domain/core"
	"github.com/z2hlabs/edudesk/internal/domain/ledger"
)

// Balance is a student's money position across course enrollments and
// subscriptions. Remaining is signed: negative means overpaid, the UI
// clamps it visually but the raw value is kept.
type Balance struct {
	TotalDue  float64 `json:"totalDue"`
	TotalPaid float64 `json:"totalPaid"`
	Remaining float64 `json:"remaining"`
}

// StudentBalance sums priced totals and paid amounts over the
// student's enrollments and subscriptions.
func StudentBalance(st core.State, studentID string) Balance {
	var b Balance
	for _, e := range st.Enrollments {
		if e.StudentID != studentID {
			continue
		}
		if c, ok := st.CourseByID(e.CourseID); ok {
			b.TotalDue += c.PriceTotal
		}
		b.TotalPaid += e.PaidAmount
	}
	for _, sub := range st.Subscriptions {
		if sub.StudentID != studentID {
			continue
		}
		b.TotalDue += sub.TotalPrice
		b.TotalPaid += sub.PaidAmount
	}
	b.Remaining = b.TotalDue - b.TotalPaid
	return b
}

// CourseRemaining is what the enrollment still owes on its course.
func CourseRemaining(e core.Enrollment, c core.Course) float64 {
	return c.PriceTotal - e.PaidAmount
}

// Metrics is the aggregate set shown on the dashboard and the
// date-filtered report. Revenue counts realized payments only; Debt is
// what is still owed on courses and subscriptions (workspace visits
// are pay-as-you-go and owe nothing in advance).
type Metrics struct {
	CourseRevenue    float64 `json:"courseRevenue"`
	SubRevenue       float64 `json:"subRevenue"`
	WorkspaceRevenue float64 `json:"workspaceRevenue"`
	Revenue          float64 `json:"revenue"`
	Expenses         float64 `json:"expenses"`
	Debt             float64 `json:"debt"`
	NetProfit        float64 `json:"netProfit"`
	ProfitMargin     float64 `json:"profitMargin"`
}

// Summary computes Metrics over records whose relevant date falls in
// [start, end]: Enrollment.CreatedAt, Subscription.CreatedAt,
// Expense.Date and WorkspaceSession.Date. Nil bounds mean all time.
func Summary(st core.State, start, end *time.Time) Metrics {
	var m Metrics
	var coursePotential, subPotential float64

	for _, e := range st.Enrollments {
		if !ledger.DateInRange(e.CreatedAt, start, end) {
			continue
		}
		m.CourseRevenue += e.PaidAmount
		if c, ok := st.CourseByID(e.CourseID); ok {
			coursePotential += c.PriceTotal
		}
	}
	for _, sub := range st.Subscriptions {
		if !ledger.DateInRange(sub.CreatedAt, start, end) {
			continue
		}
		m.SubRevenue += sub.PaidAmount
		subPotential += sub.TotalPrice
	}
	for _, w := range st.Workspace {
		if !dayInRange(w.Date, start, end) {
			continue
		}
		m.WorkspaceRevenue += ledger.SessionCost(w.CheckInAt, w.CheckOutAt, st.Settings.HourlyRate)
	}
	for _, e := range st.Expenses {
		if !dayInRange(e.Date, start, end) {
			continue
		}
		m.Expenses += e.Amount
	}

	m.Revenue = m.CourseRevenue + m.SubRevenue + m.WorkspaceRevenue
	m.Debt = (coursePotential + subPotential) - (m.CourseRevenue + m.SubRevenue)
	m.NetProfit = NetProfit(m.Revenue, m.Expenses)
	m.ProfitMargin = ProfitMargin(m.NetProfit, m.Revenue)
	return m
}

// Revenue is the all-time realized income: course payments,
// subscription payments and billed workspace time.
func Revenue(st core.State) float64 {
	return Summary(st, nil, nil).Revenue
}

// Debt is the all-time uncollected balance.
func Debt(st core.State) float64 {
	return Summary(st, nil, nil).Debt
}

func NetProfit(revenue, expenses float64) float64 {
	return revenue - expenses
}

// ProfitMargin is net/revenue as a percentage, 0 when revenue is 0
// (guard, not an error).
func ProfitMargin(net, revenue float64) float64 {
	if revenue == 0 {
		return 0
	}
	return net / revenue * 100
}

// OutstandingStudents lists students whose remaining balance is
// positive, in store iteration order. Feeds the payment-alerts list.
func OutstandingStudents(st core.State) []core.Student {
	var out []core.Student
	for _, s := range st.Students {
		if StudentBalance(st, s.ID).Remaining > 0 {
			out = append(out, s)
		}
	}
	return out
}

// dayInRange applies DateInRange to YYYY-MM-DD fields. A record with
// an unparseable day only passes the unbounded filter.
func dayInRange(day string, start, end *time.Time) bool {
	if start == nil && end == nil {
		return true
	}
	t, err := ledger.ParseDay(day)
	if err != nil {
		return false
	}
	return ledger.DateInRange(t, start, end)
}
