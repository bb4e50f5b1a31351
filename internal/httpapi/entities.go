package httpapi

import (
	"net/http"
	"strings"

	"github.com/z2hlabs/edudesk/internal/domain/core"
	"github.com/z2hlabs/edudesk/internal/domain/report"
)

// ---- auth ----

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !a.readJSON(w, r, &req) {
		return
	}
	if err := a.store.Login(req.Username, req.Password); err != nil {
		a.writeErr(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	u, _ := a.store.CurrentUser()
	a.writeJSON(w, http.StatusOK, u)
}

func (a *API) logout(w http.ResponseWriter, _ *http.Request) {
	a.store.Logout()
	a.writeOK(w)
}

// ---- mentors ----

func (a *API) listMentors(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, http.StatusOK, a.store.Snapshot().Mentors)
}

func (a *API) addMentor(w http.ResponseWriter, r *http.Request) {
	var m core.Mentor
	if !a.readJSON(w, r, &m) {
		return
	}
	if strings.TrimSpace(m.Name) == "" {
		a.writeErr(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	a.count("addMentor")
	a.writeJSON(w, http.StatusCreated, map[string]string{"id": a.store.AddMentor(m)})
}

func (a *API) updateMentor(w http.ResponseWriter, r *http.Request) {
	var p core.MentorPatch
	if !a.readJSON(w, r, &p) {
		return
	}
	a.countIf("updateMentor", a.store.UpdateMentor(r.PathValue("id"), p))
	a.writeOK(w)
}

func (a *API) deleteMentor(w http.ResponseWriter, r *http.Request) {
	a.countIf("deleteMentor", a.store.DeleteMentor(r.PathValue("id")))
	a.writeOK(w)
}

// ---- students ----

func (a *API) listStudents(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, http.StatusOK, a.store.Snapshot().Students)
}

func (a *API) addStudent(w http.ResponseWriter, r *http.Request) {
	var s core.Student
	if !a.readJSON(w, r, &s) {
		return
	}
	if strings.TrimSpace(s.Name) == "" {
		a.writeErr(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	a.count("addStudent")
	a.writeJSON(w, http.StatusCreated, map[string]string{"id": a.store.AddStudent(s)})
}

func (a *API) updateStudent(w http.ResponseWriter, r *http.Request) {
	var p core.StudentPatch
	if !a.readJSON(w, r, &p) {
		return
	}
	a.countIf("updateStudent", a.store.UpdateStudent(r.PathValue("id"), p))
	a.writeOK(w)
}

func (a *API) deleteStudent(w http.ResponseWriter, r *http.Request) {
	a.countIf("deleteStudent", a.store.DeleteStudent(r.PathValue("id")))
	a.writeOK(w)
}

func (a *API) studentBalance(w http.ResponseWriter, r *http.Request) {
	st := a.store.Snapshot()
	id := r.PathValue("id")
	if _, found := st.StudentByID(id); !found {
		a.writeErr(w, http.StatusNotFound, "unknown student")
		return
	}
	a.writeJSON(w, http.StatusOK, report.StudentBalance(st, id))
}

// ---- courses ----

func (a *API) listCourses(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, http.StatusOK, a.store.Snapshot().Courses)
}

func (a *API) addCourse(w http.ResponseWriter, r *http.Request) {
	var c core.Course
	if !a.readJSON(w, r, &c) {
		return
	}
	if strings.TrimSpace(c.Title) == "" {
		a.writeErr(w, http.StatusUnprocessableEntity, "title is required")
		return
	}
	if c.PriceTotal < 0 {
		a.writeErr(w, http.StatusUnprocessableEntity, "priceTotal must be non-negative")
		return
	}
	a.count("addCourse")
	a.writeJSON(w, http.StatusCreated, map[string]string{"id": a.store.AddCourse(c)})
}

func (a *API) updateCourse(w http.ResponseWriter, r *http.Request) {
	var p core.CoursePatch
	if !a.readJSON(w, r, &p) {
		return
	}
	if p.PriceTotal != nil && *p.PriceTotal < 0 {
		a.writeErr(w, http.StatusUnprocessableEntity, "priceTotal must be non-negative")
		return
	}
	a.countIf("updateCourse", a.store.UpdateCourse(r.PathValue("id"), p))
	a.writeOK(w)
}

func (a *API) deleteCourse(w http.ResponseWriter, r *http.Request) {
	a.countIf("deleteCourse", a.store.DeleteCourse(r.PathValue("id")))
	a.writeOK(w)
}
