package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/z2hlabs/edudesk/internal/backup"
	"github.com/z2hlabs/edudesk/internal/i18n"
)

// uploads are small spreadsheets and backup documents; cap them anyway.
const maxUploadBytes = 10 << 20

func (a *API) exportBackup(w http.ResponseWriter, _ *http.Request) {
	doc, err := backup.ExportSnapshot(a.store.Snapshot())
	if err != nil {
		a.log.Error("backup export failed", "err", err)
		a.writeErr(w, http.StatusInternalServerError, "export failed")
		return
	}
	name := fmt.Sprintf("edudesk-backup-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write(doc)
}

func (a *API) importBackup(w http.ResponseWriter, r *http.Request) {
	doc, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		a.writeErr(w, http.StatusBadRequest, "read body failed")
		return
	}
	if err := backup.ImportSnapshot(a.store, doc); err != nil {
		var pe *backup.ParseError
		if errors.As(err, &pe) {
			a.writeErr(w, http.StatusUnprocessableEntity, pe.Error())
			return
		}
		a.log.Error("backup import failed", "err", err)
		a.writeErr(w, http.StatusInternalServerError, "import failed")
		return
	}
	if a.metrics != nil {
		a.metrics.Imports.Inc()
	}
	a.log.Info("backup imported")
	a.writeOK(w)
}

func (a *API) importStudents(w http.ResponseWriter, r *http.Request) {
	students, err := backup.ParseStudentsXLSX(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		a.writeErr(w, http.StatusUnprocessableEntity, "could not read workbook")
		return
	}
	a.count("addStudentsBatch")
	ids := a.store.AddStudentsBatch(students)
	a.writeJSON(w, http.StatusOK, map[string]any{"ok": true, "imported": len(ids)})
}

func (a *API) studentTemplate(w http.ResponseWriter, r *http.Request) {
	doc, err := backup.StudentTemplateXLSX(a.lang())
	if err != nil {
		a.log.Error("template build failed", "err", err)
		a.writeErr(w, http.StatusInternalServerError, "template failed")
		return
	}
	serveXLSX(w, "student-import-template.xlsx", doc)
}

func (a *API) attendanceExport(w http.ResponseWriter, r *http.Request) {
	doc, err := backup.AttendanceXLSX(a.store.Snapshot(), r.PathValue("id"), a.lang())
	if err != nil {
		a.writeErr(w, http.StatusNotFound, "unknown course")
		return
	}
	serveXLSX(w, "attendance.xlsx", doc)
}

func (a *API) sendOutstandingAlert(w http.ResponseWriter, _ *http.Request) {
	if a.notifier == nil {
		a.writeErr(w, http.StatusServiceUnavailable, "telegram is not configured")
		return
	}
	if err := a.notifier.SendOutstanding(a.store.Snapshot()); err != nil {
		a.log.Error("alert send failed", "err", err)
		a.writeErr(w, http.StatusBadGateway, "alert send failed")
		return
	}
	a.writeOK(w)
}

func (a *API) lang() i18n.Lang {
	return i18n.Lang(a.store.Snapshot().Settings.Lang)
}

func serveXLSX(w http.ResponseWriter, name string, doc []byte) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write(doc)
}
