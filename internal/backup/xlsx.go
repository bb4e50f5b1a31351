package backup

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/z2hlabs/edudesk/internal/domain/core"
	"github.com/z2hlabs/edudesk/internal/domain/report"
	"github.com/z2hlabs/edudesk/internal/i18n"
)

// ParseStudentsXLSX reads the bulk student upload: first sheet, one
// header row, at minimum a name column and an optional phone column.
// Headers are matched by localized label in either language, with a
// positional fallback (columns A and B). Rows with a blank name are
// silently dropped; ids are assigned by the store on insert.
func ParseStudentsXLSX(r io.Reader) ([]core.Student, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Cause: err}
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &ParseError{Cause: err}
	}
	if len(rows) < 2 {
		return nil, nil
	}

	nameCol, phoneCol := 0, 1
	for i, h := range rows[0] {
		switch strings.TrimSpace(h) {
		case i18n.T(i18n.LangEn, "name"), i18n.T(i18n.LangAr, "name"):
			nameCol = i
		case i18n.T(i18n.LangEn, "phone"), i18n.T(i18n.LangAr, "phone"):
			phoneCol = i
		}
	}

	var out []core.Student
	for _, row := range rows[1:] {
		name := strings.TrimSpace(cell(row, nameCol))
		if name == "" {
			continue
		}
		out = append(out, core.Student{
			Name:  name,
			Phone: strings.TrimSpace(cell(row, phoneCol)),
		})
	}
	return out, nil
}

// StudentTemplateXLSX builds the header-only workbook offered for
// download next to the upload button.
func StudentTemplateXLSX(lang i18n.Lang) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	header := []interface{}{i18n.T(lang, "name"), i18n.T(lang, "phone")}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// AttendanceXLSX exports the attendance grid for one course: a row per
// enrollment, a column per distinct attendance date observed across
// the course's enrollments (ascending), presence rendered as a
// localized label. Name, paid, remaining and status lead each row.
func AttendanceXLSX(st core.State, courseID string, lang i18n.Lang) ([]byte, error) {
	course, ok := st.CourseByID(courseID)
	if !ok {
		return nil, fmt.Errorf("backup: unknown course %q", courseID)
	}

	var enrollments []core.Enrollment
	dateSet := map[string]bool{}
	for _, e := range st.Enrollments {
		if e.CourseID != courseID {
			continue
		}
		enrollments = append(enrollments, e)
		for d := range e.Attendance {
			dateSet[d] = true
		}
	}
	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		i18n.T(lang, "student"),
		i18n.T(lang, "paid"),
		i18n.T(lang, "remaining"),
		i18n.T(lang, "status"),
	}
	for _, d := range dates {
		header = append(header, d)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, e := range enrollments {
		name := e.StudentID
		if s, ok := st.StudentByID(e.StudentID); ok {
			name = s.Name
		}
		row := []interface{}{
			name,
			e.PaidAmount,
			report.CourseRemaining(e, course),
			string(e.Status),
		}
		for _, d := range dates {
			key := "absent"
			if e.Attendance[d] {
				key = "present"
			}
			row = append(row, i18n.T(lang, key))
		}
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
