// Package i18n holds the handful of localized labels the backend
// itself emits: spreadsheet column headers and attendance cell values.
// The full UI string table lives with the out-of-scope frontend.
package i18n

type Lang string

const (
	LangAr Lang = "ar"
	LangEn Lang = "en"
)

var table = map[Lang]map[string]string{
	LangEn: {
		"name":      "Name",
		"phone":     "Phone",
		"student":   "Student",
		"paid":      "Paid",
		"remaining": "Remaining",
		"status":    "Status",
		"present":   "Present",
		"absent":    "Absent",
	},
	LangAr: {
		"name":      "الاسم",
		"phone":     "الهاتف",
		"student":   "الطالب",
		"paid":      "المدفوع",
		"remaining": "المتبقي",
		"status":    "الحالة",
		"present":   "حاضر",
		"absent":    "غائب",
	},
}

// T returns the label for key in lang, falling back to English, then
// to the key itself.
func T(lang Lang, key string) string {
	if m, ok := table[lang]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if v, ok := table[LangEn][key]; ok {
		return v
	}
	return key
}
