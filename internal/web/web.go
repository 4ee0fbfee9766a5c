// Package web holds the server-rendered staff and public pages.
package web

import (
	"embed"
	"html/template"
	"time"

	"github.com/BruksfildServices01/aklinic/internal/notify"
	"github.com/BruksfildServices01/aklinic/internal/receipts"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses every page with helpers bound to the clinic timezone.
func Templates(loc *time.Location) (*template.Template, error) {
	if loc == nil {
		loc = time.UTC
	}
	return template.New("pages").
		Funcs(funcs(loc)).
		ParseFS(files, "templates/*.html")
}

func funcs(loc *time.Location) template.FuncMap {
	format := func(v any, layout string) string {
		switch t := v.(type) {
		case time.Time:
			return t.In(loc).Format(layout)
		case *time.Time:
			if t == nil {
				return ""
			}
			return t.In(loc).Format(layout)
		}
		return ""
	}

	return template.FuncMap{
		"queue": notify.QueueLabel,
		"money": receipts.FormatMoney,
		"statusLabel": func(s string) string {
			switch s {
			case "WAITING":
				return "Waiting"
			case "IN_PROGRESS":
				return "In progress"
			case "COMPLETED":
				return "Completed"
			}
			return s
		},
		"clock":    func(v any) string { return format(v, "15:04") },
		"date":     func(v any) string { return format(v, "2006-01-02") },
		"datetime": func(v any) string { return format(v, "2006-01-02 15:04") },
	}
}
