// Package view renders the HTML pages from embedded templates.
package view

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/diewo77/go-facturas/i18n"
	"github.com/diewo77/go-facturas/internal/models"
	"github.com/shopspring/decimal"
)

//go:embed templates static
var files embed.FS

// SkeletonRows is the number of placeholder rows shown while loading.
const SkeletonRows = 8

var (
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}

	devMode bool
)

// SetDev disables the template cache.
func SetDev(dev bool) { devMode = dev }

// ResetForTests clears the template cache.
func ResetForTests() {
	tplCache.Lock()
	tplCache.m = map[string]*template.Template{}
	tplCache.Unlock()
}

// Funcs returns the func map shared by every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"t":     i18n.T,
		"money": Money,
		"year":  func() int { return time.Now().Year() },
		"date":  Date,
		// statusClass picks the badge color modifier.
		"statusClass": func(s models.InvoiceStatus) string {
			switch s {
			case models.InvoiceStatusPaid:
				return "badge--success"
			case models.InvoiceStatusPending:
				return "badge--inherit"
			default:
				return "badge--error"
			}
		},
		"isPaid":    func(s models.InvoiceStatus) bool { return s == models.InvoiceStatusPaid },
		"isPending": func(s models.InvoiceStatus) bool { return s == models.InvoiceStatusPending },
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i
			}
			return out
		},
		"add": func(a, b int) int { return a + b },
		"pageURL": func(base, q string, status models.InvoiceStatus, page int) string {
			v := url.Values{}
			if q != "" {
				v.Set("q", q)
			}
			if status != "" {
				v.Set("estado", string(status))
			}
			v.Set("page", fmt.Sprint(page))
			return base + "?" + v.Encode()
		},
		// dict creates a map from key-value pairs for passing to sub-templates.
		// Usage: {{ template "partial" (dict "Key1" val1 "Key2" val2) }}
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
	}
}

// Money formats an amount the way receipts show it: "Bs. 58.20".
func Money(d decimal.Decimal) string {
	return "Bs. " + d.StringFixed(2)
}

// Date formats a payment date as dd/mm/yyyy; a nil date renders as today.
func Date(t *time.Time) string {
	if t == nil {
		return time.Now().Format("02/01/2006")
	}
	return t.Format("02/01/2006")
}

func parse(name string) (*template.Template, error) {
	if !devMode {
		tplCache.RLock()
		t, ok := tplCache.m[name]
		tplCache.RUnlock()
		if ok {
			return t, nil
		}
	}
	t, err := template.New("layout.html").Funcs(Funcs()).ParseFS(files,
		"templates/layout.html",
		"templates/partials/*.html",
		"templates/"+name,
	)
	if err != nil {
		return nil, err
	}
	if !devMode {
		tplCache.Lock()
		tplCache.m[name] = t
		tplCache.Unlock()
	}
	return t, nil
}

// Render executes the page template name inside the layout. Output is
// buffered so a failing template never sends a partial page.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	return RenderStatus(w, r, http.StatusOK, name, data)
}

// RenderStatus is Render with an explicit status code.
func RenderStatus(w http.ResponseWriter, _ *http.Request, status int, name string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}
	t, err := parse(name)
	if err != nil {
		return err
	}
	if t.Lookup("content") == nil {
		return errors.New("view: template " + name + " defines no content")
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

// Static serves the embedded stylesheet.
func Static() http.Handler {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServerFS(sub)
}
