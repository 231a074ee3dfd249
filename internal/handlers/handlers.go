package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/diewo77/go-facturas/httpx"
	"github.com/diewo77/go-facturas/internal/logger"
	"github.com/diewo77/go-facturas/internal/models"
	"github.com/diewo77/go-facturas/internal/screens"
	"github.com/diewo77/go-facturas/internal/services"
	"github.com/diewo77/go-facturas/session"
	"github.com/diewo77/go-facturas/view"
	"go.uber.org/zap"
)

// Runner executes the second half of a screen action after the response has
// been sent, so the next page load shows the loading or paying state.
type Runner struct {
	wg  sync.WaitGroup
	log *zap.Logger
}

func NewRunner(log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{log: log}
}

// Go runs fn detached from the request's cancellation.
func (b *Runner) Go(r *http.Request, action string, fn func(context.Context) error) {
	ctx := context.WithoutCancel(r.Context())
	l := logger.FromContext(ctx)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := fn(ctx); err != nil {
			switch {
			case errors.Is(err, screens.ErrUnmounted):
				l.Debug("result discarded", zap.String("action", action))
			default:
				l.Warn("screen action failed", zap.String("action", action), zap.Error(err))
			}
		}
	}()
}

// Wait blocks until every started action has finished.
func (b *Runner) Wait() { b.wg.Wait() }

// sessionScreens returns the screens of the request's session.
func sessionScreens(reg *screens.Registry, r *http.Request) *screens.Screens {
	id, ok := session.IDFromContext(r.Context())
	if !ok {
		// Without the session middleware requests are grouped by remote address.
		id = "anonymous:" + r.RemoteAddr
	}
	return reg.Get(id)
}

// guardStatus maps a refused screen transition to an HTTP status.
func guardStatus(err error) int {
	switch {
	case errors.Is(err, screens.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, screens.ErrNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, screens.ErrInvalid):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusConflict
	}
}

// parseQuery reads the q/estado/page parameters. ok is false when the
// request carries none of them.
func parseQuery(r *http.Request) (text string, status models.InvoiceStatus, page int, ok bool) {
	q := r.URL.Query()
	if !q.Has("q") && !q.Has("estado") && !q.Has("page") {
		return "", "", 0, false
	}
	text = q.Get("q")
	status, _ = models.ParseInvoiceStatus(q.Get("estado"))
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		page = 1
	}
	return text, status, page, true
}

func formInvoiceID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(r.FormValue("id")))
	return id, err == nil
}

func renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, status, msg, nil)
		return
	}
	if err := view.RenderStatus(w, r, status, "error.html", map[string]any{"Title": "Error", "Message": msg}); err != nil {
		logger.FromContext(r.Context()).Error("render error page", zap.Error(err))
		http.Error(w, msg, status)
	}
}

// serviceStatus maps backend failures for the JSON API.
func serviceStatus(err error) int {
	var se *services.Error
	if errors.As(err, &se) {
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
