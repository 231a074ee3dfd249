// Package screens holds the per-session state machines behind the three
// pages: customer entry, customer invoice view and admin invoice view.
package screens

import (
	"errors"

	"github.com/diewo77/go-facturas/i18n"
	"github.com/diewo77/go-facturas/internal/services"
)

// State is the lifecycle of a screen's data.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Guard errors returned by controller actions.
var (
	ErrBusy         = errors.New("screen busy")
	ErrInvalid      = errors.New("invalid customer identifier")
	ErrNoCustomer   = errors.New("no customer selected")
	ErrNotFound     = errors.New("invoice not in list")
	ErrNotPending   = errors.New("invoice is not pending")
	ErrNotPaid      = errors.New("invoice is not paid")
	ErrNotAllowed   = errors.New("action not available on this screen")
	ErrDialogLocked = errors.New("payment in progress")
	ErrNoSelection  = errors.New("no invoice selected")
	ErrUnmounted    = errors.New("screen unmounted")
)

var guardCodes = map[error]string{
	ErrBusy:         "invoices.busy",
	ErrNoCustomer:   "invoices.no_customer",
	ErrNotFound:     "invoices.not_found",
	ErrNotPending:   "invoices.not_pending",
	ErrNotPaid:      "invoices.not_paid",
	ErrDialogLocked: "invoices.dialog_locked",
	ErrNoSelection:  "invoices.no_selection",
}

// IsGuard reports whether err is a refused transition rather than a backend failure.
func IsGuard(err error) bool {
	for g := range guardCodes {
		if errors.Is(err, g) {
			return true
		}
	}
	return errors.Is(err, ErrNotAllowed) || errors.Is(err, ErrInvalid) || errors.Is(err, ErrUnmounted)
}

// Message returns the text to display for err.
func Message(err error) string {
	for g, code := range guardCodes {
		if errors.Is(err, g) {
			return i18n.T(code)
		}
	}
	return services.Message(err)
}
