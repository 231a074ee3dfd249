// Package i18n holds the user-facing strings of the portal. Only Spanish is shipped.
package i18n

import "strings"

// Lang is the only shipped locale.
const Lang = "es"

var catalog = map[string]string{
	// validation codes
	"required":             "Requerido",
	"invalid_format":       "Formato inválido",
	"must_not_be_negative": "No puede ser negativo",

	// entry screen
	"entry.required":       "El idCliente es obligatorio.",
	"entry.invalid_format": "Formato inválido (3–20 caracteres).",
	"entry.not_found":      "No se encontraron facturas asociadas a ese idCliente.",
	"entry.check_failed":   "Error al verificar el cliente.",

	// admin search form
	"search.required":       "El campo idCliente es obligatorio.",
	"search.invalid_format": "Formato inválido. Use 3–20 caracteres (letras, números, _ o -).",

	// invoice views
	"invoices.empty":         "No se encontraron facturas asociadas al idCliente ingresado.",
	"invoices.empty_admin":   "No se encontraron facturas asociadas al Cliente ingresado.",
	"invoices.busy":          "Hay una operación en curso, espere un momento.",
	"invoices.not_pending":   "La factura no está pendiente de pago.",
	"invoices.not_paid":      "La factura no está pagada.",
	"invoices.dialog_locked": "El pago se está procesando.",
	"invoices.no_selection":  "No hay ninguna factura seleccionada.",
	"invoices.not_found":     "La factura no existe en la lista.",
	"invoices.no_customer":   "Primero busca un cliente",

	// statuses
	"status.PENDIENTE": "Pendiente",
	"status.PAGADO":    "Pagado",
}

// T translates a code, falling back to the code itself.
func T(code string) string {
	if s, ok := catalog[code]; ok {
		return s
	}
	return code
}

// Scoped translates prefix + "." + code, falling back to the bare code translation.
func Scoped(prefix, code string) string {
	key := prefix + "." + code
	if s, ok := catalog[key]; ok {
		return s
	}
	return T(code)
}

// Has reports whether code is in the catalog.
func Has(code string) bool {
	_, ok := catalog[strings.TrimSpace(code)]
	return ok
}
