package server

import (
	"time"

	"github.com/jrsteele09/go-inventory-dashboard/inventory"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/unicode/norm"
)

var printer = message.NewPrinter(language.Spanish)

// formatPrice renders an amount with Spanish separators: "$ 12.345,50"
func formatPrice(a inventory.Amount) string {
	return printer.Sprintf("$ %.2f", float64(a))
}

func formatCount(n int) string {
	return printer.Sprintf("%d", n)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("02/01/2006")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("02/01/2006 15:04")
}

// formValue reads a form field normalized to NFC, so the backend sees one
// encoding for accented names.
func formValue(form interface{ Get(string) string }, key string) string {
	return norm.NFC.String(form.Get(key))
}
