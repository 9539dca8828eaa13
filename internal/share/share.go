// Package share builds the WhatsApp share link for a rendered document.
package share

import (
	"errors"
	"net/url"
	"strings"

	"github.com/smallbiznis/quotedesk/internal/render"
)

const (
	baseURL          = "https://wa.me/"
	localNumberLen   = 10
	closingLine      = "Thank you for your business!"
	fallbackCustomer = "N/A"
)

var ErrMissingContact = errors.New("missing_contact_number")

// Link is a share target and the message it carries.
type Link struct {
	URL     string `json:"url"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Phone strips everything but digits and prefixes countryCode to bare
// ten-digit numbers.
func Phone(raw, countryCode string) string {
	digits := onlyDigits(raw)
	if len(digits) == localNumberLen {
		return onlyDigits(countryCode) + digits
	}
	return digits
}

// Message is the plain-text summary sent with the link. Invoices quote the
// grand total; quotations the total amount.
func Message(doc render.Document, customer, date string) string {
	if strings.TrimSpace(customer) == "" {
		customer = fallbackCustomer
	}
	lines := []string{
		doc.Variant.Title() + " " + doc.Reference,
		"Customer: " + customer,
		"Total Amount: " + render.FormatMoney(doc.GrandTotal(), doc.Currency),
		"Date: " + date,
		closingLine,
	}
	return strings.Join(lines, "\n")
}

// Build returns the wa.me link for doc addressed to contact.
func Build(doc render.Document, customer, contact, date, countryCode string) (Link, error) {
	phone := Phone(contact, countryCode)
	if phone == "" {
		return Link{}, ErrMissingContact
	}
	msg := Message(doc, customer, date)
	return Link{
		URL:     baseURL + phone + "?text=" + encode(msg),
		Phone:   phone,
		Message: msg,
	}, nil
}

// encode percent-encodes like encodeURIComponent for the characters the
// message can contain; spaces become %20 rather than +.
func encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
