package core

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ── Invoice numbering ────────────────────────────────────────────────────────
//
// Numbers are <CompanyInitials><NN>, sequential per company prefix. Two
// companies that share initials share a namespace; the collision is logged
// but not resolved here.

var (
	invoiceNumberPattern = regexp.MustCompile(`^([A-Za-z]+)(\d+)$`)
	digitRun             = regexp.MustCompile(`\d+`)
)

// CompanyPrefix returns the uppercase first letter of each word of company.
// Words with no letters contribute nothing.
func CompanyPrefix(company string) string {
	var b strings.Builder
	for _, word := range strings.Fields(company) {
		for _, r := range word {
			if unicode.IsLetter(r) {
				b.WriteRune(unicode.ToUpper(r))
				break
			}
		}
	}
	return b.String()
}

// ParseInvoiceNumber splits "AW04" into ("AW", 4). Numbers that don't match
// the canonical shape fall back to the first digit run, with that run removed
// from the prefix. A number with no digits, or with a suffix too large for
// an int, parses as (prefix, 0) and so never drives numbering.
func ParseInvoiceNumber(number string) (prefix string, n int) {
	if number == "" {
		return "", 0
	}
	if m := invoiceNumberPattern.FindStringSubmatch(number); m != nil {
		return m[1], invoiceSuffix(number, m[2])
	}
	if loc := digitRun.FindStringIndex(number); loc != nil {
		return number[:loc[0]] + number[loc[1]:], invoiceSuffix(number, number[loc[0]:loc[1]])
	}
	return number, 0
}

func invoiceSuffix(number, digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		log.Printf("invoice numbering: suffix of %q is out of range; ignored", number)
		return 0
	}
	return n
}

// NextInvoiceNumber returns prefix + zeroPad(max+1, 2), where max is the
// highest suffix among existing numbers carrying the same prefix. Gaps are
// not reused.
func NextInvoiceNumber(company string, existing []Invoice) string {
	prefix := CompanyPrefix(company)
	highest := 0
	for _, inv := range existing {
		p, n := ParseInvoiceNumber(inv.InvoiceNumber)
		if p == prefix && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%02d", prefix, highest+1)
}

// AssignInvoiceNumber picks the next number for company from the invoices
// held by users of that company. It never fails: a missing company yields
// INV+timestamp, a company with no account yields initials+"01", and any
// unexpected failure yields ERR+timestamp. Every fallback is logged.
func AssignInvoiceNumber(doc *Document, company string, now time.Time) (number string) {
	defer func() {
		if rv := recover(); rv != nil {
			number = "ERR" + timestampSuffix(now)
			log.Printf("invoice numbering failed for %q: %v; using %s", company, rv, number)
		}
	}()

	prefix := CompanyPrefix(company)
	if strings.TrimSpace(company) == "" || prefix == "" {
		number = "INV" + timestampSuffix(now)
		log.Printf("invoice numbering: invalid company name %q; using %s", company, number)
		return number
	}

	var existing []Invoice
	found := false
	for _, u := range doc.Users {
		switch {
		case u.Company == company:
			found = true
			existing = append(existing, u.Invoices...)
		case u.Company != "" && CompanyPrefix(u.Company) == prefix && len(u.Invoices) > 0:
			log.Printf("invoice numbering: prefix %s is shared by %q and %q", prefix, company, u.Company)
		}
	}
	if !found {
		number = prefix + "01"
		log.Printf("invoice numbering: no account for company %q; using %s", company, number)
		return number
	}
	return NextInvoiceNumber(company, existing)
}

// timestampSuffix is the last six digits of the Unix millisecond clock.
func timestampSuffix(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return ms
}
