package core

import (
	"fmt"
	"regexp"
	"strings"
)

// maxReportedPerKind caps the literal per-row format errors for each field
// kind. Anything beyond it is folded into a single warning.
const maxReportedPerKind = 5

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var nonDigit = regexp.MustCompile(`\D`)

// Header substrings used to find contact columns (matched case-insensitively).
var (
	emailHints = []string{"email", "mail"}
	phoneHints = []string{"phone", "mobile", "number"}
	nameHints  = []string{"name", "first", "last"}
)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// ValidPhone reports whether s holds 10 to 15 digits once every non-digit
// is removed.
func ValidPhone(s string) bool {
	n := len(nonDigit.ReplaceAllString(s, ""))
	return n >= 10 && n <= 15
}

// ValidateContacts checks a dataset that is expected to hold a contact list.
// It is meant to run after the structural Validate pass and can be combined
// with it through Merge. d should come from ParseRaw so phone numbers keep
// their leading zeros.
//
// Row numbers in messages assume a header line, so the first data row is
// row 2.
func ValidateContacts(d *Dataset) ValidationResult {
	res := newResult()

	if d == nil || d.Len() == 0 {
		return res.fail("CSV file is empty")
	}

	keys := d.presentKeys(0)
	emailCol := findColumn(keys, emailHints...)
	phoneCol := findColumn(keys, phoneHints...)
	nameCol := findColumn(keys, nameHints...)

	if emailCol == "" && phoneCol == "" {
		res.Errors = append(res.Errors, "CSV must contain at least one email or phone column")
	}
	if nameCol == "" {
		res.Warnings = append(res.Warnings,
			"No name column detected. Consider adding a name column for better personalization")
	}

	stats := &ContactStats{TotalRows: d.Len()}

	for i := 0; i < d.Len(); i++ {
		rowNumber := i + 2

		if v, ok := lookup(d, i, emailCol); ok && !v.IsEmpty() {
			if ValidEmail(strings.TrimSpace(v.String())) {
				stats.ValidEmails++
			} else {
				stats.InvalidEmails++
				if stats.InvalidEmails <= maxReportedPerKind {
					res.Errors = append(res.Errors,
						fmt.Sprintf("Invalid email format in row %d: %s", rowNumber, v.String()))
				}
			}
		}

		if v, ok := lookup(d, i, phoneCol); ok && !v.IsEmpty() {
			if ValidPhone(strings.TrimSpace(v.String())) {
				stats.ValidPhones++
			} else {
				stats.InvalidPhones++
				if stats.InvalidPhones <= maxReportedPerKind {
					res.Errors = append(res.Errors,
						fmt.Sprintf("Invalid phone format in row %d: %s", rowNumber, v.String()))
				}
			}
		}
	}

	if extra := stats.InvalidEmails - maxReportedPerKind; extra > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%d more invalid email addresses found", extra))
	}
	if extra := stats.InvalidPhones - maxReportedPerKind; extra > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%d more invalid phone numbers found", extra))
	}

	stats.TotalValid = stats.ValidEmails + stats.ValidPhones
	stats.TotalInvalid = stats.InvalidEmails + stats.InvalidPhones
	if stats.TotalValid == 0 {
		res.Errors = append(res.Errors, "No valid email addresses or phone numbers found")
	}

	res.Stats = stats
	res.Valid = len(res.Errors) == 0
	return res
}

// CleanContacts normalizes the contact fields of every row and keeps only the
// rows with a valid email or phone. Emails are lowercased; the name comes from
// a name column, then first/last columns, then the email's local part.
// Like ValidateContacts it expects a dataset from ParseRaw.
func CleanContacts(d *Dataset) []Contact {
	if d == nil || d.Len() == 0 {
		return nil
	}

	keys := d.presentKeys(0)
	emailCol := findColumn(keys, emailHints...)
	phoneCol := findColumn(keys, phoneHints...)
	nameCol := findColumn(keys, "name")
	firstCol := findColumn(keys, "first")
	lastCol := findColumn(keys, "last")

	var out []Contact
	for i := 0; i < d.Len(); i++ {
		c := Contact{RowID: i}

		if v, ok := lookup(d, i, emailCol); ok && !v.IsEmpty() {
			c.Email = strings.ToLower(strings.TrimSpace(v.String()))
			c.HasEmail = ValidEmail(c.Email)
		}
		if v, ok := lookup(d, i, phoneCol); ok && !v.IsEmpty() {
			c.Phone = strings.TrimSpace(v.String())
			c.HasPhone = ValidPhone(c.Phone)
		}

		switch {
		case nameCol != "":
			v, _ := lookup(d, i, nameCol)
			c.Name = strings.TrimSpace(v.String())
		case firstCol != "" || lastCol != "":
			first, _ := lookup(d, i, firstCol)
			last, _ := lookup(d, i, lastCol)
			c.Name = strings.TrimSpace(strings.TrimSpace(first.String()) + " " + strings.TrimSpace(last.String()))
		case c.Email != "":
			c.Name, _, _ = strings.Cut(c.Email, "@")
		default:
			c.Name = "Unknown"
		}

		if c.HasEmail || c.HasPhone {
			out = append(out, c)
		}
	}
	return out
}

// findColumn returns the first key containing any of the hints,
// compared case-insensitively. It returns "" when nothing matches.
func findColumn(keys []string, hints ...string) string {
	for _, k := range keys {
		lower := strings.ToLower(strings.TrimSpace(k))
		for _, h := range hints {
			if strings.Contains(lower, h) {
				return k
			}
		}
	}
	return ""
}

// lookup is Dataset.Value that treats an unresolved column ("") as absent.
func lookup(d *Dataset, i int, col string) (Value, bool) {
	if col == "" {
		return Value{}, false
	}
	return d.Value(i, col)
}
