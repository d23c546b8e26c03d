// Package directory loads the guest list from a CSV file at startup and
// resolves sender phone numbers to display names. The directory is read-only
// after load.
package directory

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// DefaultName is used when a phone number is not on the guest list. Replies
// still go out; the list is only used for personalization.
const DefaultName = "Guest"

type Recipient struct {
	Number    string
	FirstName string
}

type Directory struct {
	recipients []Recipient
	byNumber   map[string]Recipient
}

// Load reads a header-keyed CSV with "number" and "first_name" columns.
// Empty rows are skipped. Unknown columns are ignored.
func Load(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recipients file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse recipients file: %w", err)
	}
	if len(records) == 0 {
		return &Directory{byNumber: map[string]Recipient{}}, nil
	}

	numberCol, nameCol := -1, -1
	for i, col := range records[0] {
		switch strings.TrimSpace(col) {
		case "number":
			numberCol = i
		case "first_name":
			nameCol = i
		}
	}
	if numberCol < 0 || nameCol < 0 {
		return nil, fmt.Errorf("recipients file %s: missing number/first_name columns", path)
	}

	d := &Directory{byNumber: make(map[string]Recipient)}
	for _, row := range records[1:] {
		if numberCol >= len(row) || nameCol >= len(row) {
			continue
		}
		rec := Recipient{
			Number:    strings.TrimSpace(row[numberCol]),
			FirstName: strings.TrimSpace(row[nameCol]),
		}
		if rec.Number == "" {
			continue
		}
		d.recipients = append(d.recipients, rec)
		d.byNumber[rec.Number] = rec
	}

	return d, nil
}

func (d *Directory) FindByPhone(number string) (Recipient, bool) {
	rec, ok := d.byNumber[number]
	return rec, ok
}

// DisplayName resolves a phone number to a first name, falling back to
// DefaultName for numbers not on the list.
func (d *Directory) DisplayName(number string) string {
	if rec, ok := d.byNumber[number]; ok && rec.FirstName != "" {
		return rec.FirstName
	}
	return DefaultName
}

// All returns the recipients in file order, for the bulk senders.
func (d *Directory) All() []Recipient {
	return d.recipients
}
