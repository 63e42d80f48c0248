package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar date with no time component. The zero value means
	// "no date provided"; the service layer fills it in at save time.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Expense is one persisted expense record. ID is zero until the first
	// successful save and never changes afterwards.
	Expense struct {
		ID          int64
		Date        Date
		Description string
		Amount      Money
		Category    string
		Notes       string // optional, unconstrained
	}
)

// Categories suggested to users in the entry form. Free text is still
// accepted; this list only drives the UI.
var Categories = []string{
	"Food",
	"Transportation",
	"Entertainment",
	"Shopping",
	"Bills",
	"Other",
}

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrEmptyCategory      = errors.New("empty category")
)

const dateLayout = "2006-01-02"

// MaxDescriptionLength caps descriptions; enforced here and as a field-level
// error at the form boundary.
const MaxDescriptionLength = 200

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date, truncated to a calendar day.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String renders the date in YYYY-MM-DD format, the same layout used for
// storage and for HTML date inputs.
func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}
