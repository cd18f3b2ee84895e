package models

import (
	"regexp"
	"strconv"
	"strings"

	appErrors "github.com/wpinrui/tp/pkg/errors"
)

// Constraint messages reported when a value fails validation.
const (
	NameConstraints       = "Names should only contain alphanumeric characters and spaces, and it should not be blank"
	PhoneConstraints      = "Phone numbers should only contain numbers, and it should be at least 3 digits long"
	LessonNameConstraints = "Lesson names should only contain alphanumeric characters and spaces, and it should not be blank"
	ProgressConstraints   = "Progress should only contain alphanumeric characters and spaces, and it should not be blank"
	CapacityConstraints   = "Capacity should be a non-negative integer"
	PriceConstraints      = "Price should be at least one digit long. It may contain dollars only or both dollars and cents."
	TimingConstraints     = "Timing can take any value, and it should not be blank"
)

// EmptyProgressDescription is reported as the current progress of a student with no entries.
const EmptyProgressDescription = "No Progress"

// EmptyProgress is the sentinel progress entry. It is compared by value.
const EmptyProgress = Progress(EmptyProgressDescription)

var (
	alnumPattern  = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 ]*$`)
	phonePattern  = regexp.MustCompile(`^\d{3,}$`)
	digitsPattern = regexp.MustCompile(`^\d+$`)
	pricePattern  = regexp.MustCompile(`^\d+(\.\d\d)?$`)
	timingPattern = regexp.MustCompile(`^\S.*$`)
)

func invalid(message string) error {
	return appErrors.Clone(appErrors.ErrValidation, message)
}

// Name is a person's full name. It is the identity of a Student.
type Name string

// NewName validates raw as a person's name.
func NewName(raw string) (Name, error) {
	if !alnumPattern.MatchString(raw) {
		return "", invalid(NameConstraints)
	}
	return Name(raw), nil
}

// NewOptionalName accepts an empty string as "not provided".
func NewOptionalName(raw string) (Name, error) {
	if raw == "" {
		return "", nil
	}
	return NewName(raw)
}

func (n Name) String() string { return string(n) }

// IsSet reports whether a name was provided.
func (n Name) IsSet() bool { return n != "" }

// Phone is a contact number. The empty Phone means none was provided.
type Phone string

// NewPhone validates raw as a phone number; an empty string is accepted as unset.
func NewPhone(raw string) (Phone, error) {
	if raw == "" {
		return "", nil
	}
	if !phonePattern.MatchString(raw) {
		return "", invalid(PhoneConstraints)
	}
	return Phone(raw), nil
}

func (p Phone) String() string { return string(p) }

// IsSet reports whether a number was provided.
func (p Phone) IsSet() bool { return p != "" }

// LessonName identifies a Lesson.
type LessonName string

// NewLessonName validates raw as a lesson name.
func NewLessonName(raw string) (LessonName, error) {
	if !alnumPattern.MatchString(raw) {
		return "", invalid(LessonNameConstraints)
	}
	return LessonName(raw), nil
}

func (n LessonName) String() string { return string(n) }

// Progress is one progress note recorded for a student.
type Progress string

// NewProgress validates raw as a progress note.
func NewProgress(raw string) (Progress, error) {
	if !alnumPattern.MatchString(raw) {
		return "", invalid(ProgressConstraints)
	}
	return Progress(raw), nil
}

func (p Progress) String() string { return string(p) }

// IsEmpty reports whether p is the empty-progress sentinel.
func (p Progress) IsEmpty() bool { return p == EmptyProgress }

// PaymentStatus records whether a student has paid for the current period.
type PaymentStatus bool

const (
	Unpaid PaymentStatus = false
	Paid   PaymentStatus = true
)

func (s PaymentStatus) String() string {
	if s {
		return "Paid"
	}
	return "Not Paid"
}

// Capacity is the maximum number of students a lesson accepts. The zero
// Capacity is unbounded.
type Capacity struct {
	limit int
	set   bool
}

// UnboundedCapacity places no limit on enrollment.
var UnboundedCapacity = Capacity{}

// NewCapacity parses raw as a non-negative integer; an empty string is unbounded.
func NewCapacity(raw string) (Capacity, error) {
	if raw == "" {
		return UnboundedCapacity, nil
	}
	if !digitsPattern.MatchString(raw) {
		return Capacity{}, invalid(CapacityConstraints)
	}
	limit, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return Capacity{}, invalid(CapacityConstraints)
	}
	return Capacity{limit: int(limit), set: true}, nil
}

// CapacityOf builds a set capacity from a known non-negative limit.
func CapacityOf(limit int) (Capacity, error) {
	if limit < 0 {
		return Capacity{}, invalid(CapacityConstraints)
	}
	return Capacity{limit: limit, set: true}, nil
}

// IsSet reports whether the capacity is bounded.
func (c Capacity) IsSet() bool { return c.set }

// Limit returns the bound and whether one is set.
func (c Capacity) Limit() (int, bool) { return c.limit, c.set }

// Allows reports whether count enrolled students fit within the capacity.
func (c Capacity) Allows(count int) bool {
	return !c.set || count <= c.limit
}

// String returns the canonical stored form: digits, or "" when unbounded.
func (c Capacity) String() string {
	if !c.set {
		return ""
	}
	return strconv.Itoa(c.limit)
}

// Price is a lesson fee kept as its canonical decimal string.
type Price struct {
	amount string
}

// NewPrice validates raw as a price; an empty string is unset.
func NewPrice(raw string) (Price, error) {
	if raw == "" {
		return Price{}, nil
	}
	if !pricePattern.MatchString(raw) {
		return Price{}, invalid(PriceConstraints)
	}
	return Price{amount: raw}, nil
}

// IsSet reports whether a price was provided.
func (p Price) IsSet() bool { return p.amount != "" }

// String returns the canonical stored form.
func (p Price) String() string { return p.amount }

// Display renders the price for people, e.g. "1234.50" as "$1,234.5".
func (p Price) Display() string {
	return FormatPrice(p.amount)
}

// FormatPrice renders a canonical price string with a dollar prefix, thousands
// separators and no trailing fractional zeros. Unset prices render as "".
func FormatPrice(amount string) string {
	if amount == "" {
		return ""
	}
	whole, fraction, _ := strings.Cut(amount, ".")
	whole = strings.TrimLeft(whole, "0")
	if whole == "" {
		whole = "0"
	}
	fraction = strings.TrimRight(fraction, "0")

	var b strings.Builder
	b.WriteByte('$')
	lead := len(whole) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(whole[:lead])
	for i := lead; i < len(whole); i += 3 {
		b.WriteByte(',')
		b.WriteString(whole[i : i+3])
	}
	if fraction != "" {
		b.WriteByte('.')
		b.WriteString(fraction)
	}
	return b.String()
}

// Timing is a free-text schedule such as "Mon 4pm". The empty Timing is unset.
type Timing string

// NewTiming validates raw as a timing; an empty string is unset.
func NewTiming(raw string) (Timing, error) {
	if raw == "" {
		return "", nil
	}
	if !timingPattern.MatchString(raw) {
		return "", invalid(TimingConstraints)
	}
	return Timing(raw), nil
}

func (t Timing) String() string { return string(t) }

// IsSet reports whether a timing was provided.
func (t Timing) IsSet() bool { return t != "" }
