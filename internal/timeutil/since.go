package timeutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// DateLayout is the layout of absolute --since dates.
const DateLayout = "2006-01-02"

var errUnparsableDate = errors.New("unparsable date")

// ErrUnparsableDate is returned by ParseSince when s is neither a date nor a
// relative expression.
var ErrUnparsableDate = errUnparsableDate

var parser = newParser()

func newParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ParseSince accepts a YYYY-MM-DD date, read as UTC midnight, or an English
// expression relative to now such as "3 weeks ago" or "last monday".
func ParseSince(s string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}

	r, err := parser.Parse(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %w", errUnparsableDate, s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w %q, expected YYYY-MM-DD or e.g. \"2 weeks ago\"", errUnparsableDate, s)
	}
	return r.Time, nil
}
