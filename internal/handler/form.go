package handler

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// flag is a boolean that binds from JSON booleans as well as HTML form values
// such as "on", "true" or "1"
type flag bool

// UnmarshalParam implements echo.BindUnmarshaler
func (f *flag) UnmarshalParam(param string) error {
	*f = flag(parseFlag(param))
	return nil
}

// UnmarshalJSON accepts true/false or a form-style string
func (f *flag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flag(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = flag(parseFlag(s))
	return nil
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func (f *flag) ptr() *bool {
	if f == nil {
		return nil
	}
	b := bool(*f)
	return &b
}

// textValue binds a scalar as its literal text, so JSON numbers, JSON strings and
// form values all arrive unparsed. null binds as "".
type textValue string

// UnmarshalParam implements echo.BindUnmarshaler
func (v *textValue) UnmarshalParam(param string) error {
	*v = textValue(param)
	return nil
}

// UnmarshalJSON accepts a string, a number or null
func (v *textValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = textValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*v = textValue(n)
		return nil
	}
	return fmt.Errorf("expected a string or number, got %s", data)
}

func (v textValue) String() string {
	return string(v)
}

// parseDecimal reads an optional decimal. An empty string yields nil.
func parseDecimal(s string) (*decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, false
	}
	return &d, true
}

const dateLayout = "2006-01-02"

// parseDate reads an optional YYYY-MM-DD date. An empty string yields nil.
func parseDate(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, false
	}
	return &t, true
}

var dateTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	dateLayout,
}

// parseDateTime reads an RFC 3339 timestamp, or a local date-time interpreted in loc
// (the shape an HTML datetime-local input submits). An empty string yields the zero time.
func parseDateTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseID reads a positive int32 identifier
func parseID(s string) (int32, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int32(id), true
}

// parseOptionalID reads an id hint. Empty or invalid values yield nil.
func parseOptionalID(s string) *int32 {
	id, ok := parseID(s)
	if !ok {
		return nil
	}
	return &id
}

// parsePageParam reads a page or page size query value. Malformed or
// non-positive values yield 0, which the listing replaces with its default.
func parsePageParam(s string) int32 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil || n < 1 {
		return 0
	}
	return int32(n)
}
