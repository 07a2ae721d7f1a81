// Package codec converts entity fields to and from the scalar column forms
// used by the SQL store.
package codec

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// ListSeparator joins string list elements.
	ListSeparator = "|||"

	nutrientSeparator = ";"
	nutrientKV        = ":"
)

// ErrUnencodable is returned for values that would not decode back to
// themselves: nutrient keys holding ":" or ";", and list elements that are
// empty or whose "|" runs merge with ListSeparator.
var ErrUnencodable = errors.New("codec: value cannot be encoded")

// ParseError reports a malformed encoded value.
type ParseError struct {
	Kind  string // "id", "nutrients", ...
	Input string
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("codec: parse %s %q: %s", e.Kind, e.Input, e.Msg)
}

// EncodeTime returns t as epoch milliseconds.
func EncodeTime(t time.Time) int64 {
	return t.UnixMilli()
}

// DecodeTime returns the local time for epoch milliseconds ms.
func DecodeTime(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// EncodeOptionalTime returns nil for a nil time.
func EncodeOptionalTime(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func DecodeOptionalTime(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms)
	return &t
}

// EncodeID returns the canonical string form of id.
func EncodeID(id uuid.UUID) string {
	return id.String()
}

// DecodeID parses a canonical identity string.
func DecodeID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, &ParseError{Kind: "id", Input: s, Msg: err.Error()}
	}
	if id.String() != strings.ToLower(s) {
		return uuid.Nil, &ParseError{Kind: "id", Input: s, Msg: "not in canonical form"}
	}
	return id, nil
}

// CheckNutrientKey rejects keys EncodeNutrients cannot store.
func CheckNutrientKey(k string) error {
	if strings.TrimSpace(k) == "" {
		return fmt.Errorf("%w: empty nutrient name", ErrUnencodable)
	}
	if strings.ContainsAny(k, nutrientKV+nutrientSeparator) {
		return fmt.Errorf("%w: nutrient name %q must not contain %q or %q", ErrUnencodable, k, nutrientKV, nutrientSeparator)
	}
	return nil
}

// CheckNutrients runs CheckNutrientKey over every key of m.
func CheckNutrients(m map[string]float64) error {
	for k := range m {
		if err := CheckNutrientKey(k); err != nil {
			return err
		}
	}
	return nil
}

// EncodeNutrients joins m as "k1:v1;k2:v2". Keys are sorted so equal maps
// encode to equal strings.
func EncodeNutrients(m map[string]float64) (string, error) {
	if len(m) == 0 {
		return "", nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		if err := CheckNutrientKey(k); err != nil {
			return "", err
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+nutrientKV+strconv.FormatFloat(m[k], 'g', -1, 64))
	}
	return strings.Join(parts, nutrientSeparator), nil
}

// DecodeNutrients parses the output of EncodeNutrients.
func DecodeNutrients(s string) (map[string]float64, error) {
	m := make(map[string]float64)
	if s == "" {
		return m, nil
	}
	for _, seg := range strings.Split(s, nutrientSeparator) {
		if strings.Count(seg, nutrientKV) != 1 {
			return nil, &ParseError{Kind: "nutrients", Input: s, Msg: fmt.Sprintf("segment %q must contain exactly one %q", seg, nutrientKV)}
		}
		k, raw, _ := strings.Cut(seg, nutrientKV)
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &ParseError{Kind: "nutrients", Input: s, Msg: fmt.Sprintf("value %q is not numeric", raw)}
		}
		m[k] = v
	}
	return m, nil
}

// CheckListItem rejects elements that EncodeList cannot store. "|" is
// allowed inside an element as long as it neither contains ListSeparator
// nor touches either end, where it would merge with the separator.
func CheckListItem(item string) error {
	switch {
	case item == "":
		return fmt.Errorf("%w: empty list element", ErrUnencodable)
	case strings.Contains(item, ListSeparator):
		return fmt.Errorf("%w: list element %q contains %q", ErrUnencodable, item, ListSeparator)
	case strings.HasPrefix(item, "|") || strings.HasSuffix(item, "|"):
		return fmt.Errorf("%w: list element %q starts or ends with \"|\"", ErrUnencodable, item)
	}
	return nil
}

// CheckList runs CheckListItem over l.
func CheckList(l []string) error {
	for _, item := range l {
		if err := CheckListItem(item); err != nil {
			return err
		}
	}
	return nil
}

// EncodeList joins l with ListSeparator.
func EncodeList(l []string) (string, error) {
	if err := CheckList(l); err != nil {
		return "", err
	}
	return strings.Join(l, ListSeparator), nil
}

// DecodeList splits s on ListSeparator. An empty string is an empty list.
func DecodeList(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ListSeparator)
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayBounds returns [start, end) for the calendar day containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t)
	return start, start.AddDate(0, 0, 1)
}

// FormatDay renders the calendar day of t as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(time.DateOnly)
}

// ParseDay parses YYYY-MM-DD in the local zone.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, &ParseError{Kind: "day", Input: s, Msg: err.Error()}
	}
	return t, nil
}

// OnDay places the clock time of at on the calendar day of day.
func OnDay(day, at time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, at.Hour(), at.Minute(), at.Second(), at.Nanosecond(), day.Location())
}
