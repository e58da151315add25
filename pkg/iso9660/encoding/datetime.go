package encoding

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mlaforet/cdkit/pkg/consts"
)

// InvalidDateError reports a date/time sub-field whose value falls outside the
// range that sub-field permits. Actual carries the raw decoded text so that
// non-numeric garbage is reported verbatim.
type InvalidDateError struct {
	Field  string
	Min    int
	Max    int
	Actual string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date field %s: %q outside range %d..%d", e.Field, e.Actual, e.Min, e.Max)
}

// DecDateTime is the 17-byte decimal date/time used by volume descriptors
// (ISO9660 8.4.26.1): sixteen ASCII digits YYYYMMDDhhmmsscc followed by a
// timezone byte counted in 15-minute intervals starting at interval -48.
type DecDateTime struct {
	Year        int
	Month       int
	Day         int
	Hour        int
	Minute      int
	Second      int
	Centisecond int
	TimeZone    byte
}

// DefaultDecDateTime returns the placeholder timestamp used when no real date
// is known: the first of January of year 1 at midnight, timezone byte 12.
func DefaultDecDateTime() DecDateTime {
	return DecDateTime{Year: 1, Month: 1, Day: 1, TimeZone: 12}
}

// String renders the timestamp with the raw timezone interval byte,
// e.g. "2024-03-01 10:30:00.00 tz=48".
func (dt *DecDateTime) String() string {
	if dt == nil {
		return "unset"
	}
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d.%02d tz=%d",
		dt.Year, dt.Month, dt.Day, dt.Hour, dt.Minute, dt.Second, dt.Centisecond, dt.TimeZone)
}

// UnmarshalDecDateTime decodes a 17-byte decimal date/time field. The unset
// sentinel, sixteen '0' digits (or raw zero bytes) with a zero timezone byte,
// decodes to nil. Every numeric sub-field is range-checked against its own
// bounds; the timezone byte is carried as-is.
func UnmarshalDecDateTime(data [17]byte) (*DecDateTime, error) {
	if data[16] == 0 {
		unset := true
		for _, b := range data[:16] {
			if b != '0' && b != 0x00 {
				unset = false
				break
			}
		}
		if unset {
			return nil, nil
		}
	}

	dt := &DecDateTime{TimeZone: data[16]}
	var err error
	if dt.Year, err = decimalField(data[0:4], "year", 1, 9999); err != nil {
		return nil, err
	}
	if dt.Month, err = decimalField(data[4:6], "month", 1, 12); err != nil {
		return nil, err
	}
	if dt.Day, err = decimalField(data[6:8], "day", 1, 31); err != nil {
		return nil, err
	}
	if dt.Hour, err = decimalField(data[8:10], "hour", 0, 23); err != nil {
		return nil, err
	}
	if dt.Minute, err = decimalField(data[10:12], "minute", 0, 59); err != nil {
		return nil, err
	}
	if dt.Second, err = decimalField(data[12:14], "second", 0, 59); err != nil {
		return nil, err
	}
	if dt.Centisecond, err = decimalField(data[14:16], "centisecond", 0, 99); err != nil {
		return nil, err
	}
	return dt, nil
}

// MarshalDecDateTime encodes dt into the 17-byte decimal form. A nil dt yields
// the unset sentinel: sixteen '0' digits and a zero timezone byte.
func MarshalDecDateTime(dt *DecDateTime) ([17]byte, error) {
	var out [17]byte
	if dt == nil {
		for i := 0; i < 16; i++ {
			out[i] = '0'
		}
		out[16] = 0
		return out, nil
	}

	fields := []struct {
		name          string
		val, min, max int
	}{
		{"year", dt.Year, 1, 9999},
		{"month", dt.Month, 1, 12},
		{"day", dt.Day, 1, 31},
		{"hour", dt.Hour, 0, 23},
		{"minute", dt.Minute, 0, 59},
		{"second", dt.Second, 0, 59},
		{"centisecond", dt.Centisecond, 0, 99},
	}
	for _, f := range fields {
		if f.val < f.min || f.val > f.max {
			return [17]byte{}, &InvalidDateError{Field: f.name, Min: f.min, Max: f.max, Actual: strconv.Itoa(f.val)}
		}
	}

	s := fmt.Sprintf("%04d%02d%02d%02d%02d%02d%02d",
		dt.Year, dt.Month, dt.Day, dt.Hour, dt.Minute, dt.Second, dt.Centisecond)
	copy(out[:16], s)
	out[16] = dt.TimeZone
	return out, nil
}

// decimalField parses one digit window. Pad bytes (filler space or NUL) are
// trimmed; bytes outside the d-characters set fail as charset violations,
// anything that then fails to parse as a decimal in [min,max] fails as an
// invalid date naming the window's own range and content.
func decimalField(window []byte, field string, min, max int) (int, error) {
	for _, b := range window {
		if b >= '0' && b <= '9' || b == consts.ISO9660_FILLER || b == 0x00 {
			continue
		}
		if !CharsetD.Contains(b) {
			return 0, &InvalidAlphabetError{CodePoint: b, Charset: CharsetD}
		}
	}
	s := strings.TrimRight(string(window), " \x00")
	s = strings.TrimLeft(s, " ")
	v, err := strconv.Atoi(s)
	if err != nil || v < min || v > max {
		return 0, &InvalidDateError{Field: field, Min: min, Max: max, Actual: s}
	}
	return v, nil
}
