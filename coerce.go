package clikit

import (
	"strconv"
	"strings"
	"time"

	"github.com/sdaclin/cli-kit/clierr"
)

// dateLayouts are tried in order when coercing a TypeDate argument/option.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02T15:04:05",
}

// coerce converts raw into the Go value appropriate for t, running validator
// first when present. It returns one of the clierr value-coercion kinds on
// failure.
func coerce(t Type, raw string, validator Validator) (any, error) {
	if validator != nil {
		if err := validator(raw); err != nil {
			return nil, clierr.Wrap(clierr.InvalidValue, err, "invalid value %q", raw)
		}
	}
	switch t {
	case "", TypeString, TypeFile:
		return raw, nil
	case TypeNumber:
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, clierr.Wrap(clierr.InvalidNumber, err, "invalid number %q", raw)
		}
		return f, nil
	case TypeBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, clierr.Wrap(clierr.InvalidDataType, err, "invalid bool %q", raw)
		}
		return b, nil
	case TypeYesNo:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "y", "yes", "true":
			return true, nil
		case "n", "no", "false":
			return false, nil
		}
		return nil, clierr.New(clierr.NotYesNo, "expected yes/no, got %q", raw)
	case TypeDate:
		var lastErr error
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, raw); err == nil {
				return d, nil
			} else {
				lastErr = err
			}
		}
		return nil, clierr.Wrap(clierr.InvalidDate, lastErr, "invalid date %q", raw)
	default:
		return nil, clierr.New(clierr.InvalidDataType, "unknown type tag %q", t)
	}
}
