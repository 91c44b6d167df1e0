package validators

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/angelmondragon/catalog-api/pkg/types"
)

const intParsingMessage = "Input should be a valid integer, unable to parse string as an integer"

// Query reads typed query parameters and collects every failure. Call Err
// once all parameters have been read.
type Query struct {
	values url.Values
	errs   []types.FieldError
}

func NewQuery(r *http.Request) *Query {
	return &Query{values: r.URL.Query()}
}

// IntBound constrains an integer query parameter.
type IntBound func(key string, v int) *types.FieldError

// AtLeast rejects values below min.
func AtLeast(min int) IntBound {
	return func(key string, v int) *types.FieldError {
		if v >= min {
			return nil
		}
		return &types.FieldError{
			Field:   Loc(LocQuery, key),
			Message: fmt.Sprintf("Input should be greater than or equal to %d", min),
			Type:    "greater_than_equal",
		}
	}
}

// AtMost rejects values above max.
func AtMost(max int) IntBound {
	return func(key string, v int) *types.FieldError {
		if v <= max {
			return nil
		}
		return &types.FieldError{
			Field:   Loc(LocQuery, key),
			Message: fmt.Sprintf("Input should be less than or equal to %d", max),
			Type:    "less_than_equal",
		}
	}
}

// raw returns the last value supplied for key.
func (q *Query) raw(key string) (string, bool) {
	vals, ok := q.values[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[len(vals)-1], true
}

// Int returns the parameter or def when it is absent. A present but empty
// value is a parse error.
func (q *Query) Int(key string, def int, bounds ...IntBound) int {
	raw, ok := q.raw(key)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		q.errs = append(q.errs, types.FieldError{Field: Loc(LocQuery, key), Message: intParsingMessage, Type: "int_parsing"})
		return def
	}
	for _, bound := range bounds {
		if fe := bound(key, v); fe != nil {
			q.errs = append(q.errs, *fe)
			return def
		}
	}
	return v
}

// Bool accepts the usual spellings: 1/0, true/false, t/f, yes/no, y/n, on/off.
func (q *Query) Bool(key string, def bool) bool {
	raw, ok := q.raw(key)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	}
	q.errs = append(q.errs, types.FieldError{
		Field:   Loc(LocQuery, key),
		Message: "Input should be a valid boolean, unable to interpret input",
		Type:    "bool_parsing",
	})
	return def
}

// Err returns the collected failures as one validation error, or nil.
func (q *Query) Err() error {
	if len(q.errs) == 0 {
		return nil
	}
	return ValidationError(q.errs)
}
