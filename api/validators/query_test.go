package validators

import (
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/catalog-api/pkg/types"
)

func TestQueryDefaultsAndValues(t *testing.T) {
	q := NewQuery(httptest.NewRequest("GET", "/items?page=3&available_only=YES", nil))
	page := q.Int("page", 1, AtLeast(1))
	size := q.Int("page_size", 10, AtLeast(1), AtMost(100))
	available := q.Bool("available_only", false)

	if err := q.Err(); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if page != 3 || size != 10 || !available {
		t.Fatalf("unexpected values page=%d size=%d available=%v", page, size, available)
	}
}

func TestQueryCollectsEveryViolation(t *testing.T) {
	q := NewQuery(httptest.NewRequest("GET", "/items?page=0&page_size=101&available_only=perhaps", nil))
	q.Int("page", 1, AtLeast(1))
	q.Int("page_size", 10, AtLeast(1), AtMost(100))
	q.Bool("available_only", false)

	expectErrors(t, FieldErrors(q.Err()),
		types.FieldError{Field: "query -> page", Message: "Input should be greater than or equal to 1", Type: "greater_than_equal"},
		types.FieldError{Field: "query -> page_size", Message: "Input should be less than or equal to 100", Type: "less_than_equal"},
		types.FieldError{Field: "query -> available_only", Message: "Input should be a valid boolean, unable to interpret input", Type: "bool_parsing"},
	)
}

func TestQueryIntParsing(t *testing.T) {
	q := NewQuery(httptest.NewRequest("GET", "/items?page=abc&page_size=", nil))
	q.Int("page", 1)
	q.Int("page_size", 10)

	expectErrors(t, FieldErrors(q.Err()),
		types.FieldError{Field: "query -> page", Message: intParsingMessage, Type: "int_parsing"},
		types.FieldError{Field: "query -> page_size", Message: intParsingMessage, Type: "int_parsing"},
	)
}

func TestQueryUsesLastRepeatedValue(t *testing.T) {
	q := NewQuery(httptest.NewRequest("GET", "/items?page=2&page=5", nil))
	if got := q.Int("page", 1); got != 5 {
		t.Fatalf("expected last value 5, got %d", got)
	}
}
