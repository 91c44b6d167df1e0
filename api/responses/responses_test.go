package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/catalog-api/pkg/errors"
	"github.com/angelmondragon/catalog-api/pkg/logger"
	"github.com/angelmondragon/catalog-api/pkg/types"
)

func decodeError(t *testing.T, w *httptest.ResponseRecorder) types.ErrorResponse {
	t.Helper()
	var body types.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body
}

func TestWriteSuccessIsBareJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccessStatus(w, http.StatusCreated, map[string]string{"hello": "world"})

	if got := w.Code; got != http.StatusCreated {
		t.Fatalf("expected status 201 but got %d", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["hello"] != "world" {
		t.Fatalf("unexpected payload %v", body)
	}
}

func TestWriteNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	WriteNoContent(w)
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("expected empty 204, got %d %q", w.Code, w.Body.String())
	}
}

func TestWriteErrorValidation(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "Validation error").
		WithDetails([]types.FieldError{{Field: "body -> price", Message: "Input should be greater than 0", Type: "greater_than"}})
	WriteError(context.Background(), nil, w, err)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	body := decodeError(t, w)
	if body.Detail != "Validation error" || len(body.Errors) != 1 || body.Errors[0].Type != "greater_than" {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.Message != "" {
		t.Fatalf("validation body should not carry a message, got %q", body.Message)
	}
}

func TestWriteErrorNotFoundAndConflict(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, pkgerrors.NotFound("Item", 7))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	raw := w.Body.String()
	if strings.TrimSpace(raw) != `{"detail":"Item with id 7 not found"}` {
		t.Fatalf("unexpected body %s", raw)
	}

	w = httptest.NewRecorder()
	WriteError(context.Background(), nil, w, pkgerrors.New(pkgerrors.CodeConflict, "Username already exists"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if body := decodeError(t, w); body.Detail != "Username already exists" {
		t.Fatalf("unexpected detail %q", body.Detail)
	}
}

func TestWriteErrorInternalHonoursDebug(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("db exploded"))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	body := decodeError(t, w)
	if body.Detail != "Internal server error" || body.Message != "An unexpected error occurred" {
		t.Fatalf("unexpected production body %+v", body)
	}

	w = httptest.NewRecorder()
	WriteError(WithDebug(context.Background(), true), nil, w, errors.New("db exploded"))
	body = decodeError(t, w)
	if !strings.Contains(body.Message, "db exploded") {
		t.Fatalf("expected debug message to include cause, got %q", body.Message)
	}
}

func TestWriteErrorLogsDump(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})

	WriteError(context.Background(), logg, httptest.NewRecorder(), errors.New("boom"))
	if !strings.Contains(buf.String(), `"request.error"`) || !strings.Contains(buf.String(), `"error_chain"`) {
		t.Fatalf("expected error log with chain, got %s", buf.String())
	}

	buf.Reset()
	WriteError(context.Background(), logg, httptest.NewRecorder(), pkgerrors.NotFound("Item", 1))
	if !strings.Contains(buf.String(), `"request.rejected"`) {
		t.Fatalf("expected info log for client errors, got %s", buf.String())
	}
}

func TestDebugEnabledDefaultsFalse(t *testing.T) {
	if DebugEnabled(context.Background()) {
		t.Fatal("debug should default to false")
	}
	if !DebugEnabled(WithDebug(context.Background(), true)) {
		t.Fatal("expected debug enabled")
	}
}
