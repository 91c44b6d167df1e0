package validators

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/catalog-api/pkg/errors"
	"github.com/angelmondragon/catalog-api/pkg/types"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

// nullableTag set to "false" makes an explicit JSON null a type error instead
// of leaving the field unset.
const nullableTag = "nullable"

var jsonNull = []byte("null")

var validate = newValidator()

var decimalType = reflect.TypeOf(decimal.Decimal{})

// elemTyper is implemented by wrappers such as types.Nullable.
type elemTyper interface {
	ElemType() reflect.Type
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if n, ok := field.Interface().(types.Nullable[string]); ok {
			return n.Interface()
		}
		return nil
	}, types.Nullable[string]{})
	return v
}

func jsonName(f reflect.StructField) string {
	tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if tag == "-" {
		return ""
	}
	if tag == "" {
		return f.Name
	}
	return tag
}

// DecodeJSONBody decodes a JSON object into dest (a pointer to struct) and
// validates it. Every problem is collected: type mismatches are reported per
// field, then the validate tags run over the fields that decoded. Unknown
// keys are ignored. A null for a field tagged nullable:"false" is a type
// error. Failures come back as a CodeValidation error whose details are
// []types.FieldError ordered by struct field.
func DecodeJSONBody(r *http.Request, dest any) error {
	defer func() {
		io.Copy(io.Discard, r.Body)
	}()

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body").
			WithDetails([]types.FieldError{{Field: LocBody, Message: "Unable to read request body", Type: "body_read"}})
	}
	return DecodeJSON(raw, dest)
}

// DecodeJSON is DecodeJSONBody over an in-memory payload.
func DecodeJSON(raw []byte, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("decode target must be a struct pointer, got %T", dest))
	}
	target := rv.Elem()

	if len(bytes.TrimSpace(raw)) == 0 {
		return ValidationError([]types.FieldError{{Field: LocBody, Message: "Field required", Type: "missing"}})
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(raw, &object); err != nil {
		return ValidationError([]types.FieldError{topLevelError(err)})
	}
	if object == nil {
		// A literal null body is as good as no body.
		return ValidationError([]types.FieldError{{Field: LocBody, Message: "Field required", Type: "missing"}})
	}

	collected := map[int]types.FieldError{}
	order := map[string]int{}
	targetType := target.Type()
	for i := 0; i < targetType.NumField(); i++ {
		sf := targetType.Field(i)
		name := jsonName(sf)
		if !sf.IsExported() || name == "" {
			continue
		}
		order[name] = i

		value, ok := object[name]
		if !ok {
			continue
		}
		if sf.Tag.Get(nullableTag) == "false" && bytes.Equal(bytes.TrimSpace(value), jsonNull) {
			collected[i] = typeError(name, sf.Type, value)
			continue
		}
		slot := reflect.New(sf.Type)
		if err := json.Unmarshal(value, slot.Interface()); err != nil {
			collected[i] = typeError(name, sf.Type, value)
			continue
		}
		target.Field(i).Set(slot.Elem())
	}

	if err := validate.Struct(dest); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "validate request body")
		}
		for _, fe := range verrs {
			idx, ok := order[fe.Field()]
			if !ok {
				continue
			}
			if _, seen := collected[idx]; seen {
				continue
			}
			collected[idx] = constraintError(fe)
		}
	}

	if len(collected) == 0 {
		return nil
	}
	indexes := make([]int, 0, len(collected))
	for idx := range collected {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)
	out := make([]types.FieldError, 0, len(indexes))
	for _, idx := range indexes {
		out = append(out, collected[idx])
	}
	return ValidationError(out)
}

func topLevelError(err error) types.FieldError {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return types.FieldError{
			Field:   Loc(LocBody, strconv.FormatInt(syntaxErr.Offset, 10)),
			Message: "JSON decode error",
			Type:    "json_invalid",
		}
	}
	return types.FieldError{
		Field:   LocBody,
		Message: "Input should be a valid dictionary or object to extract fields from",
		Type:    "model_attributes_type",
	}
}

// typeError describes a value whose JSON type does not fit the field.
func typeError(name string, t reflect.Type, value json.RawMessage) types.FieldError {
	loc := Loc(LocBody, name)
	isString := len(value) > 0 && value[0] == '"'

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if et, ok := reflect.Zero(t).Interface().(elemTyper); ok {
		t = et.ElemType()
	}

	switch {
	case t == decimalType:
		if isString {
			return types.FieldError{Field: loc, Message: "Input should be a valid number, unable to parse string as a number", Type: "float_parsing"}
		}
		return types.FieldError{Field: loc, Message: "Input should be a valid number", Type: "float_type"}
	case t.Kind() == reflect.String:
		return types.FieldError{Field: loc, Message: "Input should be a valid string", Type: "string_type"}
	case t.Kind() == reflect.Bool:
		return types.FieldError{Field: loc, Message: "Input should be a valid boolean", Type: "bool_type"}
	case t.Kind() >= reflect.Int && t.Kind() <= reflect.Uint64:
		if isString {
			return types.FieldError{Field: loc, Message: intParsingMessage, Type: "int_parsing"}
		}
		return types.FieldError{Field: loc, Message: "Input should be a valid integer", Type: "int_type"}
	}
	return types.FieldError{Field: loc, Message: "Input is invalid", Type: "value_error"}
}

func constraintError(fe validator.FieldError) types.FieldError {
	loc := Loc(LocBody, fe.Field())
	switch fe.Tag() {
	case "required":
		return types.FieldError{Field: loc, Message: "Field required", Type: "missing"}
	case "min":
		return types.FieldError{Field: loc, Message: fmt.Sprintf("String should have at least %s", characters(fe.Param())), Type: "string_too_short"}
	case "max":
		return types.FieldError{Field: loc, Message: fmt.Sprintf("String should have at most %s", characters(fe.Param())), Type: "string_too_long"}
	case "gt":
		return types.FieldError{Field: loc, Message: fmt.Sprintf("Input should be greater than %s", fe.Param()), Type: "greater_than"}
	case "gte":
		return types.FieldError{Field: loc, Message: fmt.Sprintf("Input should be greater than or equal to %s", fe.Param()), Type: "greater_than_equal"}
	case "lte":
		return types.FieldError{Field: loc, Message: fmt.Sprintf("Input should be less than or equal to %s", fe.Param()), Type: "less_than_equal"}
	case "email":
		return types.FieldError{Field: loc, Message: "value is not a valid email address: " + emailReason(fe.Value()), Type: "value_error"}
	}
	return types.FieldError{Field: loc, Message: "Input is invalid", Type: "value_error"}
}

// emailReason explains why validator rejected an address.
func emailReason(value any) string {
	var addr string
	switch v := value.(type) {
	case string:
		addr = v
	case *string:
		if v != nil {
			addr = *v
		}
	}

	at := strings.LastIndex(addr, "@")
	switch {
	case at < 0:
		return "An email address must have an @-sign."
	case at == 0:
		return "There must be something before the @-sign."
	case at == len(addr)-1:
		return "There must be something after the @-sign."
	case !strings.Contains(addr[at+1:], "."):
		return "The part after the @-sign is not valid. It should have a period."
	}
	return "The email address is not valid."
}

func characters(n string) string {
	if n == "1" {
		return "1 character"
	}
	return n + " characters"
}
