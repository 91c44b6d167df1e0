package validators

import (
	"strings"

	pkgerrors "github.com/angelmondragon/catalog-api/pkg/errors"
	"github.com/angelmondragon/catalog-api/pkg/types"
)

// Request locations used as the first element of an error's field path.
const (
	LocBody  = "body"
	LocQuery = "query"
	LocPath  = "path"
)

const validationMessage = "Validation error"

// Loc joins location parts the way clients read them: "body -> price".
func Loc(parts ...string) string {
	return strings.Join(parts, " -> ")
}

// ValidationError wraps collected field errors as a 422.
func ValidationError(errs []types.FieldError) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, validationMessage).WithDetails(errs)
}

// FieldErrors extracts the field errors carried by a validation error.
func FieldErrors(err error) []types.FieldError {
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		return nil
	}
	errs, _ := typed.Details().([]types.FieldError)
	return errs
}

// Combine merges validation errors from path, query and body parsing into a
// single 422 so clients see every problem at once. A non-validation error is
// returned as is.
func Combine(errs ...error) error {
	var fields []types.FieldError
	failed := false
	for _, err := range errs {
		if err == nil {
			continue
		}
		if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			return err
		}
		failed = true
		fields = append(fields, FieldErrors(err)...)
	}
	if !failed {
		return nil
	}
	return ValidationError(fields)
}
