package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/angelmondragon/catalog-api/pkg/types"
	"github.com/go-chi/chi/v5"
)

// PathInt64 parses the named chi URL parameter as an identifier.
func PathInt64(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ValidationError([]types.FieldError{{
			Field:   Loc(LocPath, key),
			Message: intParsingMessage,
			Type:    "int_parsing",
		}})
	}
	return id, nil
}
