package items

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/angelmondragon/catalog-api/pkg/pagination"
	"github.com/angelmondragon/catalog-api/pkg/types"
	"github.com/shopspring/decimal"
)

// Resource names the record type in logs, metrics and not-found messages.
const Resource = "Item"

// ErrNotFound is returned by repositories when an id has no item.
var ErrNotFound = errors.New("item not found")

type Item struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at"`
}

// MarshalJSON writes the price as a JSON number rather than decimal's default
// quoted string.
func (i Item) MarshalJSON() ([]byte, error) {
	type plain Item
	return json.Marshal(struct {
		plain
		Price json.Number `json:"price"`
	}{plain: plain(i), Price: json.Number(i.Price.String())})
}

// CreateItemInput carries an already validated item draft.
type CreateItemInput struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	IsAvailable bool
}

func (in CreateItemInput) build(id int64, now time.Time) Item {
	return Item{
		ID:          id,
		Name:        in.Name,
		Description: cloneString(in.Description),
		Price:       in.Price,
		IsAvailable: in.IsAvailable,
		CreatedAt:   now,
	}
}

// UpdateItemInput holds the fields present in an update payload. Nil pointers
// and invalid Nullables leave the stored value untouched.
type UpdateItemInput struct {
	Name        *string
	Description types.Nullable[string]
	Price       *decimal.Decimal
	IsAvailable *bool
}

// Apply merges the present fields into item and stamps the update time.
func (in UpdateItemInput) Apply(item *Item, now time.Time) {
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Description.Valid {
		item.Description = cloneString(in.Description.Value)
	}
	if in.Price != nil {
		item.Price = *in.Price
	}
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	stamp := now
	item.UpdatedAt = &stamp
}

type ListItemsInput struct {
	pagination.Params
	AvailableOnly bool
}

// ListFilter is the predicate part of a list request.
type ListFilter struct {
	AvailableOnly bool
}

func (f ListFilter) match(item Item) bool {
	return !f.AvailableOnly || item.IsAvailable
}

type ItemPage struct {
	Items    []Item `json:"items"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
