package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/catalog-api/api/responses"
	"github.com/angelmondragon/catalog-api/api/validators"
	"github.com/angelmondragon/catalog-api/internal/items"
	pkgerrors "github.com/angelmondragon/catalog-api/pkg/errors"
	"github.com/angelmondragon/catalog-api/pkg/logger"
	"github.com/angelmondragon/catalog-api/pkg/pagination"
	"github.com/angelmondragon/catalog-api/pkg/types"
)

// ItemIDParam is the chi URL parameter carrying an item id.
const ItemIDParam = "item_id"

type createItemRequest struct {
	Name        *string          `json:"name" nullable:"false" validate:"required,min=1,max=100"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
	Price       *decimal.Decimal `json:"price" nullable:"false" validate:"required,gt=0"`
	IsAvailable *bool            `json:"is_available" nullable:"false"`
}

func (r createItemRequest) toInput() items.CreateItemInput {
	input := items.CreateItemInput{
		Name:        *r.Name,
		Description: r.Description,
		Price:       *r.Price,
		IsAvailable: true,
	}
	if r.IsAvailable != nil {
		input.IsAvailable = *r.IsAvailable
	}
	return input
}

// updateItemRequest treats an explicit null as absent for every field except
// description, which may be cleared.
type updateItemRequest struct {
	Name        *string                `json:"name" validate:"omitempty,min=1,max=100"`
	Description types.Nullable[string] `json:"description" validate:"omitempty,max=500"`
	Price       *decimal.Decimal       `json:"price" validate:"omitempty,gt=0"`
	IsAvailable *bool                  `json:"is_available"`
}

func (r updateItemRequest) toInput() items.UpdateItemInput {
	return items.UpdateItemInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		IsAvailable: r.IsAvailable,
	}
}

func CreateItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		var req createItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// ListItems serves ?page, ?page_size and ?available_only.
func ListItems(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		q := validators.NewQuery(r)
		input := items.ListItemsInput{
			Params:        parsePagination(q),
			AvailableOnly: q.Bool("available_only", false),
		}
		if err := q.Err(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

func GetItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		id, err := validators.PathInt64(r, ItemIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

func UpdateItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		id, pathErr := validators.PathInt64(r, ItemIDParam)
		var req updateItemRequest
		bodyErr := validators.DecodeJSONBody(r, &req)
		if err := validators.Combine(pathErr, bodyErr); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), id, req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

func DeleteItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		id, err := validators.PathInt64(r, ItemIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}

func parsePagination(q *validators.Query) pagination.Params {
	return pagination.Params{
		Page:     q.Int("page", pagination.DefaultPage, validators.AtLeast(1)),
		PageSize: q.Int("page_size", pagination.DefaultPageSize, validators.AtLeast(1), validators.AtMost(pagination.MaxPageSize)),
	}
}
