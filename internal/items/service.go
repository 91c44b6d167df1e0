package items

import (
	"context"
	"errors"

	pkgerrors "github.com/angelmondragon/catalog-api/pkg/errors"
	"github.com/angelmondragon/catalog-api/pkg/logger"
	"github.com/angelmondragon/catalog-api/pkg/metrics"
)

// ServiceParams groups dependencies for the item service.
type ServiceParams struct {
	Repo    Repository
	Metrics *metrics.StoreMetrics
	Logger  *logger.Logger
}

// Service exposes the item CRUD rules.
type Service interface {
	Create(ctx context.Context, input CreateItemInput) (Item, error)
	List(ctx context.Context, input ListItemsInput) (ItemPage, error)
	Get(ctx context.Context, id int64) (Item, error)
	Update(ctx context.Context, id int64, input UpdateItemInput) (Item, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo    Repository
	metrics *metrics.StoreMetrics
	logg    *logger.Logger
}

// NewService builds an item service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "item repository is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:    params.Repo,
		metrics: params.Metrics,
		logg:    logg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateItemInput) (Item, error) {
	item, err := s.repo.Create(ctx, input)
	if err != nil {
		return Item{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create item")
	}
	s.metrics.Inc(Resource)
	s.logg.Info(s.logg.WithResource(ctx, Resource, item.ID), "item.created")
	return item, nil
}

// List returns one page of items in creation order. Page and page size are
// echoed back after defaults are applied.
func (s *service) List(ctx context.Context, input ListItemsInput) (ItemPage, error) {
	params := input.Params.Normalize()
	filter := ListFilter{AvailableOnly: input.AvailableOnly}

	list, total, err := s.repo.List(ctx, filter, params.Offset(), params.Limit())
	if err != nil {
		return ItemPage{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list items")
	}
	if list == nil {
		list = []Item{}
	}
	return ItemPage{
		Items:    list,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}

func (s *service) Get(ctx context.Context, id int64) (Item, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return Item{}, s.mapErr(err, id, "get item")
	}
	return item, nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateItemInput) (Item, error) {
	item, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return Item{}, s.mapErr(err, id, "update item")
	}
	s.logg.Info(s.logg.WithResource(ctx, Resource, id), "item.updated")
	return item, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapErr(err, id, "delete item")
	}
	s.metrics.Dec(Resource)
	s.logg.Info(s.logg.WithResource(ctx, Resource, id), "item.deleted")
	return nil
}

func (s *service) mapErr(err error, id int64, op string) error {
	if errors.Is(err, ErrNotFound) {
		return pkgerrors.NotFound(Resource, id)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, op)
}
