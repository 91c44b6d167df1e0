package users

import (
	"context"
	"errors"

	pkgerrors "github.com/angelmondragon/catalog-api/pkg/errors"
	"github.com/angelmondragon/catalog-api/pkg/logger"
	"github.com/angelmondragon/catalog-api/pkg/metrics"
)

// PasswordHasher turns a plaintext password into its stored form.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

type ServiceParams struct {
	Repo    Repository
	Hasher  PasswordHasher
	Metrics *metrics.StoreMetrics
	Logger  *logger.Logger
}

// Service exposes user CRUD. Every method returns UserDTO so password hashes
// cannot reach a response.
type Service interface {
	Create(ctx context.Context, input CreateUserInput) (UserDTO, error)
	List(ctx context.Context, input ListUsersInput) (UserPage, error)
	Get(ctx context.Context, id int64) (UserDTO, error)
	Update(ctx context.Context, id int64, input UpdateUserInput) (UserDTO, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo    Repository
	hasher  PasswordHasher
	metrics *metrics.StoreMetrics
	logg    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repository is required")
	}
	if params.Hasher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "password hasher is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:    params.Repo,
		hasher:  params.Hasher,
		metrics: params.Metrics,
		logg:    logg,
	}, nil
}

// Create rejects a duplicate username or email, hashes the password and stores
// the user as active. Emails are compared after NormalizeEmail.
func (s *service) Create(ctx context.Context, input CreateUserInput) (UserDTO, error) {
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.repo.Create(ctx, NewUser{
		Email:        NormalizeEmail(input.Email),
		Username:     input.Username,
		FullName:     input.FullName,
		PasswordHash: hash,
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeConflict {
			s.logg.Warn(s.logg.WithField(ctx, "username", input.Username), "user.create_conflict")
			return UserDTO{}, typed
		}
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	s.metrics.Inc(Resource)
	s.logg.Info(s.logg.WithResource(ctx, Resource, user.ID), "user.created")
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context, input ListUsersInput) (UserPage, error) {
	params := input.Params.Normalize()

	list, total, err := s.repo.List(ctx, params.Offset(), params.Limit())
	if err != nil {
		return UserPage{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}

	dtos := make([]UserDTO, 0, len(list))
	for _, u := range list {
		dtos = append(dtos, FromModel(u))
	}
	return UserPage{
		Users:    dtos,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}

func (s *service) Get(ctx context.Context, id int64) (UserDTO, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return UserDTO{}, s.mapErr(err, id, "get user")
	}
	return FromModel(user), nil
}

// Update applies the present fields. Uniqueness is not re-checked.
func (s *service) Update(ctx context.Context, id int64, input UpdateUserInput) (UserDTO, error) {
	changes := UserChanges{FullName: input.FullName}
	if input.Email != nil {
		email := NormalizeEmail(*input.Email)
		changes.Email = &email
	}
	if input.Password != nil {
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		changes.PasswordHash = &hash
	}

	user, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return UserDTO{}, s.mapErr(err, id, "update user")
	}
	s.logg.Info(s.logg.WithResource(ctx, Resource, id), "user.updated")
	return FromModel(user), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapErr(err, id, "delete user")
	}
	s.metrics.Dec(Resource)
	s.logg.Info(s.logg.WithResource(ctx, Resource, id), "user.deleted")
	return nil
}

func (s *service) mapErr(err error, id int64, op string) error {
	if errors.Is(err, ErrNotFound) {
		return pkgerrors.NotFound(Resource, id)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, op)
}
