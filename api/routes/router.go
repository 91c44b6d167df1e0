package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/catalog-api/api/controllers"
	"github.com/angelmondragon/catalog-api/api/middleware"
	"github.com/angelmondragon/catalog-api/api/responses"
	"github.com/angelmondragon/catalog-api/internal/items"
	"github.com/angelmondragon/catalog-api/internal/users"
	"github.com/angelmondragon/catalog-api/pkg/config"
	pkgerrors "github.com/angelmondragon/catalog-api/pkg/errors"
	"github.com/angelmondragon/catalog-api/pkg/logger"
	"github.com/angelmondragon/catalog-api/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	itemService items.Service,
	userService users.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		chimiddleware.StripSlashes,
		middleware.Debug(cfg.App.Debug),
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "Not Found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeMethodNotAllowed, "Method Not Allowed"))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	api := func(r chi.Router) {
		r.Get("/health", controllers.Health(cfg))

		r.Route("/items", func(r chi.Router) {
			r.Post("/", controllers.CreateItem(itemService, logg))
			r.Get("/", controllers.ListItems(itemService, logg))
			r.Get("/{item_id}", controllers.GetItem(itemService, logg))
			r.Put("/{item_id}", controllers.UpdateItem(itemService, logg))
			r.Delete("/{item_id}", controllers.DeleteItem(itemService, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", controllers.CreateUser(userService, logg))
			r.Get("/", controllers.ListUsers(userService, logg))
			r.Get("/{user_id}", controllers.GetUser(userService, logg))
			r.Put("/{user_id}", controllers.UpdateUser(userService, logg))
			r.Delete("/{user_id}", controllers.DeleteUser(userService, logg))
		})
	}

	// chi rejects an empty mount pattern.
	if prefix := cfg.App.APIPrefix; prefix != "" {
		r.Route(prefix, api)
	} else {
		r.Group(api)
	}

	return r
}
