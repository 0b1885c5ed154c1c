package app

import (
	"io"
	"net/http"

	"storefront/internal/config"
	"storefront/internal/handlers"

	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const compressLevel = 5

// InitMiddleware - initializes middleware handlers for the router.
func InitMiddleware(r *chi.Mux, conf *config.Config, ctrl *handlers.Controller) {
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(conf.RequestTimeout))
	r.Use(ctrl.RequestIDMiddleware)
	r.Use(ctrl.LoggingMiddleware)
	r.Use(newCompressor().Handler)
}

// newCompressor returns chi's compressor with brotli preferred over gzip.
func newCompressor() *middleware.Compressor {
	c := middleware.NewCompressor(compressLevel, "application/json", "text/plain")
	c.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})
	return c
}

// Routing - registers the storefront routes.
// Registered routes:
//   - GET "/api/articles", "/api/articles/{slugOrID}": blog articles.
//   - GET "/api/products", "/api/products/{slugOrID}": catalogue products.
//   - GET "/api/categories", "/api/categories/{slugOrID}": categories.
//   - GET "/api/tags", "/api/tags/{slugOrID}": tags.
//   - GET "/api/subscription-plans", "/api/subscription-plans/{slugOrID}": subscription plans.
//   - GET "/api/cart/{id}", PUT/DELETE "/api/cart/{id}/items/{itemID}": cart relay.
//   - POST "/api/orders/calculate", GET "/api/orders/{id}": order relay.
//   - GET "/ping": liveness.
//   - GET "/metrics": prometheus metrics, when metrics is not nil.
func Routing(r *chi.Mux, ctrl *handlers.Controller, metrics http.Handler) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/articles", ctrl.ListArticles())
		r.Get("/articles/{slugOrID}", ctrl.GetArticle())
		r.Get("/products", ctrl.ListProducts())
		r.Get("/products/{slugOrID}", ctrl.GetProduct())
		r.Get("/categories", ctrl.ListCategories())
		r.Get("/categories/{slugOrID}", ctrl.GetCategory())
		r.Get("/tags", ctrl.ListTags())
		r.Get("/tags/{slugOrID}", ctrl.GetTag())
		r.Get("/subscription-plans", ctrl.ListSubscriptionPlans())
		r.Get("/subscription-plans/{slugOrID}", ctrl.GetSubscriptionPlan())

		r.Get("/cart/{id}", ctrl.GetCart())
		r.Put("/cart/{id}/items/{itemID}", ctrl.UpdateCartItem())
		r.Delete("/cart/{id}/items/{itemID}", ctrl.DeleteCartItem())

		r.Post("/orders/calculate", ctrl.CalculateOrder())
		r.Get("/orders/{id}", ctrl.GetOrder())
	})

	r.Get("/ping", ctrl.PingHandler())
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}
}
