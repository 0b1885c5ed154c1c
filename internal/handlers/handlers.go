// Package handlers implements the storefront proxy endpoints.
//
// Every endpoint calls the upstream API once and answers with a
// models.Envelope. Read-mostly resources may be served through the response
// cache.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/mapping"
	"storefront/internal/upstream"

	"go.uber.org/zap"
)

// ErrNotConfigured - the upstream base URL is missing.
var ErrNotConfigured = errors.New("UPSTREAM_API_URL is not configured")

// Controller serves the proxy endpoints.
type Controller struct {
	conf   *config.Config
	api    upstream.API
	cache  *cache.Cache
	mapper *mapping.Mapper
	sugar  *zap.SugaredLogger
}

// NewController creates a Controller. responses may be nil, in which case
// every read goes straight to api.
func NewController(conf *config.Config, api upstream.API, responses *cache.Cache, sugar *zap.SugaredLogger) *Controller {
	return &Controller{
		conf:   conf,
		api:    api,
		cache:  responses,
		mapper: mapping.NewMapper(conf.UpstreamURL),
		sugar:  sugar,
	}
}

// fetch loads target and turns non-2xx answers into *upstream.StatusError.
func (con *Controller) fetch(ctx context.Context, target string, cached bool) ([]byte, error) {
	if cached && con.cache != nil {
		return con.cache.Fetch(ctx, target)
	}
	return upstream.FetchFunc(con.api)(ctx, target)
}

// PingHandler reports liveness and whether the upstream is configured.
func (con *Controller) PingHandler() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		con.writeJSON(res, http.StatusOK, envelope(map[string]any{
			"status":             "ok",
			"upstreamConfigured": con.conf.Configured(),
		}))
	}
}
