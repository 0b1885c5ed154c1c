// Package app wires the router, middleware and HTTP server.
package app

import (
	"net/http"
	"time"

	"storefront/internal/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// CreateServer creates and configures an HTTP server. The handler is wrapped
// with otelhttp so inbound spans join the upstream client's spans.
func CreateServer(c *config.Config, handler http.Handler, logger *zap.SugaredLogger) *http.Server {
	logger.Infof("Storefront at %s\n", c.Addr)
	if !c.Configured() {
		logger.Warnw("UPSTREAM_API_URL is empty, proxy endpoints will answer with a configuration error")
	}

	return &http.Server{
		Addr:              c.Addr,
		Handler:           otelhttp.NewHandler(handler, "storefront"),
		ReadHeaderTimeout: 20 * time.Second,
	}
}
