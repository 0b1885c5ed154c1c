package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/9ssi7/nanoid"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

type ctxKey struct{}

// RequestID returns the id assigned by RequestIDMiddleware, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// RequestIDMiddleware keeps an inbound X-Request-Id or generates one.
func (con *Controller) RequestIDMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		id := req.Header.Get(RequestIDHeader)
		if id == "" {
			generated, err := nanoid.New()
			if err != nil {
				con.sugar.Warnw("generate request id", "error", err)
			}
			id = generated
		}

		res.Header().Set(RequestIDHeader, id)
		h.ServeHTTP(res, req.WithContext(context.WithValue(req.Context(), ctxKey{}, id)))
	})
}

// LoggingMiddleware writes one access-log line per request.
func (con *Controller) LoggingMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		start := time.Now()

		responseData := &responseData{
			status: http.StatusOK,
			size:   0,
		}
		lw := loggingResponseWriter{
			ResponseWriter: res,
			responseData:   responseData,
		}
		h.ServeHTTP(&lw, req)

		con.sugar.Infow("request",
			"uri", req.RequestURI,
			"method", req.Method,
			"status", responseData.status,
			"size", responseData.size,
			"duration", time.Since(start),
			"request_id", RequestID(req.Context()),
		)
	})
}
