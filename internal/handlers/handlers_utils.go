package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"storefront/internal/domain/models"
	"storefront/internal/mapping"
	"storefront/internal/upstream"

	"github.com/gabriel-vasile/mimetype"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

// Error titles carried in the envelope's error field.
const (
	errConfiguration   = "Configuration error"
	errUpstream        = "Upstream error"
	errServer          = "Server error"
	errInvalidUpstream = "Invalid upstream response"
)

// idPattern tells a document id from a slug.
var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

type (
	responseData struct {
		status int
		size   int
	}

	loggingResponseWriter struct {
		http.ResponseWriter
		responseData *responseData
	}
)

// Write records the number of bytes written for the access log.
func (r *loggingResponseWriter) Write(b []byte) (int, error) {
	size, err := r.ResponseWriter.Write(b)
	r.responseData.size += size
	return size, err
}

// WriteHeader records the status code for the access log.
func (r *loggingResponseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.responseData.status = statusCode
}

func envelope(data any) models.Envelope {
	return models.Envelope{Data: data}
}

// parsePagination reads page/pageSize, falling back to the bracketed
// pagination[page]/pagination[pageSize] names when the plain one is absent
// or not a positive integer.
func parsePagination(values url.Values) (page, pageSize int) {
	page = positiveParam(values, defaultPage, "page", "pagination[page]")
	pageSize = positiveParam(values, defaultPageSize, "pageSize", "pagination[pageSize]")
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// positiveParam returns the first of names holding a positive integer.
func positiveParam(values url.Values, fallback int, names ...string) int {
	for _, name := range names {
		if n, err := strconv.Atoi(values.Get(name)); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func (con *Controller) writeJSON(res http.ResponseWriter, status int, body models.Envelope) {
	data, err := json.Marshal(body)
	if err != nil {
		con.sugar.Errorw("encode response", "error", err)
		status = http.StatusInternalServerError
		data = []byte(`{"data":null,"error":"Server error","message":"failed to encode response"}`)
	}

	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	if _, err := res.Write(data); err != nil {
		con.sugar.Debugw("write response", "error", err)
	}
}

// notFound answers a singular lookup that matched nothing.
func (con *Controller) notFound(res http.ResponseWriter) {
	con.writeJSON(res, http.StatusNotFound, envelope(nil))
}

// fail maps err onto an error envelope.
func (con *Controller) fail(res http.ResponseWriter, req *http.Request, err error) {
	var (
		statusErr *upstream.StatusError
		schemaErr *mapping.SchemaError
	)

	switch {
	case errors.Is(err, ErrNotConfigured):
		con.writeJSON(res, http.StatusInternalServerError, models.Envelope{
			Error:   errConfiguration,
			Message: ErrNotConfigured.Error(),
		})
		return

	case errors.As(err, &statusErr):
		status := statusErr.Status
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		con.sugar.Warnw("upstream error", "uri", req.RequestURI, "status", statusErr.Status)
		con.writeJSON(res, status, models.Envelope{
			Error:   errUpstream,
			Message: statusErr.Error(),
			Details: details(statusErr.Body),
		})
		return

	case errors.As(err, &schemaErr):
		con.sugar.Errorw("invalid upstream response", "uri", req.RequestURI, "error", err)
		con.writeJSON(res, http.StatusBadGateway, models.Envelope{
			Error:   errInvalidUpstream,
			Message: schemaErr.Error(),
		})
		return
	}

	con.sugar.Errorw("request failed", "uri", req.RequestURI, "error", err)
	con.writeJSON(res, http.StatusInternalServerError, models.Envelope{
		Error:   errServer,
		Message: err.Error(),
	})
}

// details embeds a JSON upstream body as-is and anything else as a string.
func details(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	if mimetype.Detect(body).Is("application/json") && json.Valid(body) {
		return json.RawMessage(body)
	}
	return string(body)
}

func itemPath(collection, id string) string {
	return fmt.Sprintf("/api/%s/%s", collection, url.PathEscape(id))
}
