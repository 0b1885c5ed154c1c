package handlers

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"storefront/internal/upstream"

	"github.com/go-chi/chi/v5"
)

// forwardedHeaders are copied from the inbound request on write operations.
var forwardedHeaders = []string{"Content-Type", "Authorization", "Cookie"}

// GetCart - GET /api/cart/{id}. The upstream answer is relayed verbatim.
func (con *Controller) GetCart() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		target := upstream.Path(itemPath("carts", chi.URLParam(req, "id")), upstream.NewQuery().SetInt("depth", 1))
		con.relay(res, req, http.MethodGet, target)
	}
}

// UpdateCartItem - PUT /api/cart/{id}/items/{itemID}.
func (con *Controller) UpdateCartItem() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		con.relay(res, req, http.MethodPut, cartItemPath(req))
	}
}

// DeleteCartItem - DELETE /api/cart/{id}/items/{itemID}.
func (con *Controller) DeleteCartItem() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		con.relay(res, req, http.MethodDelete, cartItemPath(req))
	}
}

// CalculateOrder - POST /api/orders/calculate.
func (con *Controller) CalculateOrder() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		con.relay(res, req, http.MethodPost, "/api/orders/calculate")
	}
}

// GetOrder - GET /api/orders/{id}.
func (con *Controller) GetOrder() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		target := upstream.Path(itemPath("orders", chi.URLParam(req, "id")), upstream.NewQuery().SetInt("depth", 1))
		con.relay(res, req, http.MethodGet, target)
	}
}

func cartItemPath(req *http.Request) string {
	return fmt.Sprintf("/api/carts/%s/items/%s",
		url.PathEscape(chi.URLParam(req, "id")), url.PathEscape(chi.URLParam(req, "itemID")))
}

// relay forwards the request body and selected headers, then copies the
// upstream status and body back without mapping.
func (con *Controller) relay(res http.ResponseWriter, req *http.Request, method, target string) {
	if !con.conf.Configured() {
		con.fail(res, req, ErrNotConfigured)
		return
	}

	header := http.Header{}
	for _, name := range forwardedHeaders {
		if v := req.Header.Get(name); v != "" {
			header.Set(name, v)
		}
	}

	var body io.Reader
	if method != http.MethodGet {
		body = req.Body
	}

	up, err := con.api.Do(req.Context(), method, target, header, body)
	if err != nil {
		con.fail(res, req, err)
		return
	}

	contentType := up.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	res.Header().Set("Content-Type", contentType)
	res.WriteHeader(up.Status)
	if _, err := res.Write(up.Body); err != nil {
		con.sugar.Debugw("write relayed response", "error", err)
	}
}
