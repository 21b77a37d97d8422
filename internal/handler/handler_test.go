package handler_test

import (
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/afterclass/lesson-booking/internal/handler"
	"github.com/afterclass/lesson-booking/internal/router"
)

// newTestServer wires the real router to handlers backed by the fake
// store. The nil Redis client turns the cache and rate limit middlewares
// into pass-through, and the nil publisher disables broker traffic.
func newTestServer(st *fakeStore) *echo.Echo {
	e := echo.New()
	catalog := handler.NewCatalogHandler(st)
	orders := handler.NewOrderHandler(st, fakeOrders{st: st}, nil)
	admin := handler.NewAdminHandler(st)
	router.Register(e, catalog, orders, admin, nil)
	return e
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
