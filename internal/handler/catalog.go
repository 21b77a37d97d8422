package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/afterclass/lesson-booking/internal/model"
	"github.com/afterclass/lesson-booking/internal/repository"
)

// CatalogHandler serves the public browse and search endpoints.
type CatalogHandler struct {
	Lessons repository.LessonStore
}

// NewCatalogHandler constructs a CatalogHandler and panics if the store is nil.
func NewCatalogHandler(lessons repository.LessonStore) *CatalogHandler {
	if lessons == nil {
		panic("nil lesson store passed to NewCatalogHandler")
	}
	return &CatalogHandler{Lessons: lessons}
}

// GetLessons handles GET /lessons. It returns the full catalog in
// store-native order.
func (h *CatalogHandler) GetLessons(c echo.Context) error {
	lessons, err := h.Lessons.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store unavailable"})
	}
	return c.JSON(http.StatusOK, lessons)
}

// GetLesson handles GET /lessons/:id.
func (h *CatalogHandler) GetLesson(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	lesson, err := h.Lessons.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrLessonNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lesson not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store unavailable"})
	}
	return c.JSON(http.StatusOK, lesson)
}

// SearchLessons handles GET /search?q=term. A blank or whitespace-only
// query is the defined "no query" case: it returns an empty list without
// touching the store. Otherwise the term is matched as a literal
// case-insensitive substring over all searchable lesson fields.
func (h *CatalogHandler) SearchLessons(c echo.Context) error {
	term := strings.TrimSpace(c.QueryParam("q"))
	if term == "" {
		return c.JSON(http.StatusOK, []model.Lesson{})
	}
	lessons, err := h.Lessons.Search(c.Request().Context(), term)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store unavailable"})
	}
	return c.JSON(http.StatusOK, lessons)
}
