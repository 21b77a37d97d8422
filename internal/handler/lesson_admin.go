package handler

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/afterclass/lesson-booking/internal/repository"
)

// AdminHandler exposes catalog mutation for administrators.
type AdminHandler struct {
	Lessons repository.LessonStore
}

// NewAdminHandler constructs an AdminHandler and panics if the store is nil.
func NewAdminHandler(lessons repository.LessonStore) *AdminHandler {
	if lessons == nil {
		panic("nil lesson store passed to NewAdminHandler")
	}
	return &AdminHandler{Lessons: lessons}
}

// UpdateLesson handles PUT /lessons/:id. The body is a partial patch;
// only allow-listed fields may change and each value is validated by
// type. The identity fields are ignored rather than rejected so clients
// may echo back a fetched lesson. A spaces value below zero is rejected
// outright: capacity never goes negative.
func (h *AdminHandler) UpdateLesson(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var body map[string]any
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	patch, err := buildPatch(body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	res, err := h.Lessons.Update(c.Request().Context(), id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrLessonNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lesson not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store unavailable"})
	}
	return c.JSON(http.StatusOK, res)
}

// buildPatch converts a raw JSON object into a typed LessonPatch,
// enforcing the allow-list of mutable fields. JSON numbers arrive as
// float64; spaces must be a non-negative integer and price a non-negative
// amount.
func buildPatch(body map[string]any) (repository.LessonPatch, error) {
	var patch repository.LessonPatch
	for k, v := range body {
		switch k {
		case "id", "_id":
			// identity is immutable; silently stripped
		case "subject":
			s, err := stringField(k, v)
			if err != nil {
				return patch, err
			}
			patch.Subject = &s
		case "location":
			s, err := stringField(k, v)
			if err != nil {
				return patch, err
			}
			patch.Location = &s
		case "instructor":
			s, err := stringField(k, v)
			if err != nil {
				return patch, err
			}
			patch.Instructor = &s
		case "description":
			s, err := stringField(k, v)
			if err != nil {
				return patch, err
			}
			patch.Description = &s
		case "schedule":
			s, err := stringField(k, v)
			if err != nil {
				return patch, err
			}
			patch.Schedule = &s
		case "price":
			f, ok := v.(float64)
			if !ok || f < 0 {
				return patch, errors.New("price must be a non-negative number")
			}
			cents := uint32(math.Round(f * 100))
			patch.PriceCents = &cents
		case "spaces":
			f, ok := v.(float64)
			if !ok || f != math.Trunc(f) {
				return patch, errors.New("spaces must be an integer")
			}
			if f < 0 {
				return patch, errors.New("invalid capacity")
			}
			n := int64(f)
			patch.Spaces = &n
		default:
			return patch, fmt.Errorf("field not updatable: %s", k)
		}
	}
	return patch, nil
}

func stringField(name string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", name)
	}
	return s, nil
}
