package clinical

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ehr/safesurgery/internal/platform/menu"
	"github.com/ehr/safesurgery/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/clinical-notes", menu.ClinicalHistory.Guard())
	g.GET("", h.ListNotes)
	g.POST("", h.AddNote)
}

func (h *Handler) AddNote(c echo.Context) error {
	var n Note
	if err := c.Bind(&n); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.AddNote(c.Request().Context(), &n); err != nil {
		if errors.Is(err, ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusCreated, n)
}

func (h *Handler) ListNotes(c echo.Context) error {
	pg := pagination.FromContext(c)
	notes, err := h.svc.ListNotes(c.Request().Context(), strings.TrimSpace(c.QueryParam("patient")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(pagination.Page(notes, pg), len(notes), pg.Limit, pg.Offset))
}
