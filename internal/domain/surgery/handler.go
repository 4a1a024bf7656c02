package surgery

import (
	"errors"
	"net/http"

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
	api.POST("/surgeries", h.CreateSurgery, menu.SurgeryIntake.Guard())
	api.GET("/surgeries", h.ListSurgeries)
}

func (h *Handler) CreateSurgery(c echo.Context) error {
	var sg Surgery
	if err := c.Bind(&sg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sg.ID = 0
	if err := h.svc.CreateSurgery(c.Request().Context(), &sg); err != nil {
		if errors.Is(err, ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusCreated, sg)
}

func (h *Handler) ListSurgeries(c echo.Context) error {
	pg := pagination.FromContext(c)
	surgeries, err := h.svc.ListSurgeries(c.Request().Context(), c.QueryParam("patient"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(pagination.Page(surgeries, pg), len(surgeries), pg.Limit, pg.Offset))
}
