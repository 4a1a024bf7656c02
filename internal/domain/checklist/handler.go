package checklist

import (
	"errors"
	"net/http"
	"path/filepath"
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
	g := api.Group("/checklist", menu.SafetyChecklist.Guard())
	g.GET("/catalog", h.GetCatalog)
	g.GET("", h.ListEntries)
	g.POST("", h.Submit)
	g.POST("/export", h.Export)
}

func (h *Handler) GetCatalog(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Catalog())
}

func (h *Handler) ListEntries(c echo.Context) error {
	pg := pagination.FromContext(c)
	entries, err := h.svc.ListEntries(c.Request().Context(), strings.TrimSpace(c.QueryParam("patient")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(pagination.Page(entries, pg), len(entries), pg.Limit, pg.Offset))
}

func (h *Handler) Submit(c echo.Context) error {
	var sub Submission
	if err := c.Bind(&sub); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	entries, err := h.svc.Submit(c.Request().Context(), &sub)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"saved":   len(entries),
		"entries": entries,
	})
}

type exportRequest struct {
	PatientName string `json:"patient_name"`
}

// Export writes the document and streams it back as a download.
func (h *Handler) Export(c echo.Context) error {
	var req exportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.PatientName == "" {
		req.PatientName = c.QueryParam("patient")
	}
	path, err := h.svc.Export(c.Request().Context(), req.PatientName)
	if err != nil {
		return mapError(err)
	}
	return c.Attachment(path, filepath.Base(path))
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNothingToExport):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUnknownPhase), errors.Is(err, ErrUnknownItem):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}
