// Package menu is the registry of user-facing screens: their titles, the
// routes that serve them and the roles allowed to use them. Route
// registration reads the roles from here, so the home screen and the
// access checks cannot drift apart.
package menu

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ehr/safesurgery/internal/platform/auth"
)

const (
	AppTitle       = "Sistema de Gestión de Cirugías"
	AppDescription = "Sistema clínico para control de pacientes, cirugías y checklist OMS."
)

// Screen is one entry of the main menu.
type Screen struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	// Method and Path identify the route that performs the screen's action.
	Method string `json:"method"`
	Path   string `json:"path"`
	// Roles allowed to use the screen. Empty means any authenticated user.
	Roles []string `json:"roles,omitempty"`
}

// Guard returns the middleware enforcing the screen's roles.
func (s Screen) Guard() echo.MiddlewareFunc {
	return auth.RequireRole(s.Roles...)
}

// Allows reports whether sess may use the screen.
func (s Screen) Allows(sess *auth.Session) bool {
	return auth.HasRole(sess, s.Roles...)
}

var (
	Home = Screen{
		Key: "home", Title: "Inicio",
		Method: http.MethodGet, Path: "/api/v1/home",
	}
	PatientIntake = Screen{
		Key: "patient_intake", Title: "Ingreso de Paciente",
		Method: http.MethodPost, Path: "/api/v1/patients",
		Roles: []string{auth.RoleAdministrador, auth.RoleEnfermeria},
	}
	PatientHistory = Screen{
		Key: "patient_history", Title: "Historial de Pacientes",
		Method: http.MethodGet, Path: "/api/v1/patients",
	}
	SurgeryIntake = Screen{
		Key: "surgery_intake", Title: "Ingreso de Cirugía",
		Method: http.MethodPost, Path: "/api/v1/surgeries",
		Roles: []string{auth.RoleCirujano},
	}
	SafetyChecklist = Screen{
		Key: "safety_checklist", Title: "Checklist Cirugía Segura",
		Method: http.MethodPost, Path: "/api/v1/checklist",
	}
	ClinicalHistory = Screen{
		Key: "clinical_history", Title: "Historia Clínica del Paciente",
		Method: http.MethodGet, Path: "/api/v1/clinical-notes",
	}
)

// Screens returns the menu in display order.
func Screens() []Screen {
	return []Screen{Home, PatientIntake, PatientHistory, SurgeryIntake, SafetyChecklist, ClinicalHistory}
}

type menuEntry struct {
	Screen
	Allowed bool `json:"allowed"`
}

type homeResponse struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Session     *auth.Session `json:"session"`
	Screens     []menuEntry   `json:"screens"`
}

// Handler serves the home screen.
type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/home", h.Home, Home.Guard())
}

// Home lists every screen and whether the current session may use it.
func (h *Handler) Home(c echo.Context) error {
	sess, ok := auth.SessionFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	screens := Screens()
	entries := make([]menuEntry, 0, len(screens))
	for _, s := range screens {
		entries = append(entries, menuEntry{Screen: s, Allowed: s.Allows(sess)})
	}

	return c.JSON(http.StatusOK, homeResponse{
		Title:       AppTitle,
		Description: AppDescription,
		Session:     sess,
		Screens:     entries,
	})
}
