package opd

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/document"
)

type Handler struct {
	svc        *Service
	renderer   document.Renderer
	letterhead document.Letterhead
}

func NewHandler(svc *Service, renderer document.Renderer, letterhead document.Letterhead) *Handler {
	return &Handler{svc: svc, renderer: renderer, letterhead: letterhead}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/opd/registrations", h.Register)
	api.GET("/opd/registrations", h.List)
	api.GET("/opd/registrations/:id", h.GetByID)
	api.POST("/opd/registrations/:id/transition", h.Transition)
	api.GET("/opd/registrations/:id/slip", h.PrintSlip)
}

// httpError maps the domain error taxonomy onto HTTP statuses: validation
// 400, not found 404, illegal transition 409, storage failure 503.
func httpError(err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]interface{}{
			"message": ve.Error(),
			"fields":  ve.Fields,
		})
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return echo.NewHTTPError(http.StatusNotFound, nf.Error())
	}
	var it *InvalidTransitionError
	if errors.As(err, &it) {
		return echo.NewHTTPError(http.StatusConflict, it.Error())
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, pe.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (h *Handler) Register(c echo.Context) error {
	var input RegisterInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	reg, err := h.svc.Register(c.Request().Context(), input)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, reg)
}

func (h *Handler) List(c echo.Context) error {
	f := Filter{
		Status:      c.QueryParam("status"),
		Search:      c.QueryParam("search"),
		SortByToken: c.QueryParam("sort") == "token",
	}
	regs, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return httpError(err)
	}
	if regs == nil {
		regs = []*Registration{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":  regs,
		"total": len(regs),
	})
}

func (h *Handler) GetByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	reg, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, reg)
}

type transitionRequest struct {
	Status Status `json:"status"`
}

func (h *Handler) Transition(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	reg, err := h.svc.Transition(c.Request().Context(), id, req.Status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, reg)
}

// PrintSlip renders a queue slip for the registration through the document
// port.
func (h *Handler) PrintSlip(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	reg, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	doc := document.Document{
		Letterhead: h.letterhead,
		Title:      "OPD Registration Slip",
		Fields: []document.Field{
			{Label: "Token", Value: strconv.Itoa(reg.TokenNumber)},
			{Label: "Patient", Value: reg.PatientName},
			{Label: "Age / Gender", Value: strconv.Itoa(reg.Age) + " / " + reg.Gender},
			{Label: "Contact", Value: reg.ContactNumber},
			{Label: "Department", Value: reg.Department},
			{Label: "Doctor", Value: reg.DoctorName},
			{Label: "Appointment", Value: reg.AppointmentDate + " " + reg.AppointmentTime},
			{Label: "Status", Value: string(reg.Status)},
			{Label: "Registered", Value: reg.RegistrationTime.Format("2006-01-02 15:04")},
		},
		Footer: "Please wait for your token to be called.",
	}

	out, err := h.renderer.Render(doc)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.Blob(http.StatusOK, h.renderer.ContentType(), out)
}
