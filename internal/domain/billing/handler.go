package billing

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/document"
	"github.com/hms/hms/pkg/pagination"
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
	api.POST("/invoices", h.Create)
	api.GET("/invoices", h.List)
	api.GET("/invoices/:id", h.GetByID)
	api.GET("/invoices/:id/print", h.Print)
	api.POST("/opd/registrations/:id/invoice", h.GenerateFromRegistration)
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInvoiceInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	inv, err := h.svc.CreateInvoice(c.Request().Context(), in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, inv)
}

func (h *Handler) GenerateFromRegistration(c echo.Context) error {
	regID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid registration id")
	}

	var body struct {
		Items          []LineItem `json:"items"`
		DiscountAmount float64    `json:"discount_amount"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	inv, err := h.svc.GenerateFromRegistration(c.Request().Context(), regID, body.Items, body.DiscountAmount)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "registration not found")
		case errors.Is(err, ErrNotCompleted):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, inv)
}

func (h *Handler) GetByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	inv, err := h.svc.GetInvoice(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "invoice not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	if p := c.QueryParam("patient_id"); p != "" {
		patientID, err := uuid.Parse(p)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		items, total, err := h.svc.ListInvoicesByPatient(ctx, patientID, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}

	items, total, err := h.svc.ListInvoices(ctx, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Print(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	inv, err := h.svc.GetInvoice(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "invoice not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	rows := make([][]string, 0, len(inv.Items))
	for _, li := range inv.Items {
		rows = append(rows, []string{
			li.Description,
			fmt.Sprintf("%d", li.Quantity),
			fmt.Sprintf("%.2f", li.Rate),
			fmt.Sprintf("%.2f", li.Amount),
		})
	}

	doc := document.Document{
		Letterhead: h.letterhead,
		Title:      "Invoice " + inv.InvoiceNumber,
		Fields: []document.Field{
			{Label: "Patient", Value: inv.PatientName},
			{Label: "Date", Value: inv.CreatedAt.Format("02 Jan 2006 15:04")},
		},
		Table: &document.Table{
			Columns: []string{"Description", "Qty", "Rate", "Amount"},
			Rows:    rows,
		},
		Footer: fmt.Sprintf("Subtotal: %.2f | Tax (%.1f%%): %.2f | Discount: %.2f | Total: %.2f",
			inv.Subtotal, inv.TaxRatePercent, inv.TaxAmount, inv.DiscountAmount, inv.Total),
	}

	out, err := h.renderer.Render(doc)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.Blob(http.StatusOK, h.renderer.ContentType(), out)
}
