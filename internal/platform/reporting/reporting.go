// Package reporting backs the dashboard views: live queue counts, today's
// registrations, revenue totals, and a small set of SQL measures over the
// registry and billing tables.
package reporting

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/domain/billing"
	"github.com/hms/hms/internal/domain/opd"
)

// QueueCounter reports the OPD queue broken down by status.
type QueueCounter interface {
	CountByStatus(ctx context.Context, since time.Time) (map[opd.Status]int, int, error)
}

// RevenueSource reports stored invoice totals.
type RevenueSource interface {
	RevenueSummary(ctx context.Context, since time.Time) (*billing.RevenueSummary, error)
}

// DashboardSummary is the payload behind the landing dashboard.
type DashboardSummary struct {
	GeneratedAt        time.Time               `json:"generated_at"`
	Queue              map[string]int          `json:"queue"`
	TodayRegistrations int                     `json:"today_registrations"`
	Revenue            *billing.RevenueSummary `json:"revenue"`
}

// MeasureDefinition defines a reporting measure with its SQL query.
type MeasureDefinition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SQL         string `json:"sql"`
}

// MeasureReport holds the results of evaluating a measure.
type MeasureReport struct {
	MeasureID   string                   `json:"measure_id"`
	MeasureName string                   `json:"measure_name"`
	GeneratedAt time.Time                `json:"generated_at"`
	Results     []map[string]interface{} `json:"results"`
}

// PredefinedMeasures is the list of available reporting measures.
var PredefinedMeasures = []MeasureDefinition{
	{
		ID:          "patient-count",
		Name:        "Patient Count",
		Description: "Total number of registered patients",
		SQL:         `SELECT COUNT(*) AS total FROM patients`,
	},
	{
		ID:          "doctors-by-department",
		Name:        "Doctors by Department",
		Description: "Number of doctors grouped by department",
		SQL: `SELECT dep.name AS department, COUNT(*) AS total
			FROM doctors d JOIN departments dep ON dep.id = d.department_id
			GROUP BY dep.name ORDER BY total DESC`,
	},
	{
		ID:          "staff-by-role",
		Name:        "Staff by Role",
		Description: "Number of staff members grouped by role",
		SQL:         `SELECT role, COUNT(*) AS total FROM staff GROUP BY role ORDER BY total DESC`,
	},
	{
		ID:          "revenue-by-day",
		Name:        "Revenue by Day",
		Description: "Invoice totals grouped by day, most recent first",
		SQL: `SELECT created_at::date AS day, COUNT(*) AS invoices, COALESCE(SUM(total), 0) AS revenue
			FROM invoices GROUP BY created_at::date ORDER BY day DESC LIMIT 30`,
	},
}

// Handler provides HTTP handlers for the reporting API.
type Handler struct {
	pool    *pgxpool.Pool
	queue   QueueCounter
	revenue RevenueSource
}

func NewHandler(pool *pgxpool.Pool, queue QueueCounter, revenue RevenueSource) *Handler {
	return &Handler{pool: pool, queue: queue, revenue: revenue}
}

// RegisterRoutes registers the reporting API routes.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	reports := api.Group("/reports")
	reports.GET("/dashboard", h.Dashboard)
	reports.GET("/measures", h.ListMeasures)
	reports.GET("/measures/:id/evaluate", h.EvaluateMeasure)
}

// Dashboard aggregates queue counts and revenue totals for the landing view.
// "Today" is midnight in the server's local time.
func (h *Handler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	byStatus, today, err := h.queue.CountByStatus(ctx, midnight)
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, fmt.Sprintf("queue counts: %v", err))
	}

	revenue, err := h.revenue.RevenueSummary(ctx, midnight)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("revenue summary: %v", err))
	}

	queue := make(map[string]int, len(byStatus))
	for s, n := range byStatus {
		queue[string(s)] = n
	}

	return c.JSON(http.StatusOK, DashboardSummary{
		GeneratedAt:        now,
		Queue:              queue,
		TodayRegistrations: today,
		Revenue:            revenue,
	})
}

// ListMeasures returns all available measure definitions.
func (h *Handler) ListMeasures(c echo.Context) error {
	return c.JSON(http.StatusOK, PredefinedMeasures)
}

// EvaluateMeasure executes a measure's SQL and returns the results.
func (h *Handler) EvaluateMeasure(c echo.Context) error {
	measure := FindMeasure(c.Param("id"))
	if measure == nil {
		return echo.NewHTTPError(http.StatusNotFound, "measure not found")
	}

	results, err := h.executeSQL(c.Request().Context(), measure.SQL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("query failed: %v", err))
	}

	return c.JSON(http.StatusOK, MeasureReport{
		MeasureID:   measure.ID,
		MeasureName: measure.Name,
		GeneratedAt: time.Now(),
		Results:     results,
	})
}

// executeSQL runs a SQL query and returns results as a slice of maps.
func (h *Handler) executeSQL(ctx context.Context, sql string) ([]map[string]interface{}, error) {
	rows, err := h.pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	var results []map[string]interface{}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(fieldDescs))
		for i, fd := range fieldDescs {
			row[string(fd.Name)] = values[i]
		}
		results = append(results, row)
	}

	if results == nil {
		results = []map[string]interface{}{}
	}

	return results, nil
}

// FindMeasure looks up a measure by ID.
func FindMeasure(id string) *MeasureDefinition {
	for i := range PredefinedMeasures {
		if PredefinedMeasures[i].ID == id {
			return &PredefinedMeasures[i]
		}
	}
	return nil
}
