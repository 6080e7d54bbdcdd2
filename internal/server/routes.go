package server

import (
	"net/http"
	"time"

	"github.com/berfenger/aseko2mqtt/internal/core/domain"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	if s.httpLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())

	e.GET("/healthcheck", s.HealthCheckHandler)
	e.GET("/units", s.ListUnitsHandler)
	e.GET("/units/:serial", s.UnitSnapshotHandler)

	return e
}

func (s *Server) HealthCheckHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.ActorHealthRequest{}, 10*time.Second).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
	}
	if response, ok := res.(domain.ActorHealthResponse); ok && response.Healthy {
		return c.String(http.StatusOK, "health_check: OK")
	}
	return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
}

func (s *Server) ListUnitsHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.GetKnownUnitsRequest{}, 10*time.Second).Result()
	if err != nil {
		return c.NoContent(http.StatusServiceUnavailable)
	}
	response, ok := res.(domain.GetKnownUnitsResponse)
	if !ok {
		return c.NoContent(http.StatusServiceUnavailable)
	}
	units := make([]map[string]any, 0, len(response.Snapshots))
	for _, snapshot := range response.Snapshots {
		units = append(units, snapshotToJSON(snapshot))
	}
	return c.JSON(http.StatusOK, units)
}

func (s *Server) UnitSnapshotHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.GetUnitSnapshotRequest{
		SerialNumber: c.Param("serial"),
	}, 10*time.Second).Result()
	if err != nil {
		return c.NoContent(http.StatusServiceUnavailable)
	}
	response, ok := res.(domain.GetUnitSnapshotResponse)
	if !ok {
		return c.NoContent(http.StatusServiceUnavailable)
	}
	if response.Snapshot == nil {
		return c.NoContent(http.StatusNotFound)
	}
	return c.JSON(http.StatusOK, snapshotToJSON(response.Snapshot))
}

func snapshotToJSON(snapshot *domain.Snapshot) map[string]any {
	measurements := map[string]any{}
	for _, f := range domain.MeasurementFields {
		m, ok := snapshot.Measurements[f.Name]
		if !ok {
			continue
		}
		entry := map[string]any{
			"value": m.Value,
			"unit":  m.Unit,
		}
		if m.Required != nil {
			entry["required"] = *m.Required
		}
		measurements[f.Name] = entry
	}
	warnings := make([]map[string]any, 0, len(snapshot.Warnings))
	for _, w := range snapshot.Warnings {
		warnings = append(warnings, map[string]any{
			"type":     w.Type,
			"severity": w.Severity.String(),
			"message":  w.Message,
			"detail":   w.Detail,
		})
	}
	return map[string]any{
		"serial_number": snapshot.SerialNumber,
		"name":          snapshot.Name,
		"brand":         snapshot.Brand,
		"online":        snapshot.Online,
		"measurements":  measurements,
		"states":        snapshot.States,
		"conditions":    snapshot.Conditions,
		"warnings":      warnings,
		"fetched_at":    snapshot.FetchedAt,
	}
}
