package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rutero-ai/rutero/config"
	"github.com/rutero-ai/rutero/internal/agent/core"
)

// Planner is the request entry point the API exposes. *core.Dispatcher
// satisfies it; tests substitute a stub.
type Planner interface {
	Invoke(ctx context.Context, req core.Request) (core.Result, error)
}

// Server is the HTTP surface around the dispatcher.
type Server struct {
	echo    *echo.Echo
	planner Planner
	timeout time.Duration
	logger  *log.Logger
}

func New(cfg *config.Config, planner Planner) *Server {
	s := &Server{
		planner: planner,
		timeout: cfg.General.MaxProcessingTime,
		logger:  log.New(log.Writer(), "[HTTP] ", log.LstdFlags),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		s.logger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]any{"error": msg})
		}
	}

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.POST("/plan", s.handlePlan)

	s.echo = e
	return s
}

// PlanRequest is the POST /plan payload.
type PlanRequest struct {
	Query       string   `json:"query"`
	Budget      float64  `json:"budget,omitempty"`
	Days        int      `json:"days,omitempty"`
	Preferences []string `json:"preferences,omitempty"`
}

// PlanResponse carries the synthesized answer plus run metadata. The full
// trace stays internal; callers get counts only.
type PlanResponse struct {
	RequestID      string   `json:"request_id"`
	Answer         string   `json:"answer"`
	WorkersUsed    []string `json:"workers_used"`
	ToolCalls      int      `json:"tool_calls"`
	TokensUsed     int64    `json:"tokens_used"`
	ProcessingTime string   `json:"processing_time"`
}

func (s *Server) handlePlan(c echo.Context) error {
	var req PlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	ctx := c.Request().Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	res, err := s.planner.Invoke(ctx, core.Request{
		Query:       req.Query,
		Budget:      req.Budget,
		Days:        req.Days,
		Preferences: req.Preferences,
	})
	if err != nil {
		if ctx.Err() != nil {
			return echo.NewHTTPError(http.StatusGatewayTimeout, "planning timed out")
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	toolCalls := 0
	if res.Trace != nil {
		toolCalls = len(res.Trace.Invocations)
	}
	return c.JSON(http.StatusOK, PlanResponse{
		RequestID:      res.RequestID,
		Answer:         res.Answer,
		WorkersUsed:    res.WorkersUsed,
		ToolCalls:      toolCalls,
		TokensUsed:     res.TokensUsed,
		ProcessingTime: res.ProcessingTime.String(),
	})
}

// Start blocks serving on addr until the listener fails or Shutdown runs.
func (s *Server) Start(addr string) error {
	s.logger.Printf("listening on %s", addr)
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the routing tree for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
