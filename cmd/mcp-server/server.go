package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/njchilds90/gotaylor"
	"github.com/njchilds90/gotaylor/internal/config"
	"github.com/njchilds90/gotaylor/internal/metrics"
)

// knownTools bounds the tool label of the metrics to the tools that exist.
var knownTools = func() map[string]bool {
	m := map[string]bool{}
	for _, name := range gotaylor.Tools() {
		m[name] = true
	}
	return m
}()

func toolLabel(tool string) string {
	if knownTools[tool] {
		return tool
	}
	return "unknown"
}

// server holds what the HTTP handlers share.
type server struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	tools   *gotaylor.Toolbox
}

func newServer(cfg config.Config, logger *slog.Logger, m *metrics.Metrics) *server {
	return &server{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		tools:   &gotaylor.Toolbox{MaxOrder: cfg.Engine.MaxOrder},
	}
}

// router builds the gin engine:
//
//	POST /tool    execute a tool call
//	GET  /schema  tool schema for agent registration
//	GET  /health  liveness check
//	GET  /metrics Prometheus metrics
func (s *server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, rec interface{}) {
		s.logger.Error("panic in handler", "path", c.Request.URL.Path, "panic", rec)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gotaylor.ToolResponse{
			Error: "internal server error",
			Code:  "INTERNAL",
		})
	}))
	r.Use(s.requestID())

	r.POST("/tool", s.handleTool)
	r.GET("/schema", s.handleSchema)
	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	return r
}

// requestID echoes X-Request-ID, minting one when the client sent none.
func (s *server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Set("request_id", id)
		c.Next()
	}
}

func (s *server) handleTool(c *gin.Context) {
	logger := s.logger.With("request_id", c.GetString("request_id"), "handler", "tool")

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.Server.MaxBodyBytes)
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()

	var req gotaylor.ToolRequest
	if err := dec.Decode(&req); err != nil {
		logger.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gotaylor.ToolResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
		return
	}
	if dec.More() {
		c.JSON(http.StatusBadRequest, gotaylor.ToolResponse{Error: "invalid JSON: trailing data", Code: "INVALID_REQUEST"})
		return
	}

	if order, ok := req.Params["order"].(float64); ok {
		s.metrics.ObserveOrder(int(order))
	}

	start := time.Now()
	resp := s.tools.Handle(req)
	elapsed := time.Since(start)
	s.metrics.ObserveCall(toolLabel(req.Tool), resp.Code, elapsed)

	if resp.Error != "" {
		logger.Info("tool call failed", "tool", req.Tool, "code", resp.Code, "error", resp.Error)
	} else {
		logger.Debug("tool call", "tool", req.Tool, "elapsed", elapsed)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *server) handleSchema(c *gin.Context) {
	c.Data(http.StatusOK, "application/json", []byte(gotaylor.MCPToolSpec()))
}

func (s *server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
