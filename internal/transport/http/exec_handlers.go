package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/avdeev/codepair-server/internal/broker"
)

// Executor abstracts the execution broker for handlers and tests.
type Executor interface {
	Execute(ctx context.Context, req broker.Request) broker.Result
}

// ExecHandlers provides the code execution endpoint.
type ExecHandlers struct {
	broker Executor
	log    *zerolog.Logger
}

// NewExecHandlers creates a new exec handlers instance.
func NewExecHandlers(exec Executor, logger *zerolog.Logger) *ExecHandlers {
	return &ExecHandlers{broker: exec, log: logger}
}

// ExecuteRequest represents the execute request body.
type ExecuteRequest struct {
	Code     string `json:"code" binding:"required"`
	Language string `json:"language"`
}

// ExecuteResponse represents the execute response body. Crashed and
// timed-out runs are still 200s: their diagnostics are the output.
type ExecuteResponse struct {
	Output  string `json:"output"`
	Outcome string `json:"outcome"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Execute handles code execution.
// POST /execute
func (h *ExecHandlers) Execute(c *gin.Context) {
	var req ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid execute request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "code is required"})
		return
	}

	result := h.broker.Execute(c.Request.Context(), broker.Request{
		Code:     req.Code,
		Language: req.Language,
	})

	c.JSON(http.StatusOK, ExecuteResponse{
		Output:  result.Output,
		Outcome: string(result.Outcome),
	})
}
