package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ntpc-opendata/ntpc-opendata/internal/api/middleware"
	"github.com/ntpc-opendata/ntpc-opendata/internal/api/models"
	"github.com/ntpc-opendata/ntpc-opendata/internal/api/response"
	"github.com/ntpc-opendata/ntpc-opendata/internal/bus"
	"github.com/ntpc-opendata/ntpc-opendata/internal/opendata"
	"github.com/ntpc-opendata/ntpc-opendata/internal/parking"
	"github.com/ntpc-opendata/ntpc-opendata/internal/tools"
	"github.com/ntpc-opendata/ntpc-opendata/pkg/geo"
)

// MaxArgumentBytes caps the size of a tool invocation body.
const MaxArgumentBytes = 64 << 10

// ToolsHandler exposes the tool registry over HTTP.
type ToolsHandler struct {
	registry *tools.Registry
	logger   zerolog.Logger
}

// NewToolsHandler creates a new ToolsHandler.
func NewToolsHandler(registry *tools.Registry, logger zerolog.Logger) *ToolsHandler {
	return &ToolsHandler{
		registry: registry,
		logger:   logger.With().Str("handler", "tools").Logger(),
	}
}

// ListTools handles GET /v1/tools.
func (h *ToolsHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	list := h.registry.List()
	response.JSON(w, r, http.StatusOK, models.ToolList{Tools: list, Count: len(list)})
}

// InvokeTool handles POST /v1/tools/{name}. The body is the JSON argument
// object; an empty body means no arguments.
func (h *ToolsHandler) InvokeTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxArgumentBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.BadRequest(w, r, "request body too large", nil)
			return
		}
		response.BadRequest(w, r, "could not read request body", nil)
		return
	}

	result, err := h.registry.Invoke(r.Context(), name, body)
	if err != nil {
		h.writeError(w, r, name, err)
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

func (h *ToolsHandler) writeError(w http.ResponseWriter, r *http.Request, name string, err error) {
	var argErr *tools.ArgumentError

	switch {
	case errors.Is(err, tools.ErrUnknownTool):
		response.NotFound(w, r, "unknown tool: "+name)
	case errors.As(err, &argErr):
		detail := argErr.Detail
		if detail == "" {
			detail = "invalid arguments"
		}
		response.BadRequest(w, r, detail, fieldErrors(argErr.Fields))
	case errors.Is(err, geo.ErrInvalidCoordinate):
		response.BadRequest(w, r, err.Error(), nil)
	case errors.Is(err, bus.ErrRouteNotFound),
		errors.Is(err, bus.ErrStopNotFound),
		errors.Is(err, parking.ErrLotNotFound):
		response.NotFound(w, r, err.Error())
	case errors.Is(err, opendata.ErrResourceNotConfigured):
		response.ServiceUnavailable(w, r, err.Error())
	case errors.Is(err, opendata.ErrUpstream):
		h.logger.Warn().Err(err).
			Str("tool", name).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Msg("upstream request failed")
		response.BadGateway(w, r, opendata.ErrUpstream.Error(), opendata.StatusCode(err))
	default:
		h.logger.Error().Err(err).
			Str("tool", name).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Msg("tool invocation failed")
		response.InternalError(w, r, "tool invocation failed")
	}
}

func fieldErrors(fields []tools.FieldError) []models.FieldError {
	if len(fields) == 0 {
		return nil
	}
	out := make([]models.FieldError, len(fields))
	for i, f := range fields {
		out[i] = models.FieldError{Field: f.Field, Message: f.Message, Code: f.Code}
	}
	return out
}
