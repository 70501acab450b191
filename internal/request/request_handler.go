package request

import (
	"net/http"

	authzerrors "go-hris-workflow/internal/authz/errors"
	"go-hris-workflow/internal/middleware"
	"go-hris-workflow/internal/shared/apperror"
	"go-hris-workflow/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("request.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("request.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("category", string(httpErr.Category)),
		zap.String("message", httpErr.Message),
	}
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("request workflow failed", append(fields, zap.Error(err))...)
	} else {
		h.logger.Warn("request workflow failed", fields...)
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, err error) {
	h.logger.Warn("http request validation failed", zap.String("path", c.FullPath()), zap.Error(err))
	httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
}

func (h *Handler) Create(c *gin.Context) {
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		h.writeServiceError(c, authzerrors.ErrTokenMissing)
		return
	}
	h.logger.Debug("http create request", zap.String("caller_id", caller.ID))

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, SingleResponse{Request: resp})
}

func (h *Handler) List(c *gin.Context) {
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		h.writeServiceError(c, authzerrors.ErrTokenMissing)
		return
	}

	resp, err := h.service.List(c.Request.Context(), caller, c.Query("view"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ListResponse{Requests: resp})
}

func (h *Handler) GetByID(c *gin.Context) {
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		h.writeServiceError(c, authzerrors.ErrTokenMissing)
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, SingleResponse{Request: resp})
}

func (h *Handler) Decide(c *gin.Context) {
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		h.writeServiceError(c, authzerrors.ErrTokenMissing)
		return
	}
	id := c.Param("id")
	h.logger.Debug("http decide request", zap.String("request_id", id), zap.String("caller_id", caller.ID))

	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Decide(c.Request.Context(), caller, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, SingleResponse{Request: resp})
}
