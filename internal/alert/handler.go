package alert

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"safegenie/internal/logger"
	pkgerrors "safegenie/pkg/errors"
	"safegenie/pkg/logging"
	"safegenie/pkg/metrics"
)

type Handler struct {
	service *Service
	logger  logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.POST("/send-sos-email", h.SendSOS)
}

// SendSOS handles POST /api/send-sos-email.
func (h *Handler) SendSOS(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()

	var req SendSOSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := pkgerrors.ErrValidation.
			WithCause(err).
			WithDetail("message", "invalid request body")
		h.respondError(c, appErr)
		metrics.ObserveSOSRequest(time.Since(start), strconv.Itoa(appErr.Status))
		return
	}

	resp, err := h.service.Send(ctx, req)
	if err != nil {
		h.respondError(c, err)
		metrics.ObserveSOSRequest(time.Since(start), strconv.Itoa(pkgerrors.ToHTTPStatus(err)))
		return
	}

	c.JSON(http.StatusOK, resp)
	metrics.ObserveSOSRequest(time.Since(start), strconv.Itoa(http.StatusOK))
}

// respondError maps a taxonomy error to its HTTP shape. Server-side failures
// carry the request id so callers can quote it when reporting the incident.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := pkgerrors.ToHTTPStatus(err)
	body := pkgerrors.ToErrorResponse(err)

	if status >= http.StatusInternalServerError {
		if requestID := logging.GetRequestID(c.Request.Context()); requestID != "" {
			body["requestId"] = requestID
		}
	}

	c.JSON(status, body)
}
