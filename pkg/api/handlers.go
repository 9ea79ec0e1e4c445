package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/digitalocean/framer-hubspot/pkg/middleware"
	"github.com/digitalocean/framer-hubspot/pkg/services"
	"github.com/digitalocean/framer-hubspot/pkg/utils"
)

const maxBodyBytes = 1 << 20

// WebhookOptions control the boundary behaviour of the submission endpoint
type WebhookOptions struct {
	// Secret and VerifySignatures enable the HMAC check. Requests without the
	// header are accepted either way.
	Secret           string
	VerifySignatures bool
	SignatureHeader  string
	// StrictErrors turns failed CRM writes into 502 instead of 200.
	StrictErrors bool
}

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	submissionService services.SubmissionService
	opts              WebhookOptions
	logger            *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(submissionService services.SubmissionService, opts WebhookOptions, logger *zap.Logger) *Handlers {
	if opts.SignatureHeader == "" {
		opts.SignatureHeader = "X-Webhook-Signature"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		submissionService: submissionService,
		opts:              opts,
		logger:            logger,
	}
}

// Register mounts the routes on router
func (h *Handlers) Register(router *gin.Engine) {
	router.HandleMethodNotAllowed = true
	router.NoMethod(h.MethodNotAllowed)

	router.GET("/health", h.HealthCheck)
	router.POST("/webhook", h.HandleSubmission)
	router.POST("/webhook/framer-submission", h.HandleSubmission)
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// MethodNotAllowed answers requests to known paths with the wrong method
func (h *Handlers) MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
}

// HandleSubmission processes incoming form webhooks. Anything that goes wrong
// once the request is known to be genuine is answered with 200 so the form
// never shows an error to the visitor.
func (h *Handlers) HandleSubmission(c *gin.Context) {
	log := h.logger.With(zap.String("request_id", middleware.RequestIDFrom(c)))

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		log.Warn("error reading request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error reading request"})
		return
	}

	if h.opts.VerifySignatures && h.opts.Secret != "" {
		if sig := c.GetHeader(h.opts.SignatureHeader); sig != "" {
			if err := utils.VerifySignature(h.opts.Secret, body, sig); err != nil {
				log.Warn("rejected webhook", zap.Error(err))
				c.JSON(http.StatusForbidden, gin.H{"error": "invalid signature"})
				return
			}
		}
	}

	raw, err := ParseSubmission(body)
	if err != nil {
		log.Warn("error parsing webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format"})
		return
	}

	result, err := h.submissionService.ProcessSubmission(c.Request.Context(), raw)

	var validationErr *services.ValidationError
	var upsertErr *services.UpsertError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"status":     "success",
			"action":     result.Action,
			"contact_id": result.ContactID,
		})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusOK, gin.H{"status": "ignored", "error": validationErr.Error()})
	case errors.As(err, &upsertErr):
		status := http.StatusOK
		if h.opts.StrictErrors {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"status": "error", "error": "contact could not be saved"})
	default:
		log.Error("error processing submission", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
