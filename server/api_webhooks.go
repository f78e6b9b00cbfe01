package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	webhooksports "github.com/storefront/orders-inventory/internal/domains/webhooks/ports"
)

// SignatureHeader carries the hex-encoded HMAC-SHA256 of the raw request body.
const SignatureHeader = "X-Signature"

// WebhooksAPI wires HTTP transport with the webhook processor.
type WebhooksAPI struct {
	service webhooksports.Service
}

// NewWebhooksAPI creates a WebhooksAPI backed by the provided processor.
func NewWebhooksAPI(service webhooksports.Service) WebhooksAPI {
	return WebhooksAPI{service: service}
}

// Post /webhooks/payment
// Receive a signed payment provider event
func (api *WebhooksAPI) ReceivePaymentWebhook(c *gin.Context) {
	// The signature covers the exact raw bytes; no binding before verification.
	rawBody, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	outcome, err := api.service.Process(c.Request.Context(), rawBody, c.GetHeader(SignatureHeader))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": outcomeDetail(outcome)})
}

func outcomeDetail(outcome webhooksports.Outcome) string {
	switch outcome {
	case webhooksports.OutcomeAlreadyProcessed:
		return "event already processed"
	case webhooksports.OutcomeIgnored:
		return "ignored"
	default:
		return "ok"
	}
}
