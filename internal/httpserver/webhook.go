package httpserver

import (
	"errors"
	"io"
	"log"
	"net/http"

	"storefront/internal/payment"
	ordersvc "storefront/internal/service/order"

	"github.com/gin-gonic/gin"
)

const signatureHeader = "X-Webhook-Signature"

// Completion events are small; anything bigger is not a processor payload.
const maxWebhookBody = 64 << 10

// paymentWebhookHandler receives the processor's completion events. The raw
// body is read before any binding so the signature covers the exact bytes.
// Duplicates and stale events are acknowledged with 2xx so the processor
// stops redelivering; retryable failures return 5xx and the event is not
// acknowledged until the materialization has committed.
func paymentWebhookHandler(logger *log.Logger, svc orderService, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "unreadable body"})
			return
		}

		if err := payment.VerifySignature(body, c.GetHeader(signatureHeader), secret); err != nil {
			logger.Printf("webhook: signature rejected: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid signature"})
			return
		}

		evt, err := payment.ParseCompletedEvent(body)
		if err != nil {
			logger.Printf("webhook: event rejected: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"message": "malformed event"})
			return
		}

		order, err := svc.HandleCompleted(c.Request.Context(), *evt)
		if err != nil {
			if errors.Is(err, ordersvc.ErrStaleEvent) {
				c.JSON(http.StatusOK, gin.H{"received": true, "ignored": "stale event"})
				return
			}
			logger.Printf("webhook: materialization failed ref=%s: %v", evt.TransactionRef, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "materialization failed"})
			return
		}
		if order == nil {
			// Duplicate delivery already materialized.
			c.JSON(http.StatusOK, gin.H{"received": true, "duplicate": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"received": true, "orderId": order.ID})
	}
}
