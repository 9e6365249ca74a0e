package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"homefix/internal/membership"
	"homefix/pkg/database"
	"homefix/pkg/logger"
	"homefix/pkg/payment"
	"homefix/prometheus"

	"github.com/labstack/echo/v4"
	promclient "github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var paymentClient *payment.Client

// SetPaymentClient wires the billing processor client used by the
// webhook and admin price endpoints.
func SetPaymentClient(client *payment.Client) {
	paymentClient = client
}

// BillingWebhook consumes completed-checkout events from the payment
// processor. The signature is verified over the raw body before
// anything is decoded; consumption is idempotent, so redeliveries are
// harmless.
func BillingWebhook(c echo.Context) error {
	log := logger.FromContext(c)

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ev, err := paymentClient.ParseEvent(body, c.Request().Header.Get("X-Webhook-Signature"))
	if err != nil {
		log.Error("Webhook signature verification failed", zap.Error(err))
		prometheus.BillingEventCounter.With(promclient.Labels{"type": "unknown", "result": "bad_signature"}).Inc()
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Krivi potpis"})
	}

	if ev.Type != payment.EventCheckoutCompleted {
		log.Info("Ignoring billing event", zap.String("type", ev.Type))
		prometheus.BillingEventCounter.With(promclient.Labels{"type": ev.Type, "result": "ignored"}).Inc()
		return c.JSON(http.StatusOK, echo.Map{"received": true})
	}

	meta := ev.Data.Object.Metadata
	userID, err := strconv.ParseUint(meta.UserID, 10, 32)
	if err != nil || meta.ContractorData == "" {
		log.Error("Billing event missing metadata", zap.String("user_id", meta.UserID))
		prometheus.BillingEventCounter.With(promclient.Labels{"type": ev.Type, "result": "bad_metadata"}).Inc()
		return c.JSON(http.StatusOK, echo.Map{"received": true})
	}

	var contractorData membership.ContractorData
	if err := json.Unmarshal([]byte(meta.ContractorData), &contractorData); err != nil {
		log.Error("Invalid contractor data in billing event", zap.Error(err))
		prometheus.BillingEventCounter.With(promclient.Labels{"type": ev.Type, "result": "bad_metadata"}).Inc()
		return c.JSON(http.StatusOK, echo.Map{"received": true})
	}

	err = membership.NewService(database.GetDB()).ApplyPaymentEvent(membership.PaymentEvent{
		UserID:     uint(userID),
		Amount:     ev.Data.Object.AmountTotal,
		Currency:   ev.Data.Object.Currency,
		Contractor: contractorData,
	})
	if err != nil {
		log.Error("Failed to apply billing event", zap.Error(err))
		prometheus.BillingEventCounter.With(promclient.Labels{"type": ev.Type, "result": "error"}).Inc()
		// Non-2xx so the processor retries the delivery.
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to apply event"})
	}

	log.Info("Billing event applied", zap.Uint64("user_id", userID))
	prometheus.BillingEventCounter.With(promclient.Labels{"type": ev.Type, "result": "applied"}).Inc()
	return c.JSON(http.StatusOK, echo.Map{"received": true})
}
