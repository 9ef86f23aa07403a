// Package payments owns the order lifecycle: catalog-priced order creation
// against the external gateway, HMAC callback verification, and the
// transactional entitlement commit.
package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/VishnuPrakashVP/wedding-app/apperrors"
	"github.com/VishnuPrakashVP/wedding-app/db"
	"github.com/VishnuPrakashVP/wedding-app/models"
	"github.com/VishnuPrakashVP/wedding-app/services/entitlements"
	"github.com/VishnuPrakashVP/wedding-app/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pipeline wires the gateway and the callback-signing secret. DedupWindow
// bounds how long an idempotency key deduplicates createOrder retries.
type Pipeline struct {
	Gateway     Gateway
	Secret      string
	DedupWindow time.Duration
}

func New(gateway Gateway, secret string, dedupWindow time.Duration) *Pipeline {
	if dedupWindow <= 0 {
		dedupWindow = 24 * time.Hour
	}
	return &Pipeline{Gateway: gateway, Secret: secret, DedupWindow: dedupWindow}
}

// CreateOrder prices the order from the plan catalog (never from the
// client), obtains a gateway order id, and persists the local row. If the
// gateway call fails, nothing is persisted. A previously created order with
// the same (user, plan, idempotency key) inside the dedup window is returned
// as-is instead of creating a duplicate.
func (p *Pipeline) CreateOrder(ctx context.Context, userID, planName, idempotencyKey string) (models.Order, error) {
	var plan models.Plan
	if err := db.DB.Where("name = ?", planName).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, apperrors.Validationf("invalid plan type %q", planName)
		}
		return models.Order{}, fmt.Errorf("loading plan: %w", err)
	}
	if plan.Price <= 0 {
		return models.Order{}, apperrors.Validationf("plan %q is not purchasable", planName)
	}

	if idempotencyKey != "" {
		var existing models.Order
		err := db.DB.Where(
			"user_id = ? AND plan_id = ? AND idempotency_key = ? AND status <> ? AND created_at >= ?",
			userID, plan.ID, idempotencyKey, models.OrderFailed, time.Now().Add(-p.DedupWindow),
		).First(&existing).Error
		if err == nil {
			utils.LogSuccessWithUser(userID, "Order "+existing.ID+" returned for replayed idempotency key")
			return existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, fmt.Errorf("checking idempotency key: %w", err)
		}
	}

	receipt := "order_" + uuid.NewString()[:8]
	gatewayOrderID, err := p.Gateway.CreateOrder(ctx, plan.Price, plan.Currency, receipt)
	if err != nil {
		return models.Order{}, err
	}

	order := models.Order{
		UserID:         userID,
		PlanID:         plan.ID,
		Amount:         plan.Price,
		Currency:       plan.Currency,
		GatewayOrderID: gatewayOrderID,
		IdempotencyKey: idempotencyKey,
		Status:         models.OrderCreated,
	}
	if err := db.DB.Create(&order).Error; err != nil {
		return models.Order{}, fmt.Errorf("persisting order: %w", err)
	}

	utils.LogSuccessWithUser(userID, "Order "+order.ID+" created for plan "+planName)
	return order, nil
}

// VerifyAndCommit checks the gateway callback signature and, on the first
// valid verification, marks the order verified and grants the entitlement in
// one transaction. A replayed callback fails the guarded update and returns
// ErrInvalidState without touching the entitlement. A bad signature marks
// the order failed and is never retried: it is treated as tampering, not as
// a transient fault.
func (p *Pipeline) VerifyAndCommit(paymentID, gatewayOrderID, signature string) (models.Entitlement, error) {
	var order models.Order
	if err := db.DB.Where("gateway_order_id = ?", gatewayOrderID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Entitlement{}, fmt.Errorf("order %s: %w", gatewayOrderID, apperrors.ErrNotFound)
		}
		return models.Entitlement{}, fmt.Errorf("loading order: %w", err)
	}

	if !p.verifySignature(gatewayOrderID, paymentID, signature) {
		// Guarded: only a CREATED order moves to FAILED, a terminal order is
		// left untouched.
		res := db.DB.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, models.OrderCreated).
			Update("status", models.OrderFailed)
		if res.Error != nil {
			// The order is still CREATED, so a later valid callback could
			// verify it. That must reach the operator trail, not vanish
			// behind the signature error.
			utils.LogSecurityEvent(order.UserID, "Order "+order.ID+" could not be marked failed after signature mismatch: "+res.Error.Error())
			return models.Entitlement{}, fmt.Errorf("payment callback for order %s (marking failed: %v): %w", order.ID, res.Error, apperrors.ErrSignatureMismatch)
		}
		return models.Entitlement{}, fmt.Errorf("payment callback for order %s: %w", order.ID, apperrors.ErrSignatureMismatch)
	}

	var ent models.Entitlement
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, models.OrderCreated).
			Updates(map[string]interface{}{
				"status":     models.OrderVerified,
				"payment_id": paymentID,
			})
		if res.Error != nil {
			return fmt.Errorf("verifying order: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order %s is already terminal: %w", order.ID, apperrors.ErrInvalidState)
		}

		var err error
		ent, err = entitlements.GrantTx(tx, order.UserID, order.PlanID, order.ID)
		return err
	})
	if err != nil {
		return models.Entitlement{}, err
	}

	utils.LogSuccessWithUser(order.UserID, "Order "+order.ID+" verified, entitlement granted")
	return ent, nil
}

// PaymentDetails reads the provider's record of a payment.
func (p *Pipeline) PaymentDetails(ctx context.Context, paymentID string) (Payment, error) {
	return p.Gateway.FetchPayment(ctx, paymentID)
}

// verifySignature recomputes HMAC-SHA256 over "orderId|paymentId" with the
// shared secret and compares it in constant time.
func (p *Pipeline) verifySignature(gatewayOrderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(p.Secret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// SignCallback produces the signature a well-behaved gateway would send.
// Used by tests and by local development tooling.
func (p *Pipeline) SignCallback(gatewayOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(p.Secret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
