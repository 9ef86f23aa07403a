package payments

import (
	"net/http"

	"github.com/VishnuPrakashVP/wedding-app/middleware"
	"github.com/VishnuPrakashVP/wedding-app/models"
	paymentsvc "github.com/VishnuPrakashVP/wedding-app/services/payments"
	"github.com/VishnuPrakashVP/wedding-app/utils"

	"github.com/gin-gonic/gin"
)

// Pipeline is wired at startup.
var Pipeline *paymentsvc.Pipeline

// @Summary Create a payment order
// @Description Start a plan purchase; the amount comes from the plan catalog, never from the client
// @Tags payments
// @Accept json
// @Produce json
// @Param order body models.OrderCreate true "Plan and idempotency key"
// @Security BearerAuth
// @Success 201 {object} models.Order
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse "Gateway unavailable, retry with the same idempotency key"
// @Router /payments/create-order [post]
func CreateOrder(c *gin.Context) {
	userID := middleware.RequesterID(c)

	var input models.OrderCreate
	if !utils.ValidateRequestBody(c, &input) {
		return
	}

	order, err := Pipeline.CreateOrder(c.Request.Context(), userID, input.PlanType, input.IdempotencyKey)
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error creating order in CreateOrder")
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":              order.ID,
		"order_id":        order.GatewayOrderID,
		"amount":          order.Amount,
		"currency":        order.Currency,
		"plan_type":       input.PlanType,
		"amount_major":    float64(order.Amount) / 100,
		"status":          order.Status,
		"idempotency_key": order.IdempotencyKey,
	})
}

// @Summary Verify a payment callback
// @Description Verify the gateway signature and commit the entitlement upgrade; replays are rejected
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body models.PaymentVerify true "Gateway callback fields"
// @Security BearerAuth
// @Success 200 {object} models.Entitlement
// @Failure 400 {object} utils.ErrorResponse "Signature mismatch"
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse "Order already terminal"
// @Router /payments/verify-payment [post]
func VerifyPayment(c *gin.Context) {
	userID := middleware.RequesterID(c)

	var input models.PaymentVerify
	if !utils.ValidateRequestBody(c, &input) {
		return
	}

	ent, err := Pipeline.VerifyAndCommit(input.PaymentID, input.OrderID, input.Signature)
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Payment verification failed in VerifyPayment")
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Payment verified successfully",
		"entitlement": ent,
	})
}

// @Summary Get payment details
// @Description Read the gateway's record of a payment
// @Tags payments
// @Produce json
// @Param id path string true "Gateway payment ID"
// @Security BearerAuth
// @Success 200 {object} paymentsvc.Payment
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse "Gateway unavailable"
// @Router /payments/payment/{id} [get]
func GetPayment(c *gin.Context) {
	userID := middleware.RequesterID(c)

	payment, err := Pipeline.PaymentDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error fetching payment in GetPayment")
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}
