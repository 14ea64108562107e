package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minhngo/birdnest-backend/internal/app/service"
	"github.com/minhngo/birdnest-backend/internal/middleware"
)

type PaymentController struct {
	paymentService service.PaymentService
}

func NewPaymentController(paymentService service.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

// ListPaymentMethods returns the payment methods shown at the payment step.
// Disabled methods are included so the client can render them greyed out.
// GET /api/v1/payments/methods
func (ctrl *PaymentController) ListPaymentMethods(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	methods, err := ctrl.paymentService.ListMethods()
	if err != nil {
		log.Error("Failed to list payment methods", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Không thể tải phương thức thanh toán",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"methods": methods,
	})
}
