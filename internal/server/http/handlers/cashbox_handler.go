package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domainErrors "github.com/coffeebeans/shop/internal/domain/errors"
	"github.com/coffeebeans/shop/internal/server/http/dto"
)

// CashboxHandler serves the admin cash ledger endpoints.
type CashboxHandler struct {
	facade CashboxFacade
}

// NewCashboxHandler constructs CashboxHandler.
func NewCashboxHandler(facade CashboxFacade) *CashboxHandler {
	return &CashboxHandler{facade: facade}
}

// Balance handles GET /api/admin/cashbox/balance.
func (h *CashboxHandler) Balance(c *gin.Context) {
	balance, err := h.facade.CashBalance(c.Request.Context())
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, dto.CashBalanceResponse{Balance: balance.StringFixed(2)})
}

// Movements handles GET /api/admin/cashbox/movements.
func (h *CashboxHandler) Movements(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	movements, err := h.facade.CashMovements(c.Request.Context(), limit)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.CashMovementResponse, 0, len(movements))
	for _, m := range movements {
		response = append(response, dto.CashMovementResponse{
			ID:        m.ID,
			Direction: string(m.Direction),
			Concept:   m.Concept,
			Amount:    m.Amount.StringFixed(2),
			CreatedAt: m.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, response)
}

// Credit handles POST /api/admin/cashbox/credit.
func (h *CashboxHandler) Credit(c *gin.Context) {
	h.record(c, h.facade.CashCredit)
}

// Debit handles POST /api/admin/cashbox/debit.
func (h *CashboxHandler) Debit(c *gin.Context) {
	h.record(c, h.facade.CashDebit)
}

func (h *CashboxHandler) record(c *gin.Context, op func(ctx context.Context, concept string, amount decimal.Decimal) error) {
	var req dto.CashMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingError(err))
		return
	}

	err := op(c.Request.Context(), req.Concept, decimal.NewFromFloat(req.Amount))
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusCreated)
}
