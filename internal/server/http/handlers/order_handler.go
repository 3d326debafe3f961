package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/coffeebeans/shop/internal/domain/errors"
	"github.com/coffeebeans/shop/internal/domain/model"
	"github.com/coffeebeans/shop/internal/server/http/dto"
	"github.com/coffeebeans/shop/internal/usecase"
)

// OrderHandler manages checkout and order query endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Checkout handles POST /api/orders/checkout. Authentication is optional:
// a valid token attaches the order to the account for loyalty accrual.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingError(err))
		return
	}

	in := usecase.CheckoutInput{
		CustomerName:    req.Customer.Name,
		CustomerEmail:   req.Customer.Email,
		ShippingAddress: req.Shipping.Address1,
		Items:           make([]usecase.CartInput, 0, len(req.Items)),
	}
	if userID := CurrentUserID(c); userID != 0 {
		in.UserID = &userID
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, usecase.CartInput{
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: string(item.UnitPrice),
		})
	}

	result, err := h.facade.Checkout(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart has no valid items"})
		case errors.Is(err, domainErrors.ErrMissingContact):
			c.JSON(http.StatusBadRequest, gin.H{"error": "customer email is required"})
		case errors.Is(err, domainErrors.ErrProviderUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{"error": "payment provider unavailable"})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.CheckoutResponse{
		OrderNumber:  result.Order.Number,
		OrderID:      result.Order.ID,
		PreferenceID: result.PreferenceID,
		Total:        usecase.FromMinorUnits(result.Order.TotalCents).InexactFloat64(),
	})
}

// My handles GET /api/orders/my.
func (h *OrderHandler) My(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// ByID handles GET /api/orders/id/:orderId.
func (h *OrderHandler) ByID(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	details, err := h.facade.OrderByID(c.Request.Context(), CurrentUserID(c), orderID)
	h.writeDetails(c, details, err)
}

// ByNumber handles GET /api/orders/by-number/:orderNumber.
func (h *OrderHandler) ByNumber(c *gin.Context) {
	number := strings.TrimSpace(c.Param("orderNumber"))
	if number == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	details, err := h.facade.OrderByNumber(c.Request.Context(), CurrentUserID(c), number)
	h.writeDetails(c, details, err)
}

func (h *OrderHandler) writeDetails(c *gin.Context, details *usecase.OrderDetails, err error) {
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	items := make([]dto.OrderItemResponse, 0, len(details.Items))
	for _, item := range details.Items {
		items = append(items, dto.OrderItemResponse{
			ID:        item.ID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: usecase.FromMinorUnits(item.UnitPriceCents).InexactFloat64(),
			Subtotal:  usecase.FromMinorUnits(item.SubtotalCents).InexactFloat64(),
		})
	}

	order := details.Order
	c.JSON(http.StatusOK, dto.OrderDetailsResponse{
		ID:          order.ID,
		OrderNumber: order.Number,
		Status:      string(order.Status),
		Total:       usecase.FromMinorUnits(order.TotalCents).InexactFloat64(),
		CreatedAt:   order.CreatedAt,
		Items:       items,
	})
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:          order.ID,
		OrderNumber: order.Number,
		Status:      string(order.Status),
		Total:       usecase.FromMinorUnits(order.TotalCents).InexactFloat64(),
		CreatedAt:   order.CreatedAt,
	}
}
