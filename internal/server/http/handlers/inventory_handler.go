package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/coffeebeans/shop/internal/domain/errors"
	"github.com/coffeebeans/shop/internal/server/http/dto"
)

// InventoryHandler serves the admin stock adjustment endpoint.
type InventoryHandler struct {
	facade InventoryFacade
}

// NewInventoryHandler constructs InventoryHandler.
func NewInventoryHandler(facade InventoryFacade) *InventoryHandler {
	return &InventoryHandler{facade: facade}
}

// Adjust handles PUT /api/admin/inventory/:productId.
func (h *InventoryHandler) Adjust(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.InventoryAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingError(err))
		return
	}
	if req.Stock == nil && req.MinStock == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stock or min_stock is required"})
		return
	}

	view, err := h.facade.AdjustInventory(c.Request.Context(), productID, req.Stock, req.MinStock, req.Mode == "inc")
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, dto.InventoryResponse{
		ProductID:  view.Product.ID,
		Name:       view.Product.Name,
		PriceCents: view.Product.PriceCents,
		Stock:      view.Record.Stock,
		MinStock:   view.Record.MinStock,
	})
}
