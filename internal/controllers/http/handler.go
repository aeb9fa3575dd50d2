package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/domain"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	carts    *services.CartManager
	products *services.ProductCatalog
}

func NewHandler(carts *services.CartManager, products *services.ProductCatalog) *Handler {
	return &Handler{carts: carts, products: products}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	cart := r.Group("/cart")
	cart.GET("", h.GetCart)
	cart.POST("/items", h.AddItem)
	cart.PUT("/items/:productId", h.SetItemQuantity)
	cart.DELETE("/items/:productId", h.RemoveItem)
	cart.DELETE("/items", h.ClearCart)
}

func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.carts.GetCurrentCart(c.Request.Context(), sessionFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *Handler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	product, err := h.products.Get(ctx, req.ProductID)
	if err != nil {
		writeError(c, err)
		return
	}

	cart, err := h.carts.UpdateCurrentCart(ctx, sessionFrom(c), func(cart *domain.Order, now time.Time) error {
		return cart.AddItem(product.ID, req.Quantity, product.Price, now)
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *Handler) SetItemQuantity(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.update(c, func(cart *domain.Order, now time.Time) error {
		return cart.SetItemQuantity(productID, *req.Quantity, now)
	})
}

func (h *Handler) RemoveItem(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	h.update(c, func(cart *domain.Order, now time.Time) error {
		return cart.RemoveItem(productID, now)
	})
}

func (h *Handler) ClearCart(c *gin.Context) {
	h.update(c, func(cart *domain.Order, now time.Time) error {
		return cart.Clear(now)
	})
}

func (h *Handler) update(c *gin.Context, mutate func(*domain.Order, time.Time) error) {
	cart, err := h.carts.UpdateCurrentCart(c.Request.Context(), sessionFrom(c), mutate)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func productIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid productId"})
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProductNotFound), errors.Is(err, domain.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrOrderNotMutable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		slog.ErrorContext(c.Request.Context(), "cart request failed", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
