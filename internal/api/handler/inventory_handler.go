package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/sweetshop-api/internal/api/metrics"
	"github.com/sweetshop/sweetshop-api/internal/core/domain"
	"github.com/sweetshop/sweetshop-api/internal/core/ports"
)

type InventoryHandler struct {
	inventory ports.InventoryService
	metrics   *metrics.Metrics
}

func NewInventoryHandler(inventory ports.InventoryService, m *metrics.Metrics) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, metrics: m}
}

// Purchase buys units of a sweet for the authenticated user.
//
// @Summary      Purchase a sweet
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      purchaseRequest  true  "Sweet and quantity"
// @Success      201   {object}  purchaseResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /api/inventory/purchase [post]
func (h *InventoryHandler) Purchase(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req purchaseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	receipt, err := h.inventory.Purchase(c.Request().Context(), user, req.SweetID, req.Quantity)
	if err != nil {
		h.metrics.PurchasesTotal.WithLabelValues(purchaseResult(err)).Inc()
		return err
	}
	h.metrics.ObservePurchase(receipt.Purchase.Quantity, receipt.Purchase.TotalPrice)

	return c.JSON(http.StatusCreated, toPurchaseResponse(receipt))
}

// Restock adds units to a sweet.
//
// @Summary      Restock a sweet
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        sweet_id  path      string  true  "Sweet ID"
// @Param        quantity  query     int     true  "Units to add"
// @Success      200       {object}  restockResponse
// @Failure      400       {object}  ErrorResponse
// @Failure      403       {object}  ErrorResponse
// @Failure      404       {object}  ErrorResponse
// @Failure      422       {object}  ErrorResponse
// @Router       /api/inventory/restock/{sweet_id} [post]
func (h *InventoryHandler) Restock(c echo.Context) error {
	var quantity int
	if err := echo.QueryParamsBinder(c).MustInt("quantity", &quantity).BindError(); err != nil {
		return queryError(err, "is required and must be an integer")
	}

	result, err := h.inventory.Restock(c.Request().Context(), c.Param("sweet_id"), quantity)
	if err != nil {
		return err
	}
	h.metrics.UnitsRestockedTotal.Add(float64(result.Added))

	return c.JSON(http.StatusOK, restockResponse{
		Message:       fmt.Sprintf("Sweet '%s' restocked successfully", result.SweetName),
		OldQuantity:   result.OldQuantity,
		NewQuantity:   result.NewQuantity,
		AddedQuantity: result.Added,
	})
}

// MyPurchases lists the authenticated user's purchase history, oldest first.
//
// @Summary      My purchases
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   purchaseResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /api/inventory/purchases/my [get]
func (h *InventoryHandler) MyPurchases(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	receipts, err := h.inventory.ListPurchases(c.Request().Context(), user)
	if err != nil {
		return err
	}

	out := make([]purchaseResponse, 0, len(receipts))
	for i := range receipts {
		out = append(out, toPurchaseResponse(&receipts[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func purchaseResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return metrics.ResultInsufficient
	case errors.Is(err, domain.ErrSweetUnavailable):
		return metrics.ResultUnavailable
	case errors.Is(err, domain.ErrSweetNotFound):
		return metrics.ResultNotFound
	default:
		return metrics.ResultError
	}
}
