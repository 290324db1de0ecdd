package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopfront/storefront-api/internal/core/ports"
)

// OrderHandler handles HTTP requests for order operations.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Checkout handles POST /api/v1/auth/orders.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        body  body      checkoutRequest  true  "Cart and payment outcome"
// @Success      201   {object}  orderResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/v1/auth/orders [post]
func (h *OrderHandler) Checkout(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	order, err := h.service.Checkout(c.Request().Context(), toCheckoutInput(req, user.ID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

// ListMine handles GET /api/v1/auth/orders.
//
// @Summary      List the caller's orders, newest first
// @Tags         orders
// @Produce      json
// @Security     TokenAuth
// @Success      200  {array}   orderResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/auth/orders [get]
func (h *OrderHandler) ListMine(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	orders, err := h.service.ListForBuyer(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderListResponse(orders))
}

// ListAll handles GET /api/v1/auth/all-orders.
//
// @Summary      List every order, newest first
// @Tags         orders
// @Produce      json
// @Security     TokenAuth
// @Success      200  {array}   orderResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/auth/all-orders [get]
func (h *OrderHandler) ListAll(c echo.Context) error {
	orders, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderListResponse(orders))
}

// Get handles GET /api/v1/auth/orders/:orderId.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     TokenAuth
// @Param        orderId  path      string  true  "Order id"
// @Success      200      {object}  orderResponse
// @Failure      401      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      500      {object}  errorResponse
// @Router       /api/v1/auth/orders/{orderId} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	order, err := h.service.Get(c.Request().Context(), ports.GetOrderInput{
		OrderID: c.Param("orderId"),
		Viewer:  user,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// UpdateStatus handles PUT /api/v1/auth/order-status/:orderId.
//
// @Summary      Change an order's status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        orderId  path      string               true  "Order id"
// @Param        body     body      updateStatusRequest  true  "One of: Not Process, Processing, Shipped, deliverd, cancel"
// @Success      200      {object}  orderResponse
// @Failure      400      {object}  errorResponse
// @Failure      401      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      500      {object}  errorResponse
// @Router       /api/v1/auth/order-status/{orderId} [put]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	order, err := h.service.UpdateStatus(c.Request().Context(), ports.UpdateOrderStatusInput{
		OrderID: c.Param("orderId"),
		Status:  req.Status,
		ActorID: user.ID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}
