package order

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Handler delegates order operations to the order service.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/orders/", h.createOrder)
	app.Get("/api/orders/:id<[0-9]+>", h.getOrder)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Patch("/api/orders/:id<[0-9]+>/payment-status", h.updatePaymentStatus)
	app.Patch("/api/orders/:id<[0-9]+>/process", h.markInProcess)
	app.Patch("/api/orders/:id<[0-9]+>/ship", h.markShipped)
	app.Patch("/api/orders/:id<[0-9]+>/out-for-delivery", h.markOutForDelivery)
	app.Patch("/api/orders/:id<[0-9]+>/deliver", h.markDelivered)
}

type createOrderRequest struct {
	Name           string  `json:"name"`
	WhatsAppNumber string  `json:"whatsapp_number"`
	ProductName    string  `json:"product_name"`
	Amount         float64 `json:"amount"`
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	payload := new(createOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": err.Error()})
	}
	if payload.Name == "" || payload.WhatsAppNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "name and whatsapp_number are required"})
	}

	created, err := h.service.Create(payload.Name, payload.WhatsAppNumber, payload.ProductName, payload.Amount)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to create order: " + err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	id, err := orderID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "invalid order id"})
	}

	summary, err := h.service.Get(id)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(summary)
}

func (h *Handler) updatePaymentStatus(c *fiber.Ctx) error {
	id, err := orderID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "invalid order id"})
	}
	paid := c.QueryBool("paid")

	if err := h.service.SetPayment(id, paid); err != nil {
		return orderError(c, err)
	}
	if paid {
		return c.JSON(fiber.Map{"message": "Payment marked as paid", "order_id": id})
	}
	return c.JSON(fiber.Map{"message": "Payment marked as failed", "order_id": id})
}

func (h *Handler) markInProcess(c *fiber.Ctx) error {
	return h.transition(c, h.service.MarkInProcess, "Order marked as in process")
}

func (h *Handler) markShipped(c *fiber.Ctx) error {
	id, err := orderID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "invalid order id"})
	}

	if err := h.service.Ship(id, c.Query("tracking_id"), c.Query("carrier")); err != nil {
		return orderError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order marked as shipped", "order_id": id})
}

func (h *Handler) markOutForDelivery(c *fiber.Ctx) error {
	return h.transition(c, h.service.MarkOutForDelivery, "Order marked as out for delivery")
}

func (h *Handler) markDelivered(c *fiber.Ctx) error {
	return h.transition(c, h.service.Deliver, "Order marked as delivered")
}

func (h *Handler) transition(c *fiber.Ctx, apply func(int) error, message string) error {
	id, err := orderID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "invalid order id"})
	}
	if err := apply(id); err != nil {
		return orderError(c, err)
	}
	return c.JSON(fiber.Map{"message": message, "order_id": id})
}

func orderID(c *fiber.Ctx) (int, error) {
	return strconv.Atoi(c.Params("id"))
}

func orderError(c *fiber.Ctx, err error) error {
	switch err {
	case ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Order not found"})
	case ErrAlreadyCancelled:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": err.Error()})
	}
}
