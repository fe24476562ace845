package catalog

import (
	"github.com/gofiber/fiber/v2"
)

// Handler serves the merged catalog to the storefront.
type Handler struct {
	products []Product
}

func NewHandler(products []Product) *Handler {
	return &Handler{products: products}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/products", h.listProducts)
}

func (h *Handler) listProducts(c *fiber.Ctx) error {
	return c.JSON(h.products)
}
