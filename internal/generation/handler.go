package generation

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/pet-shop-storefront/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

// RegisterRoutes mounts the personalized image endpoints. They accept
// anonymous callers, so they go behind the optional-auth middleware.
func (h *Handler) RegisterRoutes(r fiber.Router) {
	r.Get("/products/:id<int>/personalized-image", h.getStatus)
	r.Post("/products/:id<int>/generate-personalized-image", h.trigger)
}

func (h *Handler) getStatus(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	st, err := h.service.Status(callerID(c), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(st)
}

func (h *Handler) trigger(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	res, err := h.service.Trigger(callerID(c), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(res)
}

func callerID(c *fiber.Ctx) int {
	id, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return 0
	}
	return id
}

func errorResponse(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrProductNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Product not found"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": err.Error()})
}
