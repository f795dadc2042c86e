package product

import (
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
	onReset func(ids []int)
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// OnReset registers fn to receive the ids of every product that existed
// before or after a catalogue reset.
func (h *Handler) OnReset(fn func(ids []int)) {
	h.onReset = fn
}

func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	r.Get("/products", h.getProducts)
	r.Get("/products/men", h.getGenderProducts(GenderMen))
	r.Get("/products/women", h.getGenderProducts(GenderWomen))
	r.Get("/products/categories/list", h.getCategories)
	r.Get("/products/sku/:sku", h.getProductBySKU)
	r.Get("/products/:id<int>", h.getProduct)

	// dev-only endpoint to reset products, enabled when ALLOW_RESET_PRODUCTS=1
	r.Post("/dev/reset-products", h.resetProducts)
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	products := h.service.List(Filter{
		Gender:   c.Query("gender"),
		Category: c.Query("category"),
	})
	return c.JSON(products)
}

func (h *Handler) getGenderProducts(gender string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(h.service.List(Filter{Gender: gender}))
	}
}

func (h *Handler) getCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": h.service.Categories()})
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": err.Error()})
	}

	p, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Product not found"})
	}
	return c.JSON(p)
}

func (h *Handler) getProductBySKU(c *fiber.Ctx) error {
	p, err := h.service.GetBySKU(c.Params("sku"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Product not found"})
	}
	return c.JSON(p)
}

// resetProducts replaces the catalogue with the posted list, or with the
// default sample catalogue when the body is not a product list.
// Set ALLOW_RESET_PRODUCTS=1 to enable it.
func (h *Handler) resetProducts(c *fiber.Ctx) error {
	if os.Getenv("ALLOW_RESET_PRODUCTS") != "1" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"detail": "reset not allowed"})
	}

	var products []Product
	if err := c.BodyParser(&products); err != nil {
		products = DefaultCatalog()
	}
	if ves := validateProducts(products); len(ves) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ves})
	}

	before := h.service.List(Filter{})

	// an empty list clears the catalogue
	if err := h.service.ResetProducts(products); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": err.Error()})
	}
	if h.onReset != nil {
		h.onReset(productIDs(before, h.service.List(Filter{})))
	}
	return c.JSON(products)
}

func validateProducts(products []Product) map[string]string {
	errs := map[string]string{}
	skus := map[string]bool{}
	for i, p := range products {
		key := "products[" + strconv.Itoa(i) + "]"
		switch {
		case p.SKU == "":
			errs[key] = "sku is required"
		case skus[p.SKU]:
			errs[key] = "duplicate sku " + p.SKU
		case p.Name == "":
			errs[key] = "name is required"
		case p.Gender != GenderMen && p.Gender != GenderWomen:
			errs[key] = "gender must be men or women"
		}
		skus[p.SKU] = true
	}
	return errs
}

func productIDs(lists ...[]Product) []int {
	seen := map[int]bool{}
	var ids []int
	for _, list := range lists {
		for _, p := range list {
			if !seen[p.ID] {
				seen[p.ID] = true
				ids = append(ids, p.ID)
			}
		}
	}
	return ids
}
