package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/libroteca-api/internal/service"
)

// ReviewHandler maneja las reseñas anidadas bajo un libro.
type ReviewHandler struct {
	reviews *service.ReviewService
}

// NewReviewHandler construye el handler de reseñas.
func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// Create godoc
// @Summary      Crear reseña para un libro
// @Tags         reviews
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del libro"
// @Param        body  body  service.CreateReviewRequest  true  "rating (1-5), comment"
// @Success      201   {object}  service.Response[entity.Review]
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /books/{id}/reviews [post]
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	if GetUserID(c) == "" {
		return fail(c, fiber.StatusUnauthorized, "usuario no autenticado")
	}
	var in service.CreateReviewRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	out := h.reviews.CreateReview(c.UserContext(), c.Params("id"), in)
	if !out.Success {
		return c.Status(statusFor(out.Error, fiber.StatusBadRequest)).JSON(out)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListByBook godoc
// @Summary      Listar reseñas de un libro
// @Tags         reviews
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del libro"
// @Success      200  {object}  service.Response[[]entity.Review]
// @Failure      404  {object}  ErrorResponse
// @Router       /books/{id}/reviews [get]
func (h *ReviewHandler) ListByBook(c *fiber.Ctx) error {
	out := h.reviews.FindByBookID(c.UserContext(), c.Params("id"))
	if !out.Success {
		return c.Status(statusFor(out.Error, fiber.StatusNotFound)).JSON(out)
	}
	return c.JSON(out)
}
