package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/libroteca-api/internal/service"
)

// BookHandler maneja el catálogo de libros (protegido).
type BookHandler struct {
	books *service.BookService
}

// NewBookHandler construye el handler de libros.
func NewBookHandler(books *service.BookService) *BookHandler {
	return &BookHandler{books: books}
}

// Create godoc
// @Summary      Crear libro
// @Tags         books
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  service.CreateBookRequest  true  "title, author, isbn, description"
// @Success      201   {object}  service.Response[entity.Book]
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /books [post]
func (h *BookHandler) Create(c *fiber.Ctx) error {
	if GetUserID(c) == "" {
		return fail(c, fiber.StatusUnauthorized, "usuario no autenticado")
	}
	var in service.CreateBookRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	if in.Title == "" || in.Author == "" || in.Description == "" {
		return fail(c, fiber.StatusBadRequest, "title, author y description son requeridos")
	}
	if !validISBN(in.ISBN) {
		return fail(c, fiber.StatusBadRequest, "el isbn debe tener 10 o 13 dígitos")
	}
	out := h.books.CreateBook(c.UserContext(), in)
	if !out.Success {
		return c.Status(statusFor(out.Error, fiber.StatusBadRequest)).JSON(out)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar libros
// @Tags         books
// @Security     Bearer
// @Produce      json
// @Param        page   query  int  false  "Página (1-based)"  default(1)
// @Param        limit  query  int  false  "Tamaño de página"  default(10)
// @Success      200    {object}  service.Response[[]entity.Book]
// @Router       /books [get]
func (h *BookHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	out := h.books.FindAll(c.UserContext(), page, limit)
	if !out.Success {
		return c.Status(statusFor(out.Error, fiber.StatusInternalServerError)).JSON(out)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar libros por título exacto
// @Tags         books
// @Security     Bearer
// @Produce      json
// @Param        title  query  string  true  "Título"
// @Success      200    {object}  service.Response[[]entity.Book]
// @Failure      404    {object}  ErrorResponse
// @Router       /books/search [get]
func (h *BookHandler) Search(c *fiber.Ctx) error {
	title := c.Query("title")
	if title == "" {
		return fail(c, fiber.StatusBadRequest, "title es requerido")
	}
	out := h.books.FindByTitle(c.UserContext(), title)
	if !out.Success {
		return c.Status(statusFor(out.Error, fiber.StatusNotFound)).JSON(out)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener libro por ID
// @Tags         books
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del libro"
// @Success      200  {object}  service.Response[entity.Book]
// @Failure      404  {object}  ErrorResponse
// @Router       /books/{id} [get]
func (h *BookHandler) GetByID(c *fiber.Ctx) error {
	out := h.books.FindByID(c.UserContext(), c.Params("id"))
	if !out.Success {
		return c.Status(statusFor(out.Error, fiber.StatusNotFound)).JSON(out)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar libro
// @Tags         books
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del libro"
// @Param        body  body  service.UpdateBookRequest  true  "campos a actualizar"
// @Success      200   {object}  service.Response[bool]
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /books/{id} [put]
func (h *BookHandler) Update(c *fiber.Ctx) error {
	var in service.UpdateBookRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	if in.ISBN != "" && !validISBN(in.ISBN) {
		return fail(c, fiber.StatusBadRequest, "el isbn debe tener 10 o 13 dígitos")
	}
	out := h.books.UpdateBook(c.UserContext(), c.Params("id"), in)
	if !out.Success {
		return c.Status(statusFor(out.Error, fiber.StatusBadRequest)).JSON(out)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar libro
// @Tags         books
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del libro"
// @Success      200  {object}  service.Response[bool]
// @Failure      400  {object}  ErrorResponse
// @Router       /books/{id} [delete]
func (h *BookHandler) Delete(c *fiber.Ctx) error {
	out := h.books.Delete(c.UserContext(), c.Params("id"))
	if !out.Success {
		return c.Status(statusFor(out.Error, fiber.StatusBadRequest)).JSON(out)
	}
	return c.JSON(out)
}
