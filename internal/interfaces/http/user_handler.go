package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/libroteca-api/internal/service"
)

// UserHandler maneja el perfil del usuario autenticado.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler construye el handler de usuarios.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Profile godoc
// @Summary      Perfil del usuario autenticado
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  service.Response[entity.User]
// @Failure      404  {object}  ErrorResponse
// @Router       /users/profile [get]
func (h *UserHandler) Profile(c *fiber.Ctx) error {
	out := h.users.FindByID(c.UserContext(), GetUserID(c))
	if !out.Success {
		return c.Status(statusFor(out.Error, fiber.StatusNotFound)).JSON(out)
	}
	return c.JSON(out)
}

// Profiles godoc
// @Summary      Listar perfiles
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        page   query  int  false  "Página (1-based)"      default(1)
// @Param        limit  query  int  false  "Tamaño de página"      default(10)
// @Success      200    {object}  service.Response[[]entity.User]
// @Router       /users/profiles [get]
func (h *UserHandler) Profiles(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	out := h.users.FindAll(c.UserContext(), page, limit)
	if !out.Success {
		return c.Status(statusFor(out.Error, fiber.StatusInternalServerError)).JSON(out)
	}
	return c.JSON(out)
}

// UpdateProfile godoc
// @Summary      Actualizar perfil
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  service.UpdateUserRequest  true  "campos a actualizar"
// @Success      200   {object}  service.Response[bool]
// @Failure      400   {object}  ErrorResponse
// @Router       /users/profile [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var in service.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	if in.FirstName != "" && !validName(in.FirstName) {
		return fail(c, fiber.StatusBadRequest, "firstName debe tener entre 3 y 50 caracteres")
	}
	if in.LastName != "" && !validName(in.LastName) {
		return fail(c, fiber.StatusBadRequest, "lastName debe tener entre 3 y 50 caracteres")
	}
	if in.Email != "" && !validEmail(in.Email) {
		return fail(c, fiber.StatusBadRequest, "email inválido")
	}
	if in.Password != "" && !validPassword(in.Password) {
		return fail(c, fiber.StatusBadRequest, "el password debe tener al menos 6 caracteres con mayúscula, minúscula y dígito")
	}
	out := h.users.UpdateProfile(c.UserContext(), GetUserID(c), in)
	if !out.Success {
		return c.Status(statusFor(out.Error, fiber.StatusBadRequest)).JSON(out)
	}
	return c.JSON(out)
}

// DeleteAccount godoc
// @Summary      Eliminar cuenta
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  service.Response[bool]
// @Failure      400  {object}  ErrorResponse
// @Router       /users/account [delete]
func (h *UserHandler) DeleteAccount(c *fiber.Ctx) error {
	out := h.users.Delete(c.UserContext(), GetUserID(c))
	if !out.Success {
		return c.Status(statusFor(out.Error, fiber.StatusBadRequest)).JSON(out)
	}
	return c.JSON(out)
}
