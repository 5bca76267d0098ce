package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/libroteca-api/internal/service"
)

// AuthHandler maneja registro, login y logout.
type AuthHandler struct {
	users *service.UserService
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  service.RegisterRequest  true  "firstName, lastName, email, password"
// @Success      201   {object}  service.Response[service.TokenResponse]
// @Failure      400   {object}  ErrorResponse
// @Router       /auth/users/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in service.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	if !validName(in.FirstName) || !validName(in.LastName) {
		return fail(c, fiber.StatusBadRequest, "firstName y lastName deben tener entre 3 y 50 caracteres")
	}
	if !validEmail(in.Email) {
		return fail(c, fiber.StatusBadRequest, "email inválido")
	}
	if !validPassword(in.Password) {
		return fail(c, fiber.StatusBadRequest, "el password debe tener al menos 6 caracteres con mayúscula, minúscula y dígito")
	}
	out := h.users.Register(c.UserContext(), in)
	if !out.Success {
		return c.Status(statusFor(out.Error, fiber.StatusBadRequest)).JSON(out)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  service.LoginRequest  true  "email, password"
// @Success      200   {object}  service.Response[service.TokenResponse]
// @Failure      401   {object}  ErrorResponse
// @Router       /auth/users/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in service.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	if in.Email == "" || in.Password == "" {
		return fail(c, fiber.StatusBadRequest, "email y password son requeridos")
	}
	out := h.users.Login(c.UserContext(), in)
	if !out.Success {
		return c.Status(statusFor(out.Error, fiber.StatusUnauthorized)).JSON(out)
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  service.Response[bool]
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/users/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(h.users.Logout())
}
