package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/libroteca-api/internal/service"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Users     *service.UserService
	Books     *service.BookService
	Reviews   *service.ReviewService
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	authHandler := NewAuthHandler(deps.Users)
	userHandler := NewUserHandler(deps.Users)
	bookHandler := NewBookHandler(deps.Books)
	reviewHandler := NewReviewHandler(deps.Reviews)

	// Auth (público)
	authGroup := app.Group("/auth/users")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", AuthMiddleware(deps.JWTSecret), authHandler.Logout)

	// Rutas protegidas (requieren Bearer Token)
	protected := app.Group("/", AuthMiddleware(deps.JWTSecret))

	// Users (protegido)
	users := protected.Group("/users")
	users.Get("/profile", userHandler.Profile)
	users.Put("/profile", userHandler.UpdateProfile)
	users.Get("/profiles", userHandler.Profiles)
	users.Delete("/account", userHandler.DeleteAccount)

	// Books (protegido)
	books := protected.Group("/books")
	books.Get("/", bookHandler.List)
	books.Get("/search", bookHandler.Search)
	books.Post("/", bookHandler.Create)
	books.Get("/:id", bookHandler.GetByID)
	books.Put("/:id", bookHandler.Update)
	books.Delete("/:id", bookHandler.Delete)

	// Reviews anidadas bajo un libro (protegido)
	books.Post("/:id/reviews", reviewHandler.Create)
	books.Get("/:id/reviews", reviewHandler.ListByBook)
}
