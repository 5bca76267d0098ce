package service

// RegisterRequest entrada para registro (el password viaja en claro y se
// hashea en el servicio, nunca se persiste tal cual).
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse salida de registro y login: solo el token de sesión, nunca
// el password ni su hash.
type TokenResponse struct {
	Token string `json:"token"`
}

// UpdateUserRequest campos opcionales de actualización de perfil.
type UpdateUserRequest struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Password  string `json:"password,omitempty"`
}

// CreateBookRequest entrada para crear un libro. El ownerId no viene en el
// cuerpo: se toma de la identidad autenticada.
type CreateBookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	ISBN        string `json:"isbn"`
	Description string `json:"description"`
}

// UpdateBookRequest campos opcionales de actualización de libro.
type UpdateBookRequest struct {
	Title       string `json:"title,omitempty"`
	Author      string `json:"author,omitempty"`
	ISBN        string `json:"isbn,omitempty"`
	Description string `json:"description,omitempty"`
}

// CreateReviewRequest entrada para reseñar un libro. El userId se toma de la
// identidad autenticada y el bookId de la ruta.
type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}
