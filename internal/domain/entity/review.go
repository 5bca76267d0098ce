package entity

import "time"

// Review representa una reseña de un libro. Rating debe estar en [1,5];
// la creación se rechaza fuera de ese rango.
type Review struct {
	ID        string    `json:"id"`
	BookID    string    `json:"bookId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"` // opcional
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
