package entity

import "time"

// Book representa un libro del catálogo. OwnerID referencia a User.ID
// (invariante de aplicación, el store no la impone). AverageRating y
// ReviewCount son derivados: se actualizan incrementalmente con cada reseña
// aceptada, nunca se recalculan desde cero.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	ISBN          string    `json:"isbn"`
	Description   string    `json:"description"`
	OwnerID       string    `json:"ownerId"`
	AverageRating float64   `json:"averageRating"`
	ReviewCount   int       `json:"reviewCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
