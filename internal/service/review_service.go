package service

import (
	"context"
	"fmt"

	"github.com/jhoicas/libroteca-api/internal/domain"
	"github.com/jhoicas/libroteca-api/internal/domain/entity"
	"github.com/jhoicas/libroteca-api/internal/identity"
	"github.com/jhoicas/libroteca-api/internal/model"
	"github.com/jhoicas/libroteca-api/pkg/logger"
)

// ReviewService reseñas de libros. La creación de una reseña dispara la
// actualización de estadísticas del libro como segunda llamada separada, sin
// transacción entre ambas.
type ReviewService struct {
	*Service[entity.Review]
	reviews *model.ReviewModel
	books   *BookService
	log     *logger.Logger
}

// NewReviewService construye el servicio de reseñas.
func NewReviewService(reviews *model.ReviewModel, books *BookService, log *logger.Logger) *ReviewService {
	withID := func(r entity.Review, id string) entity.Review { r.ID = id; return r }
	return &ReviewService{
		Service: NewService(reviews.Model, withID, log),
		reviews: reviews,
		books:   books,
		log:     log,
	}
}

// CreateReview valida el rango de la calificación antes de escribir nada; una
// calificación fuera de [1,5] se rechaza sin ningún efecto secundario sobre
// las estadísticas del libro. Si la reseña se persiste pero la actualización
// de estadísticas posterior falla, el estado queda inconsistente (reseña
// grabada, estadísticas viejas): se reporta, no se enmascara.
func (s *ReviewService) CreateReview(ctx context.Context, bookID string, in CreateReviewRequest) Response[entity.Review] {
	if in.Rating < 1 || in.Rating > 5 {
		return Fail[entity.Review](domain.ErrInvalidRating.Error())
	}
	userID, err := identity.UserID(ctx)
	if err != nil {
		return Fail[entity.Review](err.Error())
	}

	// El libro debe existir antes de aceptar la reseña.
	book := s.books.FindByID(ctx, bookID)
	if !book.Success {
		return Fail[entity.Review](book.Error)
	}

	review := entity.Review{
		BookID:  bookID,
		UserID:  userID,
		Rating:  in.Rating,
		Comment: in.Comment,
	}
	created := s.Create(ctx, review)
	if !created.Success {
		return created
	}

	if stats := s.books.UpdateRating(ctx, bookID, in.Rating); !stats.Success {
		s.log.Error().Str("bookId", bookID).Str("reviewId", created.Data.ID).
			Str("detalle", stats.Error).
			Msg("reseña grabada pero las estadísticas del libro no se actualizaron")
		return Fail[entity.Review](fmt.Sprintf("reseña grabada pero las estadísticas del libro no se actualizaron: %s", stats.Error))
	}
	return OK(*created.Data, "reseña creada correctamente")
}

// FindByBookID busca las reseñas de un libro. Cero resultados es un envelope
// de error (convención uniforme para búsquedas indexadas).
func (s *ReviewService) FindByBookID(ctx context.Context, bookID string) Response[[]entity.Review] {
	reviews, err := s.reviews.FindByBookID(ctx, bookID)
	if err != nil {
		s.log.Error().Err(err).Str("bookId", bookID).Msg("búsqueda de reseñas")
		return Fail[[]entity.Review](fmt.Sprintf("%s: la búsqueda falló", MsgServiceErr))
	}
	if len(reviews) == 0 {
		return Fail[[]entity.Review](MsgNoResults)
	}
	return OK(reviews, "reseñas encontradas")
}
