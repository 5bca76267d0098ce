package service

import (
	"context"
	"fmt"

	"github.com/jhoicas/libroteca-api/internal/domain/entity"
	"github.com/jhoicas/libroteca-api/internal/identity"
	"github.com/jhoicas/libroteca-api/internal/model"
	"github.com/jhoicas/libroteca-api/pkg/logger"
)

// BookService catálogo de libros y estadísticas de calificación derivadas.
type BookService struct {
	*Service[entity.Book]
	books   *model.BookModel
	ratings *KeyLock // serializa el read-modify-write de estadísticas por bookId
	log     *logger.Logger
}

// NewBookService construye el servicio de libros.
func NewBookService(books *model.BookModel, log *logger.Logger) *BookService {
	withID := func(b entity.Book, id string) entity.Book { b.ID = id; return b }
	return &BookService{
		Service: NewService(books.Model, withID, log),
		books:   books,
		ratings: NewKeyLock(),
		log:     log,
	}
}

// CreateBook crea un libro con el llamador autenticado como dueño (tomado del
// contexto de identidad, no del cuerpo) y estadísticas derivadas en cero.
func (s *BookService) CreateBook(ctx context.Context, in CreateBookRequest) Response[entity.Book] {
	ownerID, err := identity.UserID(ctx)
	if err != nil {
		return Fail[entity.Book](err.Error())
	}
	book := entity.Book{
		Title:         in.Title,
		Author:        in.Author,
		ISBN:          in.ISBN,
		Description:   in.Description,
		OwnerID:       ownerID,
		AverageRating: 0,
		ReviewCount:   0,
	}
	return s.Create(ctx, book)
}

// UpdateBook aplica una actualización parcial de los campos editables.
func (s *BookService) UpdateBook(ctx context.Context, id string, in UpdateBookRequest) Response[bool] {
	diff := model.BookUpdateDiff(in.Title, in.Author, in.ISBN, in.Description)
	return s.Update(ctx, id, diff)
}

// FindByTitle busca por título exacto. Cero resultados es un envelope de
// error en esta capa (convención uniforme para búsquedas indexadas).
func (s *BookService) FindByTitle(ctx context.Context, title string) Response[[]entity.Book] {
	return s.searchWrap(s.books.FindByTitle(ctx, title))
}

// FindByOwner busca los libros de un dueño. Misma convención que FindByTitle.
func (s *BookService) FindByOwner(ctx context.Context, ownerID string) Response[[]entity.Book] {
	return s.searchWrap(s.books.FindByOwner(ctx, ownerID))
}

func (s *BookService) searchWrap(books []entity.Book, err error) Response[[]entity.Book] {
	if err != nil {
		s.log.Error().Err(err).Msg("búsqueda de libros")
		return Fail[[]entity.Book](fmt.Sprintf("%s: la búsqueda falló", MsgServiceErr))
	}
	if len(books) == 0 {
		return Fail[[]entity.Book](MsgNoResults)
	}
	return OK(books, "libros encontrados")
}

// UpdateRating incorpora una calificación nueva a las estadísticas derivadas
// con la media móvil incremental:
//
//	newAvg = (oldAvg*oldCount + rating) / (oldCount + 1)
//	newCount = oldCount + 1
//
// Debe invocarse exactamente una vez por reseña aceptada; reejecutarla cuenta
// la reseña dos veces. El read-modify-write va serializado por bookId.
func (s *BookService) UpdateRating(ctx context.Context, bookID string, rating int) Response[bool] {
	s.ratings.Lock(bookID)
	defer s.ratings.Unlock(bookID)

	book, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		s.log.Error().Err(err).Str("bookId", bookID).Msg("leer libro para estadísticas")
		return Fail[bool](fmt.Sprintf("%s: la actualización de estadísticas falló", MsgServiceErr))
	}
	if book == nil {
		return Fail[bool](MsgNotFound)
	}

	newCount := book.ReviewCount + 1
	newAvg := (book.AverageRating*float64(book.ReviewCount) + float64(rating)) / float64(newCount)

	return s.Update(ctx, bookID, model.BookRatingDiff(newAvg, newCount))
}
