package model

import (
	"context"
	"strconv"

	"github.com/jhoicas/libroteca-api/internal/domain/entity"
	"github.com/jhoicas/libroteca-api/internal/ledger"
	"github.com/jhoicas/libroteca-api/pkg/logger"
)

// SchemaBooks nombre del schema remoto de libros.
const SchemaBooks = "BookSchema"

func bookDescriptor() Descriptor[entity.Book] {
	return Descriptor[entity.Book]{
		SchemaName: SchemaBooks,
		Schema: ledger.SchemaDef{
			Name: SchemaBooks,
			Fields: []ledger.FieldDef{
				{Name: "title", FieldType: "Text", Required: true},
				{Name: "author", FieldType: "Text", Required: true},
				{Name: "isbn", FieldType: "Text", Required: true, Unique: true},
				{Name: "description", FieldType: "Text", Required: true},
				{Name: "ownerId", FieldType: "Text", Required: true},
				{Name: "averageRating", FieldType: "Float", Required: true},
				{Name: "reviewCount", FieldType: "Int", Required: true},
				{Name: "createdAt", FieldType: "Text", Required: true},
				{Name: "updatedAt", FieldType: "Text", Required: true},
			},
			Indexes: []string{"isbn", "title", "author", "ownerId"},
		},
		Encode: func(b entity.Book) []ledger.Field {
			return []ledger.Field{
				{Key: "title", Value: b.Title},
				{Key: "author", Value: b.Author},
				{Key: "isbn", Value: b.ISBN},
				{Key: "description", Value: b.Description},
				{Key: "ownerId", Value: b.OwnerID},
				{Key: "averageRating", Value: formatFloat(b.AverageRating)},
				{Key: "reviewCount", Value: strconv.Itoa(b.ReviewCount)},
			}
		},
		Decode: func(rec ledger.Record) (entity.Book, error) {
			return entity.Book{
				ID:            rec.ID,
				Title:         getString(rec, "title"),
				Author:        getString(rec, "author"),
				ISBN:          getString(rec, "isbn"),
				Description:   getString(rec, "description"),
				OwnerID:       getString(rec, "ownerId"),
				AverageRating: getFloat(rec, "averageRating"),
				ReviewCount:   getInt(rec, "reviewCount"),
				CreatedAt:     getTime(rec, "createdAt"),
				UpdatedAt:     getTime(rec, "updatedAt"),
			}, nil
		},
	}
}

// BookModel modelo de persistencia para Book.
type BookModel struct {
	*Model[entity.Book]
}

// NewBookModel construye el modelo de libros sobre el cliente del store.
func NewBookModel(client ledger.Client, log *logger.Logger) *BookModel {
	return &BookModel{Model: New(client, bookDescriptor(), log)}
}

// FindByTitle busca libros por título exacto.
func (m *BookModel) FindByTitle(ctx context.Context, title string) ([]entity.Book, error) {
	return m.Search(ctx, "title", title)
}

// FindByAuthor busca libros por autor exacto.
func (m *BookModel) FindByAuthor(ctx context.Context, author string) ([]entity.Book, error) {
	return m.Search(ctx, "author", author)
}

// FindByOwner busca los libros de un dueño.
func (m *BookModel) FindByOwner(ctx context.Context, ownerID string) ([]entity.Book, error) {
	return m.Search(ctx, "ownerId", ownerID)
}

// BookUpdateDiff construye el field-diff de una actualización de libro.
// Solo los campos no vacíos entran al diff.
func BookUpdateDiff(title, author, isbn, description string) *Diff {
	d := NewDiff()
	if title != "" {
		d.Set("title", title)
	}
	if author != "" {
		d.Set("author", author)
	}
	if isbn != "" {
		d.Set("isbn", isbn)
	}
	if description != "" {
		d.Set("description", description)
	}
	return d
}

// BookRatingDiff construye el field-diff de las estadísticas derivadas de
// calificación.
func BookRatingDiff(averageRating float64, reviewCount int) *Diff {
	return NewDiff().
		Set("averageRating", formatFloat(averageRating)).
		Set("reviewCount", strconv.Itoa(reviewCount))
}
