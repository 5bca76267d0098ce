package model

import (
	"context"
	"strconv"

	"github.com/jhoicas/libroteca-api/internal/domain/entity"
	"github.com/jhoicas/libroteca-api/internal/ledger"
	"github.com/jhoicas/libroteca-api/pkg/logger"
)

// SchemaReviews nombre del schema remoto de reseñas.
const SchemaReviews = "ReviewSchema"

func reviewDescriptor() Descriptor[entity.Review] {
	return Descriptor[entity.Review]{
		SchemaName: SchemaReviews,
		Schema: ledger.SchemaDef{
			Name: SchemaReviews,
			Fields: []ledger.FieldDef{
				{Name: "bookId", FieldType: "Text", Required: true},
				{Name: "userId", FieldType: "Text", Required: true},
				{Name: "rating", FieldType: "Int", Required: true},
				{Name: "comment", FieldType: "Text", Required: false},
				{Name: "createdAt", FieldType: "Text", Required: true},
				{Name: "updatedAt", FieldType: "Text", Required: true},
			},
			Indexes: []string{"bookId", "userId"},
		},
		Encode: func(r entity.Review) []ledger.Field {
			return []ledger.Field{
				{Key: "bookId", Value: r.BookID},
				{Key: "userId", Value: r.UserID},
				{Key: "rating", Value: strconv.Itoa(r.Rating)},
				{Key: "comment", Value: r.Comment},
			}
		},
		Decode: func(rec ledger.Record) (entity.Review, error) {
			return entity.Review{
				ID:        rec.ID,
				BookID:    getString(rec, "bookId"),
				UserID:    getString(rec, "userId"),
				Rating:    getInt(rec, "rating"),
				Comment:   getString(rec, "comment"),
				CreatedAt: getTime(rec, "createdAt"),
				UpdatedAt: getTime(rec, "updatedAt"),
			}, nil
		},
	}
}

// ReviewModel modelo de persistencia para Review.
type ReviewModel struct {
	*Model[entity.Review]
}

// NewReviewModel construye el modelo de reseñas sobre el cliente del store.
func NewReviewModel(client ledger.Client, log *logger.Logger) *ReviewModel {
	return &ReviewModel{Model: New(client, reviewDescriptor(), log)}
}

// FindByBookID busca las reseñas de un libro.
func (m *ReviewModel) FindByBookID(ctx context.Context, bookID string) ([]entity.Review, error) {
	return m.Search(ctx, "bookId", bookID)
}

// FindByUserID busca las reseñas de un usuario.
func (m *ReviewModel) FindByUserID(ctx context.Context, userID string) ([]entity.Review, error) {
	return m.Search(ctx, "userId", userID)
}
