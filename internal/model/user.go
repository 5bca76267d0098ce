package model

import (
	"context"

	"github.com/jhoicas/libroteca-api/internal/domain/entity"
	"github.com/jhoicas/libroteca-api/internal/ledger"
	"github.com/jhoicas/libroteca-api/pkg/logger"
)

// SchemaUsers nombre del schema remoto de usuarios.
const SchemaUsers = "UserSchema"

// userDescriptor mapeo estático User <-> registro. Los nombres de campo se
// declaran aquí una sola vez para todo el repositorio.
func userDescriptor() Descriptor[entity.User] {
	return Descriptor[entity.User]{
		SchemaName: SchemaUsers,
		Schema: ledger.SchemaDef{
			Name: SchemaUsers,
			Fields: []ledger.FieldDef{
				{Name: "firstName", FieldType: "Text", Required: true},
				{Name: "lastName", FieldType: "Text", Required: true},
				{Name: "email", FieldType: "Text", Required: true, Unique: true},
				{Name: "password", FieldType: "Text", Required: true},
				{Name: "role", FieldType: "Text", Required: true},
				{Name: "createdAt", FieldType: "Text", Required: true},
				{Name: "updatedAt", FieldType: "Text", Required: true},
			},
			Indexes: []string{"email"},
		},
		Encode: func(u entity.User) []ledger.Field {
			return []ledger.Field{
				{Key: "firstName", Value: u.FirstName},
				{Key: "lastName", Value: u.LastName},
				{Key: "email", Value: u.Email},
				{Key: "password", Value: u.Password},
				{Key: "role", Value: u.Role},
			}
		},
		Decode: func(rec ledger.Record) (entity.User, error) {
			return entity.User{
				ID:        rec.ID,
				FirstName: getString(rec, "firstName"),
				LastName:  getString(rec, "lastName"),
				Email:     getString(rec, "email"),
				Password:  getString(rec, "password"),
				Role:      getString(rec, "role"),
				CreatedAt: getTime(rec, "createdAt"),
				UpdatedAt: getTime(rec, "updatedAt"),
			}, nil
		},
	}
}

// UserModel modelo de persistencia para User.
type UserModel struct {
	*Model[entity.User]
}

// NewUserModel construye el modelo de usuarios sobre el cliente del store.
func NewUserModel(client ledger.Client, log *logger.Logger) *UserModel {
	return &UserModel{Model: New(client, userDescriptor(), log)}
}

// FindByEmail busca usuarios por email exacto (campo indexado).
func (m *UserModel) FindByEmail(ctx context.Context, email string) ([]entity.User, error) {
	return m.Search(ctx, "email", email)
}

// UserProfileDiff construye el field-diff de una actualización de perfil.
// Solo los campos no vacíos entran al diff.
func UserProfileDiff(firstName, lastName, email, passwordHash string) *Diff {
	d := NewDiff()
	if firstName != "" {
		d.Set("firstName", firstName)
	}
	if lastName != "" {
		d.Set("lastName", lastName)
	}
	if email != "" {
		d.Set("email", email)
	}
	if passwordHash != "" {
		d.Set("password", passwordHash)
	}
	return d
}
