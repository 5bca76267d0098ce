// Package identity propaga la identidad del llamador autenticado a través de
// context.Context, con alcance por petición. Nunca se usa estado mutable
// compartido entre peticiones: dos requests concurrentes llevan cada una su
// propio contexto.
package identity

import (
	"context"
	"errors"
)

// ErrNoIdentity se retorna cuando ningún middleware estableció la identidad.
var ErrNoIdentity = errors.New("ningún usuario autenticado en el contexto")

type ctxKey struct{}

// WithUserID devuelve un contexto derivado con el ID del usuario autenticado.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserID extrae el ID del usuario autenticado del contexto.
// Falla con ErrNoIdentity si no se estableció identidad.
func UserID(ctx context.Context) (string, error) {
	v, ok := ctx.Value(ctxKey{}).(string)
	if !ok || v == "" {
		return "", ErrNoIdentity
	}
	return v, nil
}
