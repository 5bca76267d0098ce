package http

import (
	"strings"

	"github.com/jhoicas/libroteca-api/internal/service"
)

// statusFor mapea el error de un envelope a un código HTTP: fallos de
// transporte/store a 500, "no encontrado" a 404 y el resto al fallback de la
// operación (típicamente 400). El detalle de los errores 500 ya quedó en el
// log del servicio; al cliente solo le llega el mensaje genérico.
func statusFor(errMsg string, fallback int) int {
	if strings.HasPrefix(errMsg, service.MsgServiceErr) {
		return 500
	}
	if errMsg == service.MsgNotFound || errMsg == service.MsgNoResults {
		return 404
	}
	return fallback
}
