package service

// Response es el envelope uniforme que devuelve todo método de servicio:
// bandera de éxito, payload opcional, error opcional y mensaje humano
// opcional. Ningún error cruza la frontera del servicio fuera de este tipo.
type Response[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK construye un envelope de éxito con payload y mensaje opcional.
func OK[T any](data T, message ...string) Response[T] {
	r := Response[T]{Success: true, Data: &data}
	if len(message) > 0 {
		r.Message = message[0]
	}
	return r
}

// Fail construye un envelope de error.
func Fail[T any](errMsg string) Response[T] {
	return Response[T]{Success: false, Error: errMsg}
}

// Mensajes de error compartidos por los servicios. Los handlers comparan
// contra estas constantes para mapear a códigos HTTP.
const (
	MsgNotFound   = "registro no encontrado"
	MsgNoResults  = "no se encontraron registros"
	MsgServiceErr = "error del servicio"
)

// NotFound indica si el envelope es un error de "no encontrado" (distinto de
// un fallo de transporte o del store).
func (r Response[T]) NotFound() bool {
	return !r.Success && (r.Error == MsgNotFound || r.Error == MsgNoResults)
}
