package http

import (
	"regexp"
	"unicode"
)

// Validación de campos de entrada en el estilo manual de los handlers.
var (
	emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	isbnRx  = regexp.MustCompile(`^(\d{10}|\d{13})$`)
)

func validEmail(s string) bool {
	return emailRx.MatchString(s)
}

// validISBN acepta ISBN de 10 o 13 dígitos.
func validISBN(s string) bool {
	return isbnRx.MatchString(s)
}

// validName nombres y apellidos entre 3 y 50 caracteres.
func validName(s string) bool {
	return len(s) >= 3 && len(s) <= 50
}

// validPassword al menos 6 caracteres con una mayúscula, una minúscula y un
// dígito.
func validPassword(s string) bool {
	if len(s) < 6 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}
