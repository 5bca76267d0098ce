package model

import "github.com/jhoicas/libroteca-api/internal/ledger"

// Diff acumula un field-diff parcial para una actualización: pares
// (campo, valor nuevo) en orden de inserción. Set sobre un campo ya presente
// reemplaza su valor en lugar de duplicar la clave.
type Diff struct {
	fields []ledger.Field
}

// NewDiff construye un diff vacío.
func NewDiff() *Diff {
	return &Diff{}
}

// Set agrega o reemplaza un campo del diff. Devuelve el mismo diff para
// encadenar.
func (d *Diff) Set(key, value string) *Diff {
	for i, f := range d.fields {
		if f.Key == key {
			d.fields[i].Value = value
			return d
		}
	}
	d.fields = append(d.fields, ledger.Field{Key: key, Value: value})
	return d
}

// Len devuelve la cantidad de campos acumulados.
func (d *Diff) Len() int {
	return len(d.fields)
}

// Fields devuelve el diff en el formato de cable del store.
func (d *Diff) Fields() []ledger.Field {
	return d.fields
}
