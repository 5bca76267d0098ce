// Package ledger define el contrato con el record store remoto: un almacén
// de registros sin tipos donde cada entidad se aplana a una lista ordenada de
// pares (campo, valor string) bajo un schema declarado por nombre.
package ledger

import (
	"context"
	"errors"
	"fmt"
)

// ErrRecordNotFound señala que el registro pedido no existe en el store.
// Es distinto de un fallo de transporte o de un error lógico del store.
var ErrRecordNotFound = errors.New("registro no encontrado en el store")

// Field es un par (campo, valor) del formato de cable. Todos los valores
// viajan como string; la capa de modelo convierte a tipos concretos.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Record es la representación aplanada de una entidad: id + lista ordenada
// de campos.
type Record struct {
	ID     string  `json:"id"`
	Fields []Field `json:"fields"`
}

// Get devuelve el valor de un campo y si estaba presente.
func (r Record) Get(key string) (string, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// FieldDef describe un campo dentro de una declaración de schema.
type FieldDef struct {
	Name      string `json:"name"`
	FieldType string `json:"fieldType"` // Text, Int, Float
	Required  bool   `json:"required"`
	Unique    bool   `json:"unique"`
}

// SchemaDef es la declaración remota de un schema: nombre, campos y campos
// indexados (consultables vía SearchByIndex).
type SchemaDef struct {
	Name    string     `json:"name"`
	Fields  []FieldDef `json:"fields"`
	Indexes []string   `json:"indexes"`
}

// RemoteError envuelve un resultado etiquetado como error por el store
// (fallo lógico, ej. "schema already exists"). Cualquier otro error devuelto
// por un Client es de transporte.
type RemoteError struct {
	Method  string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("store respondió err en %s: %s", e.Method, e.Message)
}

// Client es la capacidad RPC opaca hacia el record store. Implementaciones:
// httpledger (remoto), pgledger (PostgreSQL) y memledger (en memoria).
type Client interface {
	Init(ctx context.Context) error
	CreateRecord(ctx context.Context, schema string, rec Record) error
	GetRecord(ctx context.Context, schema, id string) ([]Record, error)
	GetAllRecords(ctx context.Context, schema string) ([]Record, error)
	UpdateData(ctx context.Context, schema, id string, fields []Field) error
	DeleteRecord(ctx context.Context, schema, id string) error
	SearchByIndex(ctx context.Context, schema, field, value string) ([]Record, error)
	ListSchemas(ctx context.Context) ([]string, error)
	CreateSchema(ctx context.Context, def SchemaDef) error
}
