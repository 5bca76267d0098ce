// Package memledger es una implementación en memoria de ledger.Client.
// Se usa en tests y como backend de desarrollo local (STORE_BACKEND=memory).
package memledger

import (
	"context"
	"sync"

	"github.com/jhoicas/libroteca-api/internal/ledger"
)

var _ ledger.Client = (*Store)(nil)

// Store guarda registros por schema en memoria, protegido por mutex.
// Conserva el orden de inserción para que la paginación sea determinista.
type Store struct {
	mu      sync.RWMutex
	schemas map[string]ledger.SchemaDef
	records map[string][]ledger.Record // schema -> registros en orden de inserción
	inited  bool
}

// New construye un Store vacío.
func New() *Store {
	return &Store{
		schemas: make(map[string]ledger.SchemaDef),
		records: make(map[string][]ledger.Record),
	}
}

// Init marca el store como inicializado.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inited = true
	return nil
}

// CreateRecord agrega un registro al schema indicado.
func (s *Store) CreateRecord(ctx context.Context, schema string, rec ledger.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.records[schema] {
		if existing.ID == rec.ID {
			return &ledger.RemoteError{Method: "create-record", Message: "record id already exists"}
		}
	}
	s.records[schema] = append(s.records[schema], cloneRecord(rec))
	return nil
}

// GetRecord devuelve el registro con el id dado o ErrRecordNotFound.
func (s *Store) GetRecord(ctx context.Context, schema, id string) ([]ledger.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records[schema] {
		if rec.ID == id {
			return []ledger.Record{cloneRecord(rec)}, nil
		}
	}
	return nil, ledger.ErrRecordNotFound
}

// GetAllRecords devuelve la colección completa del schema (puede ser vacía).
func (s *Store) GetAllRecords(ctx context.Context, schema string) ([]ledger.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.Record, 0, len(s.records[schema]))
	for _, rec := range s.records[schema] {
		out = append(out, cloneRecord(rec))
	}
	return out, nil
}

// UpdateData aplica un field-diff: reemplaza valores existentes y agrega los
// campos nuevos al final, conservando el orden.
func (s *Store) UpdateData(ctx context.Context, schema, id string, fields []ledger.Field) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.records[schema]
	for i, rec := range recs {
		if rec.ID != id {
			continue
		}
		merged := cloneRecord(rec)
		for _, f := range fields {
			replaced := false
			for j, existing := range merged.Fields {
				if existing.Key == f.Key {
					merged.Fields[j].Value = f.Value
					replaced = true
					break
				}
			}
			if !replaced {
				merged.Fields = append(merged.Fields, f)
			}
		}
		recs[i] = merged
		return nil
	}
	return &ledger.RemoteError{Method: "update-data", Message: "record not found"}
}

// DeleteRecord elimina el registro por id.
func (s *Store) DeleteRecord(ctx context.Context, schema, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.records[schema]
	for i, rec := range recs {
		if rec.ID == id {
			s.records[schema] = append(recs[:i:i], recs[i+1:]...)
			return nil
		}
	}
	return &ledger.RemoteError{Method: "delete-record", Message: "record not found"}
}

// SearchByIndex devuelve los registros cuyo campo coincide exactamente con el
// valor. Cero coincidencias no es error.
func (s *Store) SearchByIndex(ctx context.Context, schema, field, value string) ([]ledger.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []ledger.Record
	for _, rec := range s.records[schema] {
		if v, ok := rec.Get(field); ok && v == value {
			out = append(out, cloneRecord(rec))
		}
	}
	return out, nil
}

// ListSchemas devuelve los nombres de schema declarados.
func (s *Store) ListSchemas(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.schemas))
	for name := range s.schemas {
		names = append(names, name)
	}
	return names, nil
}

// CreateSchema declara un schema. Redeclarar el mismo nombre es un error
// lógico del store, igual que en el servicio remoto.
func (s *Store) CreateSchema(ctx context.Context, def ledger.SchemaDef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.schemas[def.Name]; exists {
		return &ledger.RemoteError{Method: "create-schema", Message: "schema already exists"}
	}
	s.schemas[def.Name] = def
	if _, ok := s.records[def.Name]; !ok {
		s.records[def.Name] = nil
	}
	return nil
}

func cloneRecord(rec ledger.Record) ledger.Record {
	out := ledger.Record{ID: rec.ID, Fields: make([]ledger.Field, len(rec.Fields))}
	copy(out.Fields, rec.Fields)
	return out
}
