// Package model adapta entidades tipadas al formato de registro sin tipos
// del record store. Un Model genérico por tipo de entidad, parametrizado con
// un Descriptor estático (nombre de schema, definición remota y codec de
// campos declarado una sola vez), compuesto en vez de heredado.
package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/libroteca-api/internal/domain"
	"github.com/jhoicas/libroteca-api/internal/ledger"
	"github.com/jhoicas/libroteca-api/pkg/logger"
)

// Descriptor describe cómo un tipo de entidad se mapea al store: nombre de
// schema, declaración remota completa y las funciones de codec. Encode emite
// solo los campos de dominio (sin id ni timestamps, que inyecta el Model);
// Decode reconstruye la entidad desde el registro completo.
type Descriptor[T any] struct {
	SchemaName string
	Schema     ledger.SchemaDef
	Encode     func(T) []ledger.Field
	Decode     func(ledger.Record) (T, error)
}

// Model ejecuta las operaciones genéricas de persistencia para un tipo de
// entidad. Toda lectura y escritura viaja al store externo: no hay caché en
// proceso.
type Model[T any] struct {
	client ledger.Client
	desc   Descriptor[T]
	log    *logger.Logger
}

// New construye un Model sobre el cliente del store.
func New[T any](client ledger.Client, desc Descriptor[T], log *logger.Logger) *Model[T] {
	return &Model[T]{client: client, desc: desc, log: log}
}

// SchemaName devuelve el nombre del schema remoto de este modelo.
func (m *Model[T]) SchemaName() string { return m.desc.SchemaName }

// EnsureSchema declara el schema remoto de forma idempotente: primero lista
// los schemas existentes y, si el nuestro ya está, no toca nada. Seguro de
// llamar en cada arranque del proceso.
func (m *Model[T]) EnsureSchema(ctx context.Context) error {
	names, err := m.client.ListSchemas(ctx)
	if err != nil {
		m.log.Error().Err(err).Str("schema", m.desc.SchemaName).Msg("listar schemas")
		return fmt.Errorf("listar schemas: %w", err)
	}
	for _, name := range names {
		if name == m.desc.SchemaName {
			m.log.Debug().Str("schema", m.desc.SchemaName).Msg("schema ya existe, se omite la creación")
			return nil
		}
	}
	if err := m.client.CreateSchema(ctx, m.desc.Schema); err != nil {
		// Otra instancia pudo ganarnos la declaración entre el List y el Create.
		var rerr *ledger.RemoteError
		if errors.As(err, &rerr) {
			m.log.Warn().Str("schema", m.desc.SchemaName).Str("detalle", rerr.Message).Msg("create-schema rechazado, se asume existente")
			return nil
		}
		m.log.Error().Err(err).Str("schema", m.desc.SchemaName).Msg("declarar schema")
		return fmt.Errorf("declarar schema %s: %w", m.desc.SchemaName, err)
	}
	m.log.Info().Str("schema", m.desc.SchemaName).Msg("schema declarado")
	return nil
}

// Create asigna un id nuevo, aplana la entidad con createdAt/updatedAt
// inyectados y la envía al store. Rechaza payloads vacíos.
func (m *Model[T]) Create(ctx context.Context, v T) (string, error) {
	fields := m.desc.Encode(v)
	if len(fields) == 0 {
		return "", domain.ErrEmptyPayload
	}
	now := time.Now().UTC().Format(time.RFC3339)
	rec := ledger.Record{
		ID: uuid.New().String(),
		Fields: append(fields,
			ledger.Field{Key: "createdAt", Value: now},
			ledger.Field{Key: "updatedAt", Value: now},
		),
	}
	m.log.Debug().Str("schema", m.desc.SchemaName).Str("id", rec.ID).Msg("creando registro")
	if err := m.client.CreateRecord(ctx, m.desc.SchemaName, rec); err != nil {
		m.log.Error().Err(err).Str("schema", m.desc.SchemaName).Msg("crear registro")
		return "", fmt.Errorf("creación de registro fallida: %w", err)
	}
	return rec.ID, nil
}

// FindByID obtiene un registro por id. Devuelve (nil, nil) cuando el registro
// legítimamente no existe; un error no-nil es fallo de transporte o del store.
func (m *Model[T]) FindByID(ctx context.Context, id string) (*T, error) {
	recs, err := m.client.GetRecord(ctx, m.desc.SchemaName, id)
	if err != nil {
		if errors.Is(err, ledger.ErrRecordNotFound) {
			return nil, nil
		}
		m.log.Error().Err(err).Str("schema", m.desc.SchemaName).Str("id", id).Msg("buscar registro por id")
		return nil, fmt.Errorf("recuperación de registro fallida: %w", err)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	v, err := m.desc.Decode(recs[0])
	if err != nil {
		m.log.Error().Err(err).Str("schema", m.desc.SchemaName).Str("id", id).Msg("decodificar registro")
		return nil, fmt.Errorf("registro corrupto: %w", err)
	}
	return &v, nil
}

// FindAll trae la colección completa del store (que no pagina) y corta la
// página del lado del cliente. page es 1-based: la página 1 cubre [0, pageSize).
func (m *Model[T]) FindAll(ctx context.Context, page, pageSize int) ([]T, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	recs, err := m.client.GetAllRecords(ctx, m.desc.SchemaName)
	if err != nil {
		m.log.Error().Err(err).Str("schema", m.desc.SchemaName).Msg("listar registros")
		return nil, fmt.Errorf("recuperación de registros fallida: %w", err)
	}

	start := (page - 1) * pageSize
	if start >= len(recs) {
		return []T{}, nil
	}
	end := start + pageSize
	if end > len(recs) {
		end = len(recs)
	}
	return m.decodeAll(recs[start:end])
}

// Update verifica que el registro exista (lectura antes de escritura), añade
// un updatedAt fresco al diff y envía el field-diff al store. Un diff vacío
// sigue refrescando updatedAt sin tocar otros campos.
func (m *Model[T]) Update(ctx context.Context, id string, diff *Diff) error {
	recs, err := m.client.GetRecord(ctx, m.desc.SchemaName, id)
	if err != nil {
		if errors.Is(err, ledger.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		m.log.Error().Err(err).Str("schema", m.desc.SchemaName).Str("id", id).Msg("verificar registro antes de actualizar")
		return fmt.Errorf("actualización de registro fallida: %w", err)
	}
	if len(recs) == 0 {
		return domain.ErrNotFound
	}

	if diff == nil {
		diff = NewDiff()
	}
	diff.Set("updatedAt", time.Now().UTC().Format(time.RFC3339))
	if err := m.client.UpdateData(ctx, m.desc.SchemaName, id, diff.Fields()); err != nil {
		m.log.Error().Err(err).Str("schema", m.desc.SchemaName).Str("id", id).Msg("actualizar registro")
		return fmt.Errorf("actualización de registro fallida: %w", err)
	}
	return nil
}

// Delete envía la eliminación por id y devuelve el resultado del store tal cual.
func (m *Model[T]) Delete(ctx context.Context, id string) error {
	if err := m.client.DeleteRecord(ctx, m.desc.SchemaName, id); err != nil {
		m.log.Error().Err(err).Str("schema", m.desc.SchemaName).Str("id", id).Msg("eliminar registro")
		return fmt.Errorf("eliminación de registro fallida: %w", err)
	}
	return nil
}

// Search busca por igualdad exacta sobre un campo indexado. Cero resultados
// no es error en esta capa.
func (m *Model[T]) Search(ctx context.Context, field, value string) ([]T, error) {
	recs, err := m.client.SearchByIndex(ctx, m.desc.SchemaName, field, value)
	if err != nil {
		m.log.Error().Err(err).Str("schema", m.desc.SchemaName).Str("field", field).Msg("buscar registros")
		return nil, fmt.Errorf("búsqueda fallida: %w", err)
	}
	return m.decodeAll(recs)
}

func (m *Model[T]) decodeAll(recs []ledger.Record) ([]T, error) {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		v, err := m.desc.Decode(rec)
		if err != nil {
			m.log.Error().Err(err).Str("schema", m.desc.SchemaName).Str("id", rec.ID).Msg("decodificar registro")
			return nil, fmt.Errorf("registro corrupto: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}
