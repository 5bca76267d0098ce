// Package pgledger implementa el contrato ledger.Client sobre PostgreSQL:
// los schemas se registran en ledger_schemas y cada registro se guarda con su
// field-list serializada como jsonb. Permite operar sin el ledger remoto
// manteniendo exactamente la misma semántica de cara al modelo.
package pgledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/libroteca-api/internal/ledger"
)

var _ ledger.Client = (*Store)(nil)

// Store adapta PostgreSQL al contrato del record store.
type Store struct {
	pool *pgxpool.Pool
}

// New construye el adaptador sobre un pool existente.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Init crea las tablas del ledger si no existen. Equivale al init del store
// remoto: seguro de llamar en cada arranque.
func (s *Store) Init(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS ledger_schemas (
			name       text PRIMARY KEY,
			definition jsonb NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS ledger_records (
			schema_name text NOT NULL REFERENCES ledger_schemas(name),
			id          text NOT NULL,
			fields      jsonb NOT NULL,
			inserted_at timestamptz NOT NULL DEFAULT now(),
			PRIMARY KEY (schema_name, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_records_fields
			ON ledger_records USING gin (fields jsonb_path_ops)`,
	}
	for _, stmt := range ddl {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init ledger: %w", err)
		}
	}
	return nil
}

// CreateRecord inserta un registro. Un id duplicado se reporta como error
// lógico del store, no como fallo de transporte.
func (s *Store) CreateRecord(ctx context.Context, schema string, rec ledger.Record) error {
	fields, err := json.Marshal(rec.Fields)
	if err != nil {
		return fmt.Errorf("serializar fields: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO ledger_records (schema_name, id, fields) VALUES ($1, $2, $3)`,
		schema, rec.ID, fields,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &ledger.RemoteError{Method: "create-record", Message: "record id already exists"}
		}
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// GetRecord obtiene un registro por id; ErrRecordNotFound si no existe.
func (s *Store) GetRecord(ctx context.Context, schema, id string) ([]ledger.Record, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT fields FROM ledger_records WHERE schema_name = $1 AND id = $2`,
		schema, id,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrRecordNotFound
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	rec, err := decodeRecord(id, raw)
	if err != nil {
		return nil, err
	}
	return []ledger.Record{rec}, nil
}

// GetAllRecords devuelve la colección completa en orden de inserción.
func (s *Store) GetAllRecords(ctx context.Context, schema string) ([]ledger.Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, fields FROM ledger_records WHERE schema_name = $1 ORDER BY inserted_at, id`,
		schema,
	)
	if err != nil {
		return nil, fmt.Errorf("get all records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// UpdateData fusiona el field-diff con los campos actuales del registro.
// La lectura y la escritura van en la misma transacción.
func (s *Store) UpdateData(ctx context.Context, schema, id string, fields []ledger.Field) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback(ctx)

	var raw []byte
	err = tx.QueryRow(ctx,
		`SELECT fields FROM ledger_records WHERE schema_name = $1 AND id = $2 FOR UPDATE`,
		schema, id,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &ledger.RemoteError{Method: "update-data", Message: "record not found"}
		}
		return fmt.Errorf("read record for update: %w", err)
	}

	rec, err := decodeRecord(id, raw)
	if err != nil {
		return err
	}
	for _, f := range fields {
		replaced := false
		for i, existing := range rec.Fields {
			if existing.Key == f.Key {
				rec.Fields[i].Value = f.Value
				replaced = true
				break
			}
		}
		if !replaced {
			rec.Fields = append(rec.Fields, f)
		}
	}

	merged, err := json.Marshal(rec.Fields)
	if err != nil {
		return fmt.Errorf("serializar fields: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE ledger_records SET fields = $3 WHERE schema_name = $1 AND id = $2`,
		schema, id, merged,
	); err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return tx.Commit(ctx)
}

// DeleteRecord elimina un registro por id.
func (s *Store) DeleteRecord(ctx context.Context, schema, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM ledger_records WHERE schema_name = $1 AND id = $2`,
		schema, id,
	)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &ledger.RemoteError{Method: "delete-record", Message: "record not found"}
	}
	return nil
}

// SearchByIndex busca por igualdad exacta usando containment jsonb sobre el
// índice GIN de fields.
func (s *Store) SearchByIndex(ctx context.Context, schema, field, value string) ([]ledger.Record, error) {
	needle, err := json.Marshal([]ledger.Field{{Key: field, Value: value}})
	if err != nil {
		return nil, fmt.Errorf("serializar criterio: %w", err)
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, fields FROM ledger_records
		 WHERE schema_name = $1 AND fields @> $2 ORDER BY inserted_at, id`,
		schema, needle,
	)
	if err != nil {
		return nil, fmt.Errorf("search records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ListSchemas devuelve los nombres ya declarados.
func (s *Store) ListSchemas(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT name FROM ledger_schemas ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list schemas: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan schema: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// CreateSchema registra la definición. Redeclarar es error lógico, igual que
// en el store remoto.
func (s *Store) CreateSchema(ctx context.Context, def ledger.SchemaDef) error {
	raw, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("serializar schema: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO ledger_schemas (name, definition) VALUES ($1, $2)`,
		def.Name, raw,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &ledger.RemoteError{Method: "create-schema", Message: "schema already exists"}
		}
		return fmt.Errorf("insert schema: %w", err)
	}
	return nil
}

func decodeRecord(id string, raw []byte) (ledger.Record, error) {
	var fields []ledger.Field
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ledger.Record{}, fmt.Errorf("fields corruptos en registro %s: %w", id, err)
	}
	return ledger.Record{ID: id, Fields: fields}, nil
}

func scanRecords(rows pgx.Rows) ([]ledger.Record, error) {
	var out []ledger.Record
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec, err := decodeRecord(id, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
