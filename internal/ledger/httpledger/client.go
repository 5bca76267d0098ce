// Package httpledger implementa ledger.Client contra el record store remoto
// vía JSON sobre HTTP. Cada operación es un POST a /v1/<método> cuyo cuerpo
// lleva los argumentos y cuya respuesta es un resultado etiquetado
// {"ok": ...} o {"err": "..."}.
package httpledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/libroteca-api/internal/ledger"
	"github.com/jhoicas/libroteca-api/pkg/config"
	"github.com/jhoicas/libroteca-api/pkg/logger"
)

var _ ledger.Client = (*Client)(nil)

// Nombres de método del protocolo del store.
const (
	methodInit          = "init"
	methodCreateRecord  = "create-record"
	methodGetRecord     = "get-record"
	methodGetAllRecords = "get-all-records"
	methodUpdateData    = "update-data"
	methodDeleteRecord  = "delete-record"
	methodSearchByIndex = "search-by-index"
	methodListSchemas   = "list-schemas"
	methodCreateSchema  = "create-schema"
)

// Client habla con el record store remoto. No reintenta: un fallo remoto se
// propaga de inmediato al llamador.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	log     *logger.Logger
}

// New construye el cliente con la configuración dada.
func New(cfg config.LedgerConfig, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpc:   &http.Client{Timeout: cfg.Timeout},
		log:     log,
	}
}

// envelope es la respuesta etiquetada del store. Ok queda como JSON crudo
// porque su forma depende del método (bool, lista de registros, lista de
// nombres de schema).
type envelope struct {
	Ok  json.RawMessage `json:"ok,omitempty"`
	Err *string         `json:"err,omitempty"`
}

// call ejecuta un método remoto y devuelve el contenido de "ok".
// Un "err" del store se traduce a *ledger.RemoteError; cualquier otro fallo
// (red, HTTP, JSON malformado) es error de transporte.
func (c *Client) call(ctx context.Context, method string, args any) (json.RawMessage, error) {
	body, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("serializar argumentos de %s: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/"+method, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("construir petición %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llamada %s al store: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("leer respuesta de %s: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("store respondió HTTP %d en %s", resp.StatusCode, method)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("respuesta inválida de %s: %w", method, err)
	}
	if env.Err != nil {
		return nil, &ledger.RemoteError{Method: method, Message: *env.Err}
	}
	if env.Ok == nil {
		return nil, fmt.Errorf("respuesta de %s sin ok ni err", method)
	}
	return env.Ok, nil
}

// Init inicializa la sesión con el store.
func (c *Client) Init(ctx context.Context) error {
	start := time.Now()
	_, err := c.call(ctx, methodInit, map[string]any{})
	if err != nil {
		return err
	}
	c.log.Info().Dur("elapsed", time.Since(start)).Msg("record store inicializado")
	return nil
}

// CreateRecord crea un registro bajo el schema indicado.
func (c *Client) CreateRecord(ctx context.Context, schema string, rec ledger.Record) error {
	_, err := c.call(ctx, methodCreateRecord, map[string]any{
		"schema": schema,
		"record": rec,
	})
	return err
}

// GetRecord obtiene un registro por id. Un err "not found" del store se
// normaliza a ledger.ErrRecordNotFound.
func (c *Client) GetRecord(ctx context.Context, schema, id string) ([]ledger.Record, error) {
	ok, err := c.call(ctx, methodGetRecord, map[string]any{"schema": schema, "id": id})
	if err != nil {
		var rerr *ledger.RemoteError
		if errors.As(err, &rerr) && strings.Contains(strings.ToLower(rerr.Message), "not found") {
			return nil, ledger.ErrRecordNotFound
		}
		return nil, err
	}
	return decodeRecords(methodGetRecord, ok)
}

// GetAllRecords obtiene la colección completa del schema. El store no pagina.
func (c *Client) GetAllRecords(ctx context.Context, schema string) ([]ledger.Record, error) {
	ok, err := c.call(ctx, methodGetAllRecords, map[string]any{"schema": schema})
	if err != nil {
		return nil, err
	}
	return decodeRecords(methodGetAllRecords, ok)
}

// UpdateData aplica un field-diff a un registro existente.
func (c *Client) UpdateData(ctx context.Context, schema, id string, fields []ledger.Field) error {
	_, err := c.call(ctx, methodUpdateData, map[string]any{
		"schema": schema,
		"id":     id,
		"fields": fields,
	})
	return err
}

// DeleteRecord elimina un registro por id.
func (c *Client) DeleteRecord(ctx context.Context, schema, id string) error {
	_, err := c.call(ctx, methodDeleteRecord, map[string]any{"schema": schema, "id": id})
	return err
}

// SearchByIndex busca por igualdad exacta sobre un campo indexado.
func (c *Client) SearchByIndex(ctx context.Context, schema, field, value string) ([]ledger.Record, error) {
	ok, err := c.call(ctx, methodSearchByIndex, map[string]any{
		"schema": schema,
		"field":  field,
		"value":  value,
	})
	if err != nil {
		return nil, err
	}
	return decodeRecords(methodSearchByIndex, ok)
}

// ListSchemas lista los nombres de schema ya declarados.
func (c *Client) ListSchemas(ctx context.Context) ([]string, error) {
	ok, err := c.call(ctx, methodListSchemas, map[string]any{})
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal(ok, &names); err != nil {
		return nil, fmt.Errorf("respuesta inválida de %s: %w", methodListSchemas, err)
	}
	return names, nil
}

// CreateSchema declara un schema nuevo con sus campos e índices.
func (c *Client) CreateSchema(ctx context.Context, def ledger.SchemaDef) error {
	_, err := c.call(ctx, methodCreateSchema, map[string]any{
		"schema":  def.Name,
		"fields":  def.Fields,
		"indexes": def.Indexes,
	})
	return err
}

func decodeRecords(method string, raw json.RawMessage) ([]ledger.Record, error) {
	var recs []ledger.Record
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("respuesta inválida de %s: %w", method, err)
	}
	return recs, nil
}
