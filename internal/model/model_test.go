package model_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/libroteca-api/internal/domain"
	"github.com/jhoicas/libroteca-api/internal/domain/entity"
	"github.com/jhoicas/libroteca-api/internal/ledger"
	"github.com/jhoicas/libroteca-api/internal/ledger/memledger"
	"github.com/jhoicas/libroteca-api/internal/model"
	"github.com/jhoicas/libroteca-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func newBookModel(t *testing.T) (*model.BookModel, *memledger.Store) {
	t.Helper()
	store := memledger.New()
	require.NoError(t, store.Init(context.Background()))
	m := model.NewBookModel(store, logger.Nop())
	require.NoError(t, m.EnsureSchema(context.Background()))
	return m, store
}

func sampleBook(i int) entity.Book {
	return entity.Book{
		Title:       fmt.Sprintf("Libro %02d", i),
		Author:      "Autor de Prueba",
		ISBN:        fmt.Sprintf("97800000%05d", i),
		Description: "descripción de prueba",
		OwnerID:     "owner-1",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests EnsureSchema
// ──────────────────────────────────────────────────────────────────────────────

// Declarar el schema dos veces debe ser seguro: la segunda llamada detecta el
// schema existente y no toca nada.
func TestEnsureSchema_Idempotente(t *testing.T) {
	m, store := newBookModel(t)
	ctx := context.Background()

	require.NoError(t, m.EnsureSchema(ctx))
	require.NoError(t, m.EnsureSchema(ctx))

	names, err := store.ListSchemas(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, model.SchemaBooks)
}

// Si otra instancia declara el schema entre el List y el Create, el rechazo
// lógico del store se asume como "ya existe" y no es error.
func TestEnsureSchema_CarreraConOtraInstancia(t *testing.T) {
	store := memledger.New()
	ctx := context.Background()
	require.NoError(t, store.Init(ctx))

	a := model.NewBookModel(store, logger.Nop())
	b := model.NewBookModel(store, logger.Nop())
	require.NoError(t, a.EnsureSchema(ctx))
	require.NoError(t, b.EnsureSchema(ctx))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Create / FindByID
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_AsignaIDYRoundTrip(t *testing.T) {
	m, _ := newBookModel(t)
	ctx := context.Background()

	id, err := m.Create(ctx, sampleBook(1))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := m.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Libro 01", got.Title)
	assert.Equal(t, "Autor de Prueba", got.Author)
	assert.False(t, got.CreatedAt.IsZero(), "createdAt debe inyectarse al crear")
	assert.False(t, got.UpdatedAt.IsZero(), "updatedAt debe inyectarse al crear")
}

// Un Encode que no produce campos es un payload vacío y se rechaza antes de
// tocar el store.
func TestCreate_PayloadVacioSeRechaza(t *testing.T) {
	store := memledger.New()
	ctx := context.Background()
	require.NoError(t, store.Init(ctx))

	desc := model.Descriptor[struct{}]{
		SchemaName: "EmptySchema",
		Schema:     ledger.SchemaDef{Name: "EmptySchema"},
		Encode:     func(struct{}) []ledger.Field { return nil },
		Decode:     func(ledger.Record) (struct{}, error) { return struct{}{}, nil },
	}
	m := model.New(store, desc, logger.Nop())

	_, err := m.Create(ctx, struct{}{})
	assert.ErrorIs(t, err, domain.ErrEmptyPayload)

	recs, err := store.GetAllRecords(ctx, "EmptySchema")
	require.NoError(t, err)
	assert.Empty(t, recs, "el rechazo no debe dejar registros en el store")
}

// Un id inexistente no es error de transporte: (nil, nil).
func TestFindByID_NoExiste(t *testing.T) {
	m, _ := newBookModel(t)

	got, err := m.FindByID(context.Background(), "no-existe")
	require.NoError(t, err)
	assert.Nil(t, got)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests FindAll — paginación del lado del cliente
// ──────────────────────────────────────────────────────────────────────────────

// Recorrer todas las páginas debe reconstruir la colección completa en orden
// de inserción, sin duplicados ni huecos.
func TestFindAll_PaginacionReconstruyeLaColeccion(t *testing.T) {
	m, _ := newBookModel(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 25; i++ {
		id, err := m.Create(ctx, sampleBook(i))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	var paged []string
	for page := 1; ; page++ {
		items, err := m.FindAll(ctx, page, 10)
		require.NoError(t, err)
		if len(items) == 0 {
			break
		}
		for _, b := range items {
			paged = append(paged, b.ID)
		}
	}
	assert.Equal(t, ids, paged, "las páginas concatenadas deben ser la colección en orden de inserción")

	// Tamaños esperados: 10, 10, 5 y vacío después.
	p1, _ := m.FindAll(ctx, 1, 10)
	p2, _ := m.FindAll(ctx, 2, 10)
	p3, _ := m.FindAll(ctx, 3, 10)
	p4, _ := m.FindAll(ctx, 4, 10)
	assert.Len(t, p1, 10)
	assert.Len(t, p2, 10)
	assert.Len(t, p3, 5)
	assert.Empty(t, p4, "una página pasada el final es vacía, no error")
}

// page y pageSize fuera de rango caen a los defaults (1 y 10).
func TestFindAll_DefaultsDePaginacion(t *testing.T) {
	m, _ := newBookModel(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := m.Create(ctx, sampleBook(i))
		require.NoError(t, err)
	}

	items, err := m.FindAll(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, items, 10)
	assert.Equal(t, "Libro 00", items[0].Title)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Update / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_DiffParcialNoTocaOtrosCampos(t *testing.T) {
	m, _ := newBookModel(t)
	ctx := context.Background()

	id, err := m.Create(ctx, sampleBook(1))
	require.NoError(t, err)

	diff := model.BookUpdateDiff("Título Nuevo", "", "", "")
	require.NoError(t, m.Update(ctx, id, diff))

	got, err := m.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Título Nuevo", got.Title)
	assert.Equal(t, "Autor de Prueba", got.Author, "los campos fuera del diff no deben cambiar")
	assert.Equal(t, "descripción de prueba", got.Description)
}

// Un diff vacío es una actualización válida: solo refresca updatedAt.
func TestUpdate_DiffVacio(t *testing.T) {
	m, _ := newBookModel(t)
	ctx := context.Background()

	id, err := m.Create(ctx, sampleBook(1))
	require.NoError(t, err)

	require.NoError(t, m.Update(ctx, id, nil))

	got, err := m.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Libro 01", got.Title)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestUpdate_RegistroInexistente(t *testing.T) {
	m, _ := newBookModel(t)

	err := m.Update(context.Background(), "no-existe", model.NewDiff().Set("title", "x"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_EliminaElRegistro(t *testing.T) {
	m, _ := newBookModel(t)
	ctx := context.Background()

	id, err := m.Create(ctx, sampleBook(1))
	require.NoError(t, err)
	require.NoError(t, m.Delete(ctx, id))

	got, err := m.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Search — igualdad exacta sobre campo indexado
// ──────────────────────────────────────────────────────────────────────────────

func TestSearch_CoincidenciaExacta(t *testing.T) {
	m, _ := newBookModel(t)
	ctx := context.Background()

	_, err := m.Create(ctx, sampleBook(1))
	require.NoError(t, err)
	_, err = m.Create(ctx, sampleBook(2))
	require.NoError(t, err)

	found, err := m.FindByTitle(ctx, "Libro 01")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Libro 01", found[0].Title)

	// Coincidencia parcial no cuenta: la búsqueda es por igualdad exacta.
	none, err := m.FindByTitle(ctx, "Libro")
	require.NoError(t, err)
	assert.Empty(t, none, "cero resultados no es error en la capa de modelo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Diff
// ──────────────────────────────────────────────────────────────────────────────

// Set sobre un campo ya presente reemplaza el valor en lugar de duplicar la
// clave en el diff.
func TestDiff_SetReemplazaSinDuplicar(t *testing.T) {
	d := model.NewDiff().
		Set("title", "a").
		Set("author", "b").
		Set("title", "c")

	assert.Equal(t, 2, d.Len())
	fields := d.Fields()
	assert.Equal(t, ledger.Field{Key: "title", Value: "c"}, fields[0])
	assert.Equal(t, ledger.Field{Key: "author", Value: "b"}, fields[1])
}
