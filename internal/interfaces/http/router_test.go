package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/libroteca-api/internal/interfaces/http"
	"github.com/jhoicas/libroteca-api/internal/ledger/memledger"
	"github.com/jhoicas/libroteca-api/internal/model"
	"github.com/jhoicas/libroteca-api/internal/service"
	"github.com/jhoicas/libroteca-api/pkg/config"
	"github.com/jhoicas/libroteca-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test — aplicación completa sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memledger.New()
	ctx := context.Background()
	require.NoError(t, store.Init(ctx))

	log := logger.Nop()
	users := model.NewUserModel(store, log)
	books := model.NewBookModel(store, log)
	reviews := model.NewReviewModel(store, log)
	require.NoError(t, users.EnsureSchema(ctx))
	require.NoError(t, books.EnsureSchema(ctx))
	require.NoError(t, reviews.EnsureSchema(ctx))

	jwtCfg := config.JWTConfig{Secret: testJWTSecret, ExpHours: 1, Issuer: testIssuer}
	userSvc := service.NewUserService(users, jwtCfg, log)
	bookSvc := service.NewBookService(books, log)
	reviewSvc := service.NewReviewService(reviews, bookSvc, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Users:     userSvc,
		Books:     bookSvc,
		Reviews:   reviewSvc,
		JWTSecret: testJWTSecret,
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func registerAndToken(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/auth/users/register", "", map[string]string{
		"firstName": "Ana",
		"lastName":  "García",
		"email":     email,
		"password":  "Secreto1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "la respuesta de registro debe traer data con el token")
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de extremo a extremo
// ──────────────────────────────────────────────────────────────────────────────

// Flujo completo: registro → crear libro → buscarlo → reseñarlo → verificar
// las estadísticas derivadas del libro.
func TestRouter_FlujoCompleto(t *testing.T) {
	app := newTestApp(t)
	token := registerAndToken(t, app, "ana@example.com")

	// Crear libro
	resp := doJSON(t, app, http.MethodPost, "/books", token, map[string]string{
		"title":       "Cien Años de Soledad",
		"author":      "Gabriel García Márquez",
		"isbn":        "9780307474728",
		"description": "novela",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)
	book := created["data"].(map[string]any)
	bookID := book["id"].(string)
	require.NotEmpty(t, bookID)
	assert.NotEmpty(t, book["ownerId"], "el dueño debe salir del token")

	// Listar
	resp = doJSON(t, app, http.MethodGet, "/books", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listed := decodeBody(t, resp)
	assert.Len(t, listed["data"], 1)

	// Buscar por título exacto
	resp = doJSON(t, app, http.MethodGet, "/books/search?title=Cien+A%C3%B1os+de+Soledad", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Reseñar
	resp = doJSON(t, app, http.MethodPost, "/books/"+bookID+"/reviews", token, map[string]any{
		"rating":  4,
		"comment": "muy buena",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/books/"+bookID+"/reviews", token, map[string]any{
		"rating": 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Las estadísticas del libro reflejan ambas reseñas: avg 3.0, count 2.
	resp = doJSON(t, app, http.MethodGet, "/books/"+bookID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decodeBody(t, resp)
	book = fetched["data"].(map[string]any)
	assert.InDelta(t, 3.0, book["averageRating"].(float64), 1e-9)
	assert.EqualValues(t, 2, book["reviewCount"])

	// Listar reseñas del libro
	resp = doJSON(t, app, http.MethodGet, "/books/"+bookID+"/reviews", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	reviews := decodeBody(t, resp)
	assert.Len(t, reviews["data"], 2)
}

// Las rutas de libros y usuarios exigen Bearer token.
func TestRouter_RutasProtegidasSinToken(t *testing.T) {
	app := newTestApp(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/books"},
		{http.MethodPost, "/books"},
		{http.MethodGet, "/users/profile"},
		{http.MethodPost, "/auth/users/logout"},
	} {
		resp := doJSON(t, app, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
			"%s %s sin token debe ser 401", route.method, route.path)
		resp.Body.Close()
	}
}

// Registro: validación de entrada y rechazo de email duplicado.
func TestRouter_RegistroValidaciones(t *testing.T) {
	app := newTestApp(t)
	registerAndToken(t, app, "ana@example.com")

	// Email duplicado
	resp := doJSON(t, app, http.MethodPost, "/auth/users/register", "", map[string]string{
		"firstName": "Ana",
		"lastName":  "García",
		"email":     "ana@example.com",
		"password":  "Secreto1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])

	// Password débil
	resp = doJSON(t, app, http.MethodPost, "/auth/users/register", "", map[string]string{
		"firstName": "Eva",
		"lastName":  "Luna",
		"email":     "eva@example.com",
		"password":  "corto",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Email inválido
	resp = doJSON(t, app, http.MethodPost, "/auth/users/register", "", map[string]string{
		"firstName": "Eva",
		"lastName":  "Luna",
		"email":     "no-es-un-email",
		"password":  "Secreto1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

// Login correcto e incorrecto.
func TestRouter_Login(t *testing.T) {
	app := newTestApp(t)
	registerAndToken(t, app, "ana@example.com")

	resp := doJSON(t, app, http.MethodPost, "/auth/users/login", "", map[string]string{
		"email":    "ana@example.com",
		"password": "Secreto1",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["token"])

	resp = doJSON(t, app, http.MethodPost, "/auth/users/login", "", map[string]string{
		"email":    "ana@example.com",
		"password": "Incorrecto9",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

// Perfil: leer y actualizar con el token de sesión.
func TestRouter_Perfil(t *testing.T) {
	app := newTestApp(t)
	token := registerAndToken(t, app, "ana@example.com")

	resp := doJSON(t, app, http.MethodGet, "/users/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	profile := body["data"].(map[string]any)
	assert.Equal(t, "ana@example.com", profile["email"])
	assert.Nil(t, profile["password"], "el hash del password nunca se serializa")

	resp = doJSON(t, app, http.MethodPut, "/users/profile", token, map[string]string{
		"firstName": "Anabel",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/users/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	profile = body["data"].(map[string]any)
	assert.Equal(t, "Anabel", profile["firstName"])
}

// Reseña con rating fuera de rango → 400 sin efectos sobre el libro.
func TestRouter_ReviewRatingInvalido(t *testing.T) {
	app := newTestApp(t)
	token := registerAndToken(t, app, "ana@example.com")

	resp := doJSON(t, app, http.MethodPost, "/books", token, map[string]string{
		"title":       "El Aleph",
		"author":      "Jorge Luis Borges",
		"isbn":        "9780142437889",
		"description": "cuentos",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)
	bookID := created["data"].(map[string]any)["id"].(string)

	resp = doJSON(t, app, http.MethodPost, "/books/"+bookID+"/reviews", token, map[string]any{
		"rating": 6,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/books/"+bookID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decodeBody(t, resp)
	book := fetched["data"].(map[string]any)
	assert.Zero(t, book["averageRating"])
	assert.Zero(t, book["reviewCount"])
}

// Búsqueda sin resultados → 404; libro inexistente → 404; ISBN inválido → 400.
func TestRouter_ErroresDeBusquedaYValidacion(t *testing.T) {
	app := newTestApp(t)
	token := registerAndToken(t, app, "ana@example.com")

	resp := doJSON(t, app, http.MethodGet, "/books/search?title=No+Existe", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/books/no-existe", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/books/search", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "title es requerido")
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/books", token, map[string]string{
		"title":       "Sin ISBN Válido",
		"author":      "Alguien",
		"isbn":        "abc",
		"description": "x",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

// Actualizar y eliminar un libro.
func TestRouter_ActualizarYEliminarLibro(t *testing.T) {
	app := newTestApp(t)
	token := registerAndToken(t, app, "ana@example.com")

	resp := doJSON(t, app, http.MethodPost, "/books", token, map[string]string{
		"title":       "Rayuela",
		"author":      "Julio Cortázar",
		"isbn":        "9788437604572",
		"description": "novela",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)
	bookID := created["data"].(map[string]any)["id"].(string)

	resp = doJSON(t, app, http.MethodPut, "/books/"+bookID, token, map[string]string{
		"description": "novela experimental",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/books/"+bookID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decodeBody(t, resp)
	assert.Equal(t, "novela experimental", fetched["data"].(map[string]any)["description"])

	resp = doJSON(t, app, http.MethodDelete, "/books/"+bookID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/books/"+bookID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
