package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/libroteca-api/internal/domain"
	"github.com/jhoicas/libroteca-api/internal/domain/entity"
	"github.com/jhoicas/libroteca-api/internal/ledger/memledger"
	"github.com/jhoicas/libroteca-api/internal/model"
	"github.com/jhoicas/libroteca-api/internal/service"
	"github.com/jhoicas/libroteca-api/pkg/config"
	"github.com/jhoicas/libroteca-api/pkg/jwt"
	"github.com/jhoicas/libroteca-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "libroteca-test"
)

func newUserService(t *testing.T) (*service.UserService, *model.UserModel) {
	t.Helper()
	store := memledger.New()
	ctx := context.Background()
	require.NoError(t, store.Init(ctx))

	users := model.NewUserModel(store, logger.Nop())
	require.NoError(t, users.EnsureSchema(ctx))

	svc := service.NewUserService(users, config.JWTConfig{
		Secret:   testJWTSecret,
		ExpHours: 1,
		Issuer:   testIssuer,
	}, logger.Nop())
	return svc, users
}

func sampleRegister() service.RegisterRequest {
	return service.RegisterRequest{
		FirstName: "Ana",
		LastName:  "García",
		Email:     "ana@example.com",
		Password:  "Secreto1",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Register
// ──────────────────────────────────────────────────────────────────────────────

// El registro exitoso emite un token de sesión con el id del usuario nuevo y
// el rol USER. La respuesta nunca incluye el password ni su hash.
func TestRegister_EmiteTokenDeSesion(t *testing.T) {
	svc, users := newUserService(t)
	ctx := context.Background()

	out := svc.Register(ctx, sampleRegister())
	require.True(t, out.Success, "registro debe ser exitoso: %s", out.Error)
	require.NotNil(t, out.Data)
	require.NotEmpty(t, out.Data.Token)

	userID, role, err := jwt.Parse(testJWTSecret, out.Data.Token)
	require.NoError(t, err)
	assert.NotEmpty(t, userID)
	assert.Equal(t, entity.RoleUser, role)

	// El id del token debe apuntar al usuario persistido.
	stored, err := users.FindByID(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "ana@example.com", stored.Email)
}

// El password nunca se persiste en claro: lo que queda en el store es un hash
// bcrypt verificable.
func TestRegister_PasswordSePersisteHasheado(t *testing.T) {
	svc, users := newUserService(t)
	ctx := context.Background()

	out := svc.Register(ctx, sampleRegister())
	require.True(t, out.Success)

	userID, _, err := jwt.Parse(testJWTSecret, out.Data.Token)
	require.NoError(t, err)
	stored, err := users.FindByID(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.NotEqual(t, "Secreto1", stored.Password, "el password no debe guardarse en claro")
	assert.NotEmpty(t, stored.Password)
}

// Dos registros con el mismo email: el segundo se rechaza sin crear nada.
func TestRegister_EmailDuplicado(t *testing.T) {
	svc, users := newUserService(t)
	ctx := context.Background()

	first := svc.Register(ctx, sampleRegister())
	require.True(t, first.Success)

	second := svc.Register(ctx, sampleRegister())
	assert.False(t, second.Success)
	assert.Equal(t, domain.ErrEmailAlreadyExists.Error(), second.Error)

	found, err := users.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Len(t, found, 1, "el duplicado no debe dejar un segundo registro")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_Exitoso(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	require.True(t, svc.Register(ctx, sampleRegister()).Success)

	out := svc.Login(ctx, service.LoginRequest{Email: "ana@example.com", Password: "Secreto1"})
	require.True(t, out.Success, "login debe ser exitoso: %s", out.Error)
	require.NotNil(t, out.Data)

	userID, role, err := jwt.Parse(testJWTSecret, out.Data.Token)
	require.NoError(t, err)
	assert.NotEmpty(t, userID)
	assert.Equal(t, entity.RoleUser, role)
}

// Usuario inexistente y password incorrecto producen exactamente el mismo
// error genérico: la respuesta no revela cuál factor falló.
func TestLogin_ErrorGenericoParaAmbosFactores(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	require.True(t, svc.Register(ctx, sampleRegister()).Success)

	badPassword := svc.Login(ctx, service.LoginRequest{Email: "ana@example.com", Password: "Incorrecto9"})
	noUser := svc.Login(ctx, service.LoginRequest{Email: "nadie@example.com", Password: "Secreto1"})

	assert.False(t, badPassword.Success)
	assert.False(t, noUser.Success)
	assert.Equal(t, domain.ErrInvalidCredentials.Error(), badPassword.Error)
	assert.Equal(t, badPassword.Error, noUser.Error,
		"ambos fallos deben devolver el mismo mensaje genérico")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests UpdateProfile / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateProfile_ActualizacionParcial(t *testing.T) {
	svc, users := newUserService(t)
	ctx := context.Background()

	reg := svc.Register(ctx, sampleRegister())
	require.True(t, reg.Success)
	userID, _, err := jwt.Parse(testJWTSecret, reg.Data.Token)
	require.NoError(t, err)

	out := svc.UpdateProfile(ctx, userID, service.UpdateUserRequest{FirstName: "Anabel"})
	require.True(t, out.Success, "actualización debe ser exitosa: %s", out.Error)

	stored, err := users.FindByID(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Anabel", stored.FirstName)
	assert.Equal(t, "García", stored.LastName, "los campos no enviados no deben cambiar")
	assert.Equal(t, "ana@example.com", stored.Email)
}

// Cambiar el password rehashea: el login solo funciona con el password nuevo.
func TestUpdateProfile_CambioDePassword(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	reg := svc.Register(ctx, sampleRegister())
	require.True(t, reg.Success)
	userID, _, err := jwt.Parse(testJWTSecret, reg.Data.Token)
	require.NoError(t, err)

	require.True(t, svc.UpdateProfile(ctx, userID, service.UpdateUserRequest{Password: "Nuevo123"}).Success)

	old := svc.Login(ctx, service.LoginRequest{Email: "ana@example.com", Password: "Secreto1"})
	assert.False(t, old.Success, "el password viejo ya no debe servir")

	fresh := svc.Login(ctx, service.LoginRequest{Email: "ana@example.com", Password: "Nuevo123"})
	assert.True(t, fresh.Success, "el password nuevo debe servir: %s", fresh.Error)
}

func TestDelete_EliminaLaCuenta(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	reg := svc.Register(ctx, sampleRegister())
	require.True(t, reg.Success)
	userID, _, err := jwt.Parse(testJWTSecret, reg.Data.Token)
	require.NoError(t, err)

	require.True(t, svc.Delete(ctx, userID).Success)

	out := svc.FindByID(ctx, userID)
	assert.False(t, out.Success)
	assert.True(t, out.NotFound())
}
