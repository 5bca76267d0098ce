package service

import (
	"context"
	"fmt"

	"github.com/jhoicas/libroteca-api/internal/domain"
	"github.com/jhoicas/libroteca-api/internal/domain/entity"
	"github.com/jhoicas/libroteca-api/internal/model"
	"github.com/jhoicas/libroteca-api/pkg/config"
	"github.com/jhoicas/libroteca-api/pkg/jwt"
	"github.com/jhoicas/libroteca-api/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// UserService registro, login y gestión de perfil.
type UserService struct {
	*Service[entity.User]
	users  *model.UserModel
	emails *KeyLock // serializa el check de unicidad de email por clave
	jwtCfg config.JWTConfig
	log    *logger.Logger
}

// NewUserService construye el servicio de usuarios.
func NewUserService(users *model.UserModel, jwtCfg config.JWTConfig, log *logger.Logger) *UserService {
	withID := func(u entity.User, id string) entity.User { u.ID = id; return u }
	return &UserService{
		Service: NewService(users.Model, withID, log),
		users:   users,
		emails:  NewKeyLock(),
		jwtCfg:  jwtCfg,
		log:     log,
	}
}

// Register rechaza emails ya registrados, hashea el password con bcrypt y, si
// la persistencia tiene éxito, emite el token de sesión (24h) con el id del
// usuario nuevo. Nunca devuelve el password ni el hash.
func (s *UserService) Register(ctx context.Context, in RegisterRequest) Response[TokenResponse] {
	s.emails.Lock(in.Email)
	defer s.emails.Unlock(in.Email)

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		s.log.Error().Err(err).Msg("verificar email en registro")
		return Fail[TokenResponse](fmt.Sprintf("%s: el registro falló", MsgServiceErr))
	}
	if len(existing) > 0 {
		return Fail[TokenResponse](domain.ErrEmailAlreadyExists.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error().Err(err).Msg("hashear password")
		return Fail[TokenResponse](fmt.Sprintf("%s: el registro falló", MsgServiceErr))
	}

	user := entity.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  string(hash),
		Role:      entity.RoleUser,
	}
	id, err := s.users.Create(ctx, user)
	if err != nil {
		s.log.Error().Err(err).Msg("persistir usuario en registro")
		return Fail[TokenResponse](fmt.Sprintf("%s: el registro falló", MsgServiceErr))
	}

	token, err := jwt.Generate(s.jwtCfg.Secret, id, user.Role, s.jwtCfg.Issuer, s.jwtCfg.ExpHours)
	if err != nil {
		s.log.Error().Err(err).Msg("emitir token en registro")
		return Fail[TokenResponse](fmt.Sprintf("%s: el registro falló", MsgServiceErr))
	}
	return OK(TokenResponse{Token: token}, "usuario registrado")
}

// Login busca por email, reconstruye el usuario tipado desde el registro
// aplanado y verifica el hash. Usuario ausente y password incorrecto producen
// el mismo error genérico: nunca se revela cuál factor falló.
func (s *UserService) Login(ctx context.Context, in LoginRequest) Response[TokenResponse] {
	found, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		s.log.Error().Err(err).Msg("buscar usuario en login")
		return Fail[TokenResponse](fmt.Sprintf("%s: el login falló", MsgServiceErr))
	}
	if len(found) == 0 {
		return Fail[TokenResponse](domain.ErrInvalidCredentials.Error())
	}

	user := found[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return Fail[TokenResponse](domain.ErrInvalidCredentials.Error())
	}

	token, err := jwt.Generate(s.jwtCfg.Secret, user.ID, user.Role, s.jwtCfg.Issuer, s.jwtCfg.ExpHours)
	if err != nil {
		s.log.Error().Err(err).Msg("emitir token en login")
		return Fail[TokenResponse](fmt.Sprintf("%s: el login falló", MsgServiceErr))
	}
	return OK(TokenResponse{Token: token}, "login exitoso")
}

// Logout es un no-op sin estado: no hay revocación del lado del servidor y el
// token sigue siendo válido hasta su expiración natural (limitación conocida).
func (s *UserService) Logout() Response[bool] {
	return OK(true, "sesión cerrada")
}

// UpdateProfile aplica una actualización parcial del perfil. Si viene un
// password nuevo se hashea antes de entrar al diff.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateUserRequest) Response[bool] {
	passwordHash := ""
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			s.log.Error().Err(err).Msg("hashear password en actualización")
			return Fail[bool](fmt.Sprintf("%s: la actualización falló", MsgServiceErr))
		}
		passwordHash = string(hash)
	}
	diff := model.UserProfileDiff(in.FirstName, in.LastName, in.Email, passwordHash)
	return s.Update(ctx, userID, diff)
}
