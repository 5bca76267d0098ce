// Package service orquesta los modelos, aplica reglas de dominio y normaliza
// todo resultado en el envelope uniforme Response.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/libroteca-api/internal/domain"
	"github.com/jhoicas/libroteca-api/internal/model"
	"github.com/jhoicas/libroteca-api/pkg/logger"
)

// Service operaciones CRUD genéricas sobre un modelo. withID es la estrategia
// por tipo de entidad para fijar el id asignado por el store en la entidad
// creada.
type Service[T any] struct {
	model  *model.Model[T]
	withID func(T, string) T
	log    *logger.Logger
}

// NewService construye el servicio base sobre un modelo.
func NewService[T any](m *model.Model[T], withID func(T, string) T, log *logger.Logger) *Service[T] {
	return &Service[T]{model: m, withID: withID, log: log}
}

// Create persiste la entidad y devuelve la entidad creada con su id nuevo.
func (s *Service[T]) Create(ctx context.Context, v T) Response[T] {
	id, err := s.model.Create(ctx, v)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyPayload) {
			return Fail[T](domain.ErrEmptyPayload.Error())
		}
		s.log.Error().Err(err).Str("schema", s.model.SchemaName()).Msg("create en servicio")
		return Fail[T](fmt.Sprintf("%s: la creación falló", MsgServiceErr))
	}
	return OK(s.withID(v, id), "creado correctamente")
}

// FindByID distingue el error del store de un resultado legítimamente vacío:
// el primero produce un envelope de error de servicio, el segundo MsgNotFound.
func (s *Service[T]) FindByID(ctx context.Context, id string) Response[T] {
	v, err := s.model.FindByID(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Str("schema", s.model.SchemaName()).Str("id", id).Msg("findById en servicio")
		return Fail[T](fmt.Sprintf("%s: la consulta falló", MsgServiceErr))
	}
	if v == nil {
		return Fail[T](MsgNotFound)
	}
	return OK(*v)
}

// FindAll devuelve la página pedida. Una página vacía es un éxito: el listado
// paginado no trata "sin registros" como error, a diferencia de las búsquedas
// indexadas.
func (s *Service[T]) FindAll(ctx context.Context, page, pageSize int) Response[[]T] {
	items, err := s.model.FindAll(ctx, page, pageSize)
	if err != nil {
		s.log.Error().Err(err).Str("schema", s.model.SchemaName()).Msg("findAll en servicio")
		return Fail[[]T](fmt.Sprintf("%s: el listado falló", MsgServiceErr))
	}
	return OK(items)
}

// Update aplica un field-diff parcial. Un diff vacío refresca solo updatedAt.
func (s *Service[T]) Update(ctx context.Context, id string, diff *model.Diff) Response[bool] {
	if err := s.model.Update(ctx, id, diff); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Fail[bool](MsgNotFound)
		}
		s.log.Error().Err(err).Str("schema", s.model.SchemaName()).Str("id", id).Msg("update en servicio")
		return Fail[bool](fmt.Sprintf("%s: la actualización falló", MsgServiceErr))
	}
	return OK(true, "actualizado correctamente")
}

// Delete elimina por id.
func (s *Service[T]) Delete(ctx context.Context, id string) Response[bool] {
	if err := s.model.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("schema", s.model.SchemaName()).Str("id", id).Msg("delete en servicio")
		return Fail[bool](fmt.Sprintf("%s: la eliminación falló", MsgServiceErr))
	}
	return OK(true, "eliminado correctamente")
}
