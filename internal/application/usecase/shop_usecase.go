package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/codecai/factu-core/internal/application/dto"
	"github.com/codecai/factu-core/internal/domain"
	"github.com/codecai/factu-core/internal/domain/entity"
	"github.com/codecai/factu-core/internal/domain/repository"
	"github.com/codecai/factu-core/pkg/logger"
)

// ShopUseCase tiendas y asignación de usuarios.
type ShopUseCase struct {
	repo     repository.ShopRepository
	users    repository.UserRepository
	txRunner ShopTxRunner
	log      *logger.Logger
}

// NewShopUseCase construye el caso de uso.
func NewShopUseCase(repo repository.ShopRepository, users repository.UserRepository, txRunner ShopTxRunner, log *logger.Logger) *ShopUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ShopUseCase{repo: repo, users: users, txRunner: txRunner, log: log.Named("shops")}
}

// Create crea la tienda y, si vienen userIds, sus asignaciones en la misma transacción.
func (uc *ShopUseCase) Create(ctx context.Context, in dto.CreateShopRequest) (*dto.ShopResponse, error) {
	ruc, email := strings.TrimSpace(in.RUC), normalizeEmail(in.Email)
	if err := uc.ensureNoConflict(ctx, ruc, email, 0); err != nil {
		return nil, err
	}
	userIDs := uniqueIDs(in.UserIDs)
	if err := uc.ensureUsers(ctx, userIDs); err != nil {
		return nil, err
	}

	now := time.Now()
	shop := &entity.Shop{
		Name:        strings.TrimSpace(in.Name),
		Address:     strings.TrimSpace(in.Address),
		PhoneNumber: in.PhoneNumber,
		Country:     strings.TrimSpace(in.Country),
		City:        strings.TrimSpace(in.City),
		RUC:         ruc,
		Email:       email,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.txRunner.RunShops(ctx, func(shops repository.ShopRepository) error {
		if err := shops.Create(ctx, shop); err != nil {
			return err
		}
		if len(userIDs) == 0 {
			return nil
		}
		return shops.ReplaceAssignments(ctx, shop.ID, userIDs)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("shop_id", shop.ID).Str("ruc", shop.RUC).Int("users", len(userIDs)).Msg("tienda creada")
	return uc.GetByID(ctx, shop.ID)
}

// List tiendas activas, más recientes primero.
func (uc *ShopUseCase) List(ctx context.Context) ([]*dto.ShopResponse, error) {
	list, err := uc.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return toShopResponses(list), nil
}

// ListByUser tiendas activas asignadas al usuario.
func (uc *ShopUseCase) ListByUser(ctx context.Context, userID int64) ([]*dto.ShopResponse, error) {
	list, err := uc.repo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toShopResponses(list), nil
}

// GetByID tienda con sus usuarios asignados (aunque esté inactiva).
func (uc *ShopUseCase) GetByID(ctx context.Context, id int64) (*dto.ShopResponse, error) {
	shop, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if shop.Members, err = uc.repo.ListMembers(ctx, id); err != nil {
		return nil, err
	}
	return entityToShopResponse(shop), nil
}

// Update actualización parcial. RUC y email siguen siendo únicos entre tiendas.
func (uc *ShopUseCase) Update(ctx context.Context, id int64, in dto.UpdateShopRequest) (*dto.ShopResponse, error) {
	shop, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	ruc, email := shop.RUC, shop.Email
	if in.RUC != nil {
		ruc = strings.TrimSpace(*in.RUC)
	}
	if in.Email != nil {
		email = normalizeEmail(*in.Email)
	}
	if ruc != shop.RUC || email != shop.Email {
		if err := uc.ensureNoConflict(ctx, ruc, email, id); err != nil {
			return nil, err
		}
	}
	shop.RUC, shop.Email = ruc, email
	if in.Name != nil {
		shop.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		shop.Address = strings.TrimSpace(*in.Address)
	}
	if in.PhoneNumber != nil {
		shop.PhoneNumber = *in.PhoneNumber
	}
	if in.Country != nil {
		shop.Country = strings.TrimSpace(*in.Country)
	}
	if in.City != nil {
		shop.City = strings.TrimSpace(*in.City)
	}
	shop.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, shop); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// AssignUsers reemplaza el conjunto completo de usuarios asignados.
func (uc *ShopUseCase) AssignUsers(ctx context.Context, shopID int64, in dto.AssignUsersRequest) (*dto.ShopResponse, error) {
	if _, err := uc.get(ctx, shopID); err != nil {
		return nil, err
	}
	userIDs := uniqueIDs(in.UserIDs)
	if err := uc.ensureUsers(ctx, userIDs); err != nil {
		return nil, err
	}
	err := uc.txRunner.RunShops(ctx, func(shops repository.ShopRepository) error {
		return shops.ReplaceAssignments(ctx, shopID, userIDs)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("shop_id", shopID).Ints64("user_ids", userIDs).Msg("usuarios asignados")
	return uc.GetByID(ctx, shopID)
}

// RemoveUser quita una asignación. NotFound si no existe.
func (uc *ShopUseCase) RemoveUser(ctx context.Context, shopID, userID int64) error {
	ok, err := uc.repo.HasAssignment(ctx, shopID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: el usuario no está asignado a esta tienda", domain.ErrNotFound)
	}
	if err := uc.repo.DeleteAssignment(ctx, shopID, userID); err != nil {
		return err
	}
	uc.log.Info().Int64("shop_id", shopID).Int64("user_id", userID).Msg("usuario removido de la tienda")
	return nil
}

// SoftDelete marca la tienda como inactiva.
func (uc *ShopUseCase) SoftDelete(ctx context.Context, id int64) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	uc.log.Info().Int64("shop_id", id).Msg("tienda desactivada")
	return nil
}

// HardDelete borra la fila. InvalidInput si otras filas la referencian.
func (uc *ShopUseCase) HardDelete(ctx context.Context, id int64) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Warn().Int64("shop_id", id).Msg("tienda eliminada permanentemente")
	return nil
}

func (uc *ShopUseCase) get(ctx context.Context, id int64) (*entity.Shop, error) {
	shop, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, fmt.Errorf("%w: tienda con ID %d no encontrada", domain.ErrNotFound, id)
	}
	return shop, nil
}

func (uc *ShopUseCase) ensureNoConflict(ctx context.Context, ruc, email string, excludeID int64) error {
	other, err := uc.repo.FindConflicting(ctx, ruc, email, excludeID)
	if err != nil {
		return err
	}
	if other == nil {
		return nil
	}
	if other.RUC == ruc {
		return fmt.Errorf("%w: ya existe una tienda con ese RUC", domain.ErrConflict)
	}
	return fmt.Errorf("%w: ya existe una tienda con ese email", domain.ErrConflict)
}

func (uc *ShopUseCase) ensureUsers(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := uc.users.CountExisting(ctx, ids)
	if err != nil {
		return err
	}
	if n != len(ids) {
		return fmt.Errorf("%w: algunos usuarios no existen", domain.ErrInvalidInput)
	}
	return nil
}

func toShopResponses(list []*entity.Shop) []*dto.ShopResponse {
	out := make([]*dto.ShopResponse, 0, len(list))
	for _, s := range list {
		out = append(out, entityToShopResponse(s))
	}
	return out
}
