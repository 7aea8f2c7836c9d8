package usecase

import (
	"strings"

	"github.com/codecai/factu-core/internal/application/dto"
	"github.com/codecai/factu-core/internal/domain/entity"
)

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	out := &dto.UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		DocumentType:   u.DocumentType,
		DocumentNumber: u.DocumentNumber,
		PhoneNumber:    u.PhoneNumber,
		Address:        u.Address,
		RoleID:         u.RoleID,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
	if u.Role != nil {
		out.Role = &dto.RoleRef{ID: u.Role.ID, Name: u.Role.Name}
	}
	return out
}

func entityToRoleResponse(r *entity.Role, withCount bool) *dto.RoleResponse {
	if r == nil {
		return nil
	}
	out := &dto.RoleResponse{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
	if withCount {
		n := r.UserCount
		out.UserCount = &n
	}
	return out
}

func entityToShopResponse(s *entity.Shop) *dto.ShopResponse {
	if s == nil {
		return nil
	}
	out := &dto.ShopResponse{
		ID:          s.ID,
		Name:        s.Name,
		Address:     s.Address,
		PhoneNumber: s.PhoneNumber,
		Country:     s.Country,
		City:        s.City,
		RUC:         s.RUC,
		Email:       s.Email,
		IsActive:    s.IsActive,
		UserCount:   s.UserCount,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	for _, m := range s.Members {
		member := dto.ShopMemberResponse{ID: m.ID, Email: m.Email, FirstName: m.FirstName, LastName: m.LastName}
		if m.Role != nil {
			member.Role = &dto.RoleRef{ID: m.Role.ID, Name: m.Role.Name}
		}
		out.Users = append(out.Users, member)
	}
	return out
}

// normalizeEmail minúsculas y sin espacios.
func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// uniqueIDs elimina duplicados conservando el orden.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
