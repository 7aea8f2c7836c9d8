package memstore

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/codecai/factu-core/internal/domain/entity"
)

// MustRole crea un rol o aborta el test.
func (s *Store) MustRole(t testing.TB, name string) *entity.Role {
	t.Helper()
	now := time.Now()
	role := &entity.Role{Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.Roles().Create(context.Background(), role); err != nil {
		t.Fatalf("memstore: crear rol %s: %v", name, err)
	}
	return role
}

// MustUser crea un usuario con el hash recibido (puede ser vacío) o aborta el test.
func (s *Store) MustUser(t testing.TB, email string, roleID int64, passwordHash string) *entity.User {
	t.Helper()
	now := time.Now()
	s.mu.Lock()
	doc := strconv.FormatInt(1000000+s.seq, 10)
	s.mu.Unlock()
	u := &entity.User{
		Email:          email,
		PasswordHash:   passwordHash,
		FirstName:      "Nombre",
		LastName:       "Apellido",
		DocumentType:   "CEDULA",
		DocumentNumber: doc,
		PhoneNumber:    "0999999999",
		Address:        "Quito",
		RoleID:         roleID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("memstore: crear usuario %s: %v", email, err)
	}
	return u
}
