package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecai/factu-core/internal/application/auth"
	"github.com/codecai/factu-core/internal/application/dto"
	"github.com/codecai/factu-core/internal/domain"
	"github.com/codecai/factu-core/internal/domain/entity"
	"github.com/codecai/factu-core/internal/testutil/memstore"
	pkgjwt "github.com/codecai/factu-core/pkg/jwt"
)

func newAuth(t *testing.T) (*auth.AuthUseCase, *memstore.Store, *entity.Role) {
	t.Helper()
	s := memstore.New()
	s.MustRole(t, entity.RoleAdmin)
	def := s.MustRole(t, entity.RoleUser)
	uc := auth.NewAuthUseCase(s.Users(), s.Roles(), auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: testIssuer}, entity.RoleUser)
	return uc, s, def
}

func registerReq(email, doc string) dto.RegisterRequest {
	return dto.RegisterRequest{
		FirstName: " Ana ", LastName: "Pérez", Email: email, Password: "Secreta123",
		DocumentType: "CEDULA", DocumentNumber: doc, PhoneNumber: "0991234567", Address: "Quito",
	}
}

func TestRegister_AsignaRolPorDefectoYEmiteToken(t *testing.T) {
	uc, _, def := newAuth(t)

	out, err := uc.Register(context.Background(), registerReq("  Ana@FactuCore.com ", "1710034065"))
	require.NoError(t, err)
	assert.Equal(t, "ana@factucore.com", out.User.Email)
	assert.Equal(t, "Ana", out.User.FirstName)
	assert.Equal(t, def.ID, out.User.RoleID)

	claims, err := pkgjwt.Parse(testSecret, out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, def.ID, claims.RoleID)
}

func TestRegister_Duplicados(t *testing.T) {
	uc, _, _ := newAuth(t)
	ctx := context.Background()
	_, err := uc.Register(ctx, registerReq("ana@factucore.com", "1710034065"))
	require.NoError(t, err)

	_, err = uc.Register(ctx, registerReq("ana@factucore.com", "999"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.Register(ctx, registerReq("otra@factucore.com", "1710034065"))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegister_SinRolPorDefecto(t *testing.T) {
	s := memstore.New()
	uc := auth.NewAuthUseCase(s.Users(), s.Roles(), auth.JWTConfig{Secret: testSecret, ExpMinutes: 60}, entity.RoleUser)

	_, err := uc.Register(context.Background(), registerReq("ana@factucore.com", "1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogin(t *testing.T) {
	uc, _, _ := newAuth(t)
	ctx := context.Background()
	_, err := uc.Register(ctx, registerReq("ana@factucore.com", "1710034065"))
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "ANA@factucore.com", Password: "Secreta123"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)

	_, errPass := uc.Login(ctx, dto.LoginRequest{Email: "ana@factucore.com", Password: "incorrecta"})
	_, errEmail := uc.Login(ctx, dto.LoginRequest{Email: "nadie@factucore.com", Password: "Secreta123"})
	assert.ErrorIs(t, errPass, domain.ErrUnauthorized)
	assert.ErrorIs(t, errEmail, domain.ErrUnauthorized)
	assert.Equal(t, errPass.Error(), errEmail.Error(), "no debe revelar si el email existe")
}
