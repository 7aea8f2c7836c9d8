package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/codecai/factu-core/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "factu-core-test"
)

var testSubject = pkgjwt.Subject{UserID: 42, Email: "ana@factucore.com", RoleID: 3}

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIssuer, 60, testSubject)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "ana@factucore.com", claims.Email)
	assert.Equal(t, int64(3), claims.RoleID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParse_TokenExpiradoEsDistintoDeInvalido(t *testing.T) {
	expired, err := pkgjwt.Generate(testSecret, testIssuer, -1, testSubject)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, expired)
	assert.ErrorIs(t, err, pkgjwt.ErrExpired)
	assert.NotErrorIs(t, err, pkgjwt.ErrInvalid)

	_, err = pkgjwt.Parse(testSecret, "token.invalido.aqui")
	assert.ErrorIs(t, err, pkgjwt.ErrInvalid)
	assert.NotErrorIs(t, err, pkgjwt.ErrExpired)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIssuer, 60, testSubject)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalid)
}

func TestGenerate_SinSecret(t *testing.T) {
	_, err := pkgjwt.Generate("", testIssuer, 60, testSubject)
	assert.Error(t, err)
}
