package http

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecai/factu-core/internal/application/dto"
)

func TestStrongPassword(t *testing.T) {
	cases := map[string]bool{
		"Secreto123": true,
		"Secreto!!x": true,
		"secreto123": false,
		"SECRETO123": false,
		"Secret1":    false,
		"SoloLetras": false,
	}
	for in, want := range cases {
		assert.Equal(t, want, strongPassword(in), in)
	}
}

func TestValidateStruct_ReglasPropias(t *testing.T) {
	err := validateStruct(dto.CreateShopRequest{
		Name: "Tienda", Address: "Av. Siempre Viva", PhoneNumber: "12ab",
		Country: "Ecuador", City: "Quito", RUC: "123", Email: "tienda@factucore.com",
		UserIDs: []int64{1, 0},
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "debe contener entre 9 y 15 dígitos", verr.Fields["phoneNumber"])
	assert.Equal(t, "debe tener exactamente 13 dígitos", verr.Fields["ruc"])
	assert.Contains(t, verr.Fields, "userIds[1]")
	assert.NotContains(t, verr.Fields, "name")
}

func TestValidateStruct_Valido(t *testing.T) {
	err := validateStruct(dto.CreateShopRequest{
		Name: "Tienda", Address: "Av. Siempre Viva", PhoneNumber: "0991234567",
		Country: "Ecuador", City: "Quito", RUC: "1790012345001", Email: "tienda@factucore.com",
	})
	assert.NoError(t, err)
}
