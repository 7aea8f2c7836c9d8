package migrate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecai/factu-core/pkg/migrate"
)

func TestFiles_OrdenYFormatoGoose(t *testing.T) {
	files, err := migrate.Files()
	require.NoError(t, err)
	require.Len(t, files, 3)

	for _, f := range files {
		content, err := migrate.Read(f)
		require.NoError(t, err)
		assert.Contains(t, content, "-- +goose Up", f)
		assert.Contains(t, content, "-- +goose Down", f)
	}
	assert.True(t, strings.HasSuffix(files[2], "_create_bills.sql"))
}

// Los repos traducen errores de Postgres por nombre de constraint; los nombres deben existir.
func TestMigraciones_ConstraintsUsadosPorLosRepos(t *testing.T) {
	files, err := migrate.Files()
	require.NoError(t, err)

	var all strings.Builder
	for _, f := range files {
		c, err := migrate.Read(f)
		require.NoError(t, err)
		all.WriteString(c)
	}
	content := all.String()

	for _, name := range []string{
		"users_email_key",
		"users_document_number_key",
		"roles_name_key",
		"shops_ruc_key",
		"shops_email_key",
		"bills_bill_number_key",
		"users_role_id_fkey",
		"bills_user_id_fkey",
		"bill_details_bill_id_fkey",
		"user_shops_user_id_fkey",
		"bills_grand_total_check",
		"bill_details_amount_check",
		"bill_details_item_price_check",
		"bill_details_total_item_check",
	} {
		assert.Contains(t, content, "CONSTRAINT "+name, name)
	}
}

func TestMigraciones_ReglasDeDetalle(t *testing.T) {
	c, err := migrate.Read("20250301120200_create_bills.sql")
	require.NoError(t, err)

	for _, sub := range []string{
		"CHECK (amount > 0)",
		"CHECK (item_price > 0)",
		"CHECK (total_item > 0)",
		"grand_total NUMERIC(14,2) NOT NULL DEFAULT 0",
		"ON DELETE RESTRICT",
	} {
		assert.Contains(t, c, sub)
	}
}
