package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/codecai/factu-core/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation 23503: la fila referencia o es referenciada por otra.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503" // foreign_key_violation
	}
	return false
}

// isCheckViolation 23514: la fila no cumple un CHECK de la tabla.
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23514" // check_violation
	}
	return false
}

// constraintName nombre del constraint violado, vacío si no es un PgError.
func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// translate convierte violaciones de constraints en errores de dominio.
// Los mensajes por constraint son los que ve el cliente.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case isUniqueViolation(err):
		if msg, ok := uniqueMessages[constraintName(err)]; ok {
			return fmt.Errorf("%w: %s", domain.ErrConflict, msg)
		}
		return fmt.Errorf("%w: registro duplicado", domain.ErrConflict)
	case isForeignKeyViolation(err):
		if msg, ok := foreignKeyMessages[constraintName(err)]; ok {
			return fmt.Errorf("%w: %s", domain.ErrConflict, msg)
		}
		return fmt.Errorf("%w: el registro está referenciado por otros datos", domain.ErrConflict)
	case isCheckViolation(err):
		if msg, ok := checkMessages[constraintName(err)]; ok {
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg)
		}
		return fmt.Errorf("%w: valor fuera de rango", domain.ErrInvalidInput)
	}
	return fmt.Errorf("%s: %w", op, err)
}

var uniqueMessages = map[string]string{
	"users_email_key":           "el email ya está registrado",
	"users_document_number_key": "el número de documento ya está registrado",
	"roles_name_key":            "el nombre de rol ya existe",
	"shops_ruc_key":             "ya existe una tienda con ese RUC",
	"shops_email_key":           "ya existe una tienda con ese email",
	"bills_bill_number_key":     "el número de factura ya existe",
}

var foreignKeyMessages = map[string]string{
	"users_role_id_fkey":        "el rol no existe o tiene usuarios asociados",
	"bills_user_id_fkey":        "el usuario no existe o tiene facturas asociadas",
	"bill_details_bill_id_fkey": "la factura tiene detalles o no existe",
	"user_shops_user_id_fkey":   "el usuario no existe",
}

var checkMessages = map[string]string{
	"bills_grand_total_check":       "grandTotal no puede ser negativo",
	"bill_details_amount_check":     "amount debe ser un entero positivo",
	"bill_details_item_price_check": "itemPrice debe ser mayor a 0",
	"bill_details_total_item_check": "totalItem debe ser mayor a 0",
}
