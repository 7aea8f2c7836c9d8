package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBillRequest alta de factura. Date acepta RFC3339 o YYYY-MM-DD.
type CreateBillRequest struct {
	BillNumber string           `json:"billNumber" validate:"required,digits"`
	Date       string           `json:"date" validate:"required"`
	GrandTotal *decimal.Decimal `json:"grandTotal"`
	UserID     int64            `json:"userId" validate:"required,gt=0"`
}

// UpdateBillRequest cambios de cabecera. GrandTotal se rechaza: es derivado.
type UpdateBillRequest struct {
	BillNumber *string          `json:"billNumber" validate:"omitempty,digits"`
	Date       *string          `json:"date" validate:"omitempty,min=1"`
	UserID     *int64           `json:"userId" validate:"omitempty,gt=0"`
	GrandTotal *decimal.Decimal `json:"grandTotal"`
}

// BillOwnerResponse proyección del usuario dueño de la factura.
type BillOwnerResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// BillResponse salida de una factura con su dueño y sus líneas.
type BillResponse struct {
	ID         int64                `json:"id"`
	BillNumber string               `json:"billNumber"`
	Date       time.Time            `json:"date"`
	GrandTotal decimal.Decimal      `json:"grandTotal"`
	UserID     int64                `json:"userId"`
	User       *BillOwnerResponse   `json:"user,omitempty"`
	Details    []BillDetailResponse `json:"details"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

// CreateBillDetailRequest alta de línea. TotalItem opcional sobrescribe amount*itemPrice.
type CreateBillDetailRequest struct {
	BillID      int64            `json:"billId" validate:"required,gt=0"`
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	Amount      int              `json:"amount" validate:"required,gt=0"`
	ItemPrice   decimal.Decimal  `json:"itemPrice"`
	TotalItem   *decimal.Decimal `json:"totalItem"`
}

// UpdateBillDetailRequest actualización parcial de línea.
type UpdateBillDetailRequest struct {
	BillID      *int64           `json:"billId" validate:"omitempty,gt=0"`
	Name        *string          `json:"name" validate:"omitempty,min=1"`
	Description *string          `json:"description"`
	Amount      *int             `json:"amount" validate:"omitempty,gt=0"`
	ItemPrice   *decimal.Decimal `json:"itemPrice"`
	TotalItem   *decimal.Decimal `json:"totalItem"`
}

// BillDetailResponse salida de una línea.
type BillDetailResponse struct {
	ID          int64           `json:"id"`
	BillID      int64           `json:"billId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Amount      int             `json:"amount"`
	ItemPrice   decimal.Decimal `json:"itemPrice"`
	TotalItem   decimal.Decimal `json:"totalItem"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
