package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill cabecera de factura. GrandTotal es derivado de sus detalles.
type Bill struct {
	ID         int64
	BillNumber string
	Date       time.Time
	GrandTotal decimal.Decimal
	UserID     int64
	Owner      *BillOwner
	Details    []*BillDetail
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BillOwner proyección restringida del usuario dueño de la factura.
type BillOwner struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
}

// BillDetail línea de una factura.
type BillDetail struct {
	ID          int64
	Name        string
	Description string
	Amount      int
	ItemPrice   decimal.Decimal
	TotalItem   decimal.Decimal
	BillID      int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
