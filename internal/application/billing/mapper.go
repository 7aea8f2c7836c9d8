package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/codecai/factu-core/internal/application/dto"
	"github.com/codecai/factu-core/internal/domain"
	"github.com/codecai/factu-core/internal/domain/entity"
)

func toBillResponse(b *entity.Bill) *dto.BillResponse {
	if b == nil {
		return nil
	}
	out := &dto.BillResponse{
		ID:         b.ID,
		BillNumber: b.BillNumber,
		Date:       b.Date,
		GrandTotal: b.GrandTotal,
		UserID:     b.UserID,
		Details:    make([]dto.BillDetailResponse, 0, len(b.Details)),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
	if b.Owner != nil {
		out.User = &dto.BillOwnerResponse{
			ID:        b.Owner.ID,
			FirstName: b.Owner.FirstName,
			LastName:  b.Owner.LastName,
			Email:     b.Owner.Email,
		}
	}
	for _, d := range b.Details {
		out.Details = append(out.Details, *toDetailResponse(d))
	}
	return out
}

func toDetailResponse(d *entity.BillDetail) *dto.BillDetailResponse {
	if d == nil {
		return nil
	}
	return &dto.BillDetailResponse{
		ID:          d.ID,
		BillID:      d.BillID,
		Name:        d.Name,
		Description: d.Description,
		Amount:      d.Amount,
		ItemPrice:   d.ItemPrice,
		TotalItem:   d.TotalItem,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// parseBillDate acepta RFC3339 o solo fecha (YYYY-MM-DD, UTC).
func parseBillDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: date debe tener formato YYYY-MM-DD o RFC3339", domain.ErrInvalidInput)
}
