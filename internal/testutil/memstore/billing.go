package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codecai/factu-core/internal/domain"
	"github.com/codecai/factu-core/internal/domain/entity"
	"github.com/codecai/factu-core/internal/domain/repository"
)

var (
	_ repository.BillRepository       = (*BillRepo)(nil)
	_ repository.BillDetailRepository = (*DetailRepo)(nil)
)

// BillRepo facturas en memoria.
type BillRepo struct{ s *Store }

func (r *BillRepo) Create(_ context.Context, b *entity.Bill) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[b.UserID]; !ok {
		return fmt.Errorf("%w: usuario %d", domain.ErrNotFound, b.UserID)
	}
	if s.billNumberTaken(b.BillNumber, 0) {
		return fmt.Errorf("%w: número de factura duplicado", domain.ErrConflict)
	}
	b.ID = s.nextID()
	s.bills[b.ID] = stripBill(*b)
	return nil
}

func (r *BillRepo) GetByID(_ context.Context, id int64) (*entity.Bill, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.bills[id]
	if !ok {
		return nil, nil
	}
	return s.withOwner(row), nil
}

func (r *BillRepo) GetByNumber(_ context.Context, billNumber string) (*entity.Bill, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.bills {
		if row.BillNumber == billNumber {
			return s.withOwner(row), nil
		}
	}
	return nil, nil
}

func (r *BillRepo) List(_ context.Context) ([]*entity.Bill, error) {
	return r.list(func(billRow) bool { return true }), nil
}

func (r *BillRepo) ListByUser(_ context.Context, userID int64) ([]*entity.Bill, error) {
	return r.list(func(b billRow) bool { return b.UserID == userID }), nil
}

func (r *BillRepo) Update(_ context.Context, b *entity.Bill) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bills[b.ID]; !ok {
		return fmt.Errorf("%w: factura %d", domain.ErrNotFound, b.ID)
	}
	if _, ok := s.users[b.UserID]; !ok {
		return fmt.Errorf("%w: usuario %d", domain.ErrNotFound, b.UserID)
	}
	if s.billNumberTaken(b.BillNumber, b.ID) {
		return fmt.Errorf("%w: número de factura duplicado", domain.ErrConflict)
	}
	s.bills[b.ID] = stripBill(*b)
	return nil
}

func (r *BillRepo) Delete(_ context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.details {
		if d.BillID == id {
			return fmt.Errorf("%w: la factura tiene detalles", domain.ErrConflict)
		}
	}
	delete(s.bills, id)
	return nil
}

func (r *BillRepo) CountByUser(_ context.Context, userID int64) (int, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.bills {
		if b.UserID == userID {
			n++
		}
	}
	return n, nil
}

// LockByID las transacciones ya están serializadas por txMu; solo verifica existencia.
func (r *BillRepo) LockByID(_ context.Context, id int64) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.bills[id]
	return ok, nil
}

func (r *BillRepo) SetGrandTotal(_ context.Context, id int64, total decimal.Decimal) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSetGrandTotal != nil {
		return s.failSetGrandTotal
	}
	row, ok := s.bills[id]
	if !ok {
		return fmt.Errorf("%w: factura %d", domain.ErrNotFound, id)
	}
	row.GrandTotal = total
	row.UpdatedAt = time.Now()
	s.bills[id] = row
	return nil
}

// SetFailSetGrandTotal activa o desactiva el fallo inyectado de forma segura.
func (s *Store) SetFailSetGrandTotal(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSetGrandTotal = err
}

func (r *BillRepo) list(match func(billRow) bool) []*entity.Bill {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*entity.Bill{}
	for _, row := range s.bills {
		if match(row) {
			out = append(out, s.withOwner(row))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *Store) withOwner(row billRow) *entity.Bill {
	b := row
	if u, ok := s.users[b.UserID]; ok {
		b.Owner = &entity.BillOwner{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
	}
	return &b
}

func (s *Store) billNumberTaken(number string, excludeID int64) bool {
	for id, b := range s.bills {
		if id != excludeID && b.BillNumber == number {
			return true
		}
	}
	return false
}

func stripBill(b entity.Bill) billRow {
	b.Owner, b.Details = nil, nil
	return b
}

// DetailRepo líneas en memoria.
type DetailRepo struct{ s *Store }

func (r *DetailRepo) Create(_ context.Context, d *entity.BillDetail) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bills[d.BillID]; !ok {
		return fmt.Errorf("%w: la factura %d no existe", domain.ErrConflict, d.BillID)
	}
	d.ID = s.nextID()
	s.details[d.ID] = *d
	return nil
}

func (r *DetailRepo) GetByID(_ context.Context, id int64) (*entity.BillDetail, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.details[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *DetailRepo) List(_ context.Context) ([]*entity.BillDetail, error) {
	return r.list(func(detailRow) bool { return true }), nil
}

func (r *DetailRepo) ListByBill(_ context.Context, billID int64) ([]*entity.BillDetail, error) {
	return r.list(func(d detailRow) bool { return d.BillID == billID }), nil
}

func (r *DetailRepo) ListByBills(_ context.Context, billIDs []int64) ([]*entity.BillDetail, error) {
	set := make(map[int64]struct{}, len(billIDs))
	for _, id := range billIDs {
		set[id] = struct{}{}
	}
	return r.list(func(d detailRow) bool {
		_, ok := set[d.BillID]
		return ok
	}), nil
}

func (r *DetailRepo) Update(_ context.Context, d *entity.BillDetail) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.details[d.ID]; !ok {
		return fmt.Errorf("%w: detalle %d", domain.ErrNotFound, d.ID)
	}
	if _, ok := s.bills[d.BillID]; !ok {
		return fmt.Errorf("%w: la factura %d no existe", domain.ErrConflict, d.BillID)
	}
	s.details[d.ID] = *d
	return nil
}

func (r *DetailRepo) Delete(_ context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.details, id)
	return nil
}

func (r *DetailRepo) DeleteByBill(_ context.Context, billID int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, d := range s.details {
		if d.BillID == billID {
			delete(s.details, id)
		}
	}
	return nil
}

func (r *DetailRepo) list(match func(detailRow) bool) []*entity.BillDetail {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*entity.BillDetail{}
	for _, row := range s.details {
		if match(row) {
			d := row
			out = append(out, &d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
