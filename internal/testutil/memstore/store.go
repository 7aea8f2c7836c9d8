// Package memstore implementa todos los puertos de persistencia en memoria para tests.
// Replica las restricciones de la base (únicos, claves foráneas) y las transacciones:
// si el callback de RunBilling/RunShops falla, el estado vuelve al snapshot previo.
package memstore

import (
	"context"
	"errors"
	"sync"

	"github.com/codecai/factu-core/internal/domain/repository"
)

// Store estado compartido por todos los repos en memoria.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	seq  int64

	users       map[int64]userRow
	roles       map[int64]roleRow
	shops       map[int64]shopRow
	assignments map[pair]assignmentRow
	bills       map[int64]billRow
	details     map[int64]detailRow

	// failSetGrandTotal si no es nil, SetGrandTotal falla con este error (simula caída a mitad de tx).
	failSetGrandTotal error
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		users:       map[int64]userRow{},
		roles:       map[int64]roleRow{},
		shops:       map[int64]shopRow{},
		assignments: map[pair]assignmentRow{},
		bills:       map[int64]billRow{},
		details:     map[int64]detailRow{},
	}
}

// Users repo de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Roles repo de roles.
func (s *Store) Roles() *RoleRepo { return &RoleRepo{s: s} }

// Shops repo de tiendas.
func (s *Store) Shops() *ShopRepo { return &ShopRepo{s: s} }

// Bills repo de facturas.
func (s *Store) Bills() *BillRepo { return &BillRepo{s: s} }

// Details repo de líneas.
func (s *Store) Details() *DetailRepo { return &DetailRepo{s: s} }

// RunBilling ejecuta fn serializado con las demás transacciones; restaura el estado si falla.
func (s *Store) RunBilling(ctx context.Context, fn func(
	bills repository.BillRepository,
	details repository.BillDetailRepository,
) error) error {
	return s.run(ctx, func() error { return fn(s.Bills(), s.Details()) })
}

// RunShops igual que RunBilling para el roster de tiendas.
func (s *Store) RunShops(ctx context.Context, fn func(shops repository.ShopRepository) error) error {
	return s.run(ctx, func() error { return fn(s.Shops()) })
}

func (s *Store) run(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	seq         int64
	users       map[int64]userRow
	roles       map[int64]roleRow
	shops       map[int64]shopRow
	assignments map[pair]assignmentRow
	bills       map[int64]billRow
	details     map[int64]detailRow
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		seq:         s.seq,
		users:       cloneMap(s.users),
		roles:       cloneMap(s.roles),
		shops:       cloneMap(s.shops),
		assignments: cloneMap(s.assignments),
		bills:       cloneMap(s.bills),
		details:     cloneMap(s.details),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = snap.seq
	s.users = snap.users
	s.roles = snap.roles
	s.shops = snap.shops
	s.assignments = snap.assignments
	s.bills = snap.bills
	s.details = snap.details
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ErrInjected error genérico para simular fallos de infraestructura.
var ErrInjected = errors.New("memstore: fallo inyectado")
