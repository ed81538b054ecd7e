package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-lab/internal/domain/entity"
	"github.com/jhoicas/inventario-lab/internal/domain/repository"
)

// Store almacenamiento en memoria para desarrollo local y pruebas.
// Un único mutex protege todas las colecciones para poder resolver los joins de lectura
// (nombre de insumo en lotes, salidas y alertas) sin bloqueos cruzados.
type Store struct {
	mu          sync.RWMutex
	txMu        sync.Mutex
	items       map[string]*entity.Item
	lots        map[string]*entity.Lot
	withdrawals []*entity.Withdrawal
	alerts      map[string]*entity.Alert
	seq         int64 // orden de inserción de alertas, desempata created_at
	alertSeq    map[string]int64
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		items:    make(map[string]*entity.Item),
		lots:     make(map[string]*entity.Lot),
		alerts:   make(map[string]*entity.Alert),
		alertSeq: make(map[string]int64),
	}
}

// Items repositorio de insumos sobre el store.
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }

// Lots repositorio de lotes sobre el store.
func (s *Store) Lots() *LotRepo { return &LotRepo{s: s} }

// Withdrawals repositorio de salidas sobre el store.
func (s *Store) Withdrawals() *WithdrawalRepo { return &WithdrawalRepo{s: s} }

// Alerts repositorio de alertas sobre el store.
func (s *Store) Alerts() *AlertRepo { return &AlertRepo{s: s} }

// TxRunner ejecuta fn de forma serializada; si fn falla se restaura el estado previo.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ver TxRunner.
func (r *TxRunner) Run(ctx context.Context, fn func(
	items repository.ItemRepository,
	lots repository.LotRepository,
	withdrawals repository.WithdrawalRepository,
) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	snap := r.s.snapshot()
	if err := fn(r.s.Items(), r.s.Lots(), r.s.Withdrawals()); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	items       map[string]entity.Item
	lots        map[string]entity.Lot
	withdrawals int
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		items:       make(map[string]entity.Item, len(s.items)),
		lots:        make(map[string]entity.Lot, len(s.lots)),
		withdrawals: len(s.withdrawals),
	}
	for id, it := range s.items {
		snap.items[id] = *it
	}
	for id, l := range s.lots {
		snap.lots[id] = *l
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]*entity.Item, len(snap.items))
	for id, it := range snap.items {
		s.items[id] = &it
	}
	s.lots = make(map[string]*entity.Lot, len(snap.lots))
	for id, l := range snap.lots {
		s.lots[id] = &l
	}
	s.withdrawals = s.withdrawals[:snap.withdrawals]
}

func (s *Store) itemName(id string) string {
	if it, ok := s.items[id]; ok {
		return it.Name
	}
	return ""
}
