package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/inventario-lab/internal/domain"
	"github.com/jhoicas/inventario-lab/internal/domain/entity"
	"github.com/jhoicas/inventario-lab/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementación en memoria del almacén de alertas.
type AlertRepo struct {
	s *Store
}

func (r *AlertRepo) Create(_ context.Context, a *entity.Alert) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.insertLocked(a)
	return nil
}

func (r *AlertRepo) CreateIfAbsent(_ context.Context, a *entity.Alert, key repository.DedupKey, since time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.existsLocked(key, since) {
		return false, nil
	}
	r.insertLocked(a)
	return true, nil
}

func (r *AlertRepo) ExistsSince(_ context.Context, key repository.DedupKey, since time.Time) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.existsLocked(key, since), nil
}

func (r *AlertRepo) GetByID(_ context.Context, id string) (*entity.Alert, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.alerts[id]
	if !ok {
		return nil, nil
	}
	return r.viewLocked(a), nil
}

func (r *AlertRepo) Find(_ context.Context, f repository.AlertFilter) ([]*entity.Alert, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Alert
	for _, a := range r.s.alerts {
		if matches(a, f) {
			list = append(list, r.viewLocked(a))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return r.s.alertSeq[list[i].ID] > r.s.alertSeq[list[j].ID]
	})
	return list, nil
}

func (r *AlertRepo) MarkRead(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.alerts[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.MarkRead(at)
	return nil
}

func (r *AlertRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.alerts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.alerts, id)
	delete(r.s.alertSeq, id)
	return nil
}

func (r *AlertRepo) CountUnread(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, a := range r.s.alerts {
		if !a.Read {
			n++
		}
	}
	return n, nil
}

func (r *AlertRepo) CountUnreadByPriority(_ context.Context) (map[entity.Priority]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[entity.Priority]int)
	for _, a := range r.s.alerts {
		if !a.Read {
			out[a.Priority]++
		}
	}
	return out, nil
}

func (r *AlertRepo) CountByType(_ context.Context) (map[entity.AlertType]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[entity.AlertType]int)
	for _, a := range r.s.alerts {
		out[a.Type]++
	}
	return out, nil
}

func (r *AlertRepo) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.alerts), nil
}

func (r *AlertRepo) DeleteReadOlderThan(_ context.Context, before time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, a := range r.s.alerts {
		if a.Read && a.CreatedAt.Before(before) {
			delete(r.s.alerts, id)
			delete(r.s.alertSeq, id)
			n++
		}
	}
	return n, nil
}

func (r *AlertRepo) insertLocked(a *entity.Alert) {
	cp := *a
	r.s.seq++
	r.s.alerts[a.ID] = &cp
	r.s.alertSeq[a.ID] = r.s.seq
}

func (r *AlertRepo) existsLocked(key repository.DedupKey, since time.Time) bool {
	for _, a := range r.s.alerts {
		if a.Type != key.Type || !a.CreatedAt.After(since) {
			continue
		}
		if key.LotID != "" && a.LotID != nil && *a.LotID == key.LotID {
			return true
		}
		if key.LotID == "" && key.ItemID != "" && a.ItemID != nil && *a.ItemID == key.ItemID {
			return true
		}
	}
	return false
}

// viewLocked copia la alerta y resuelve los campos de lectura de insumo y lote.
func (r *AlertRepo) viewLocked(a *entity.Alert) *entity.Alert {
	cp := *a
	if a.ItemID != nil {
		if it, ok := r.s.items[*a.ItemID]; ok {
			cp.ItemName = it.Name
			cp.ItemCode = it.Code
		}
	}
	if a.LotID != nil {
		if l, ok := r.s.lots[*a.LotID]; ok {
			cp.LotNumber = l.Number
		}
	}
	return &cp
}

func matches(a *entity.Alert, f repository.AlertFilter) bool {
	if f.Read != nil && a.Read != *f.Read {
		return false
	}
	if f.Type != "" && a.Type != f.Type {
		return false
	}
	if len(f.Priorities) > 0 {
		ok := false
		for _, p := range f.Priorities {
			if a.Priority == p {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.ItemID != "" && (a.ItemID == nil || *a.ItemID != f.ItemID) {
		return false
	}
	if f.LotID != "" && (a.LotID == nil || *a.LotID != f.LotID) {
		return false
	}
	if f.Since != nil && a.CreatedAt.Before(*f.Since) {
		return false
	}
	if f.Until != nil && !a.CreatedAt.Before(*f.Until) {
		return false
	}
	return true
}
