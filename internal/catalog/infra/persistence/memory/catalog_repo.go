package memory

import (
	"context"
	"sort"
	"sync"

	"Coordinator/internal/catalog/domain"
)

// CatalogRepo 进程内存储，storage.driver=memory 与测试使用。
type CatalogRepo struct {
	mu          sync.RWMutex
	maps        map[int64]*domain.Map
	coords      map[int64]*domain.Coordinate
	nextMapID   int64
	nextCoordID int64
}

func NewCatalogRepo() *CatalogRepo {
	return &CatalogRepo{
		maps:   make(map[int64]*domain.Map),
		coords: make(map[int64]*domain.Coordinate),
	}
}

func (r *CatalogRepo) CreateMap(ctx context.Context, m *domain.Map) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextMapID++
	cp := *m
	cp.ID = r.nextMapID
	cp.Coordinates = nil
	r.maps[cp.ID] = &cp
	return cp.ID, nil
}

func (r *CatalogRepo) ListMaps(ctx context.Context) ([]*domain.Map, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Map, 0, len(r.maps))
	for _, m := range r.maps {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CatalogRepo) GetMap(ctx context.Context, id int64) (*domain.Map, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.maps[id]
	if !ok {
		return nil, domain.ErrMapNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *CatalogRepo) UpdateMap(ctx context.Context, m *domain.Map) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.maps[m.ID]
	if !ok {
		return domain.ErrMapNotFound
	}
	cur.Name, cur.Version = m.Name, m.Version
	return nil
}

func (r *CatalogRepo) DeleteMap(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.maps[id]; !ok {
		return domain.ErrMapNotFound
	}
	for cid, c := range r.coords {
		if c.MapID == id {
			delete(r.coords, cid)
		}
	}
	delete(r.maps, id)
	return nil
}

func (r *CatalogRepo) CountMaps(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.maps)), nil
}

func (r *CatalogRepo) AddCoordinate(ctx context.Context, c *domain.Coordinate) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.maps[c.MapID]; !ok {
		return 0, domain.ErrMapNotFound
	}
	r.nextCoordID++
	cp := *c
	cp.ID = r.nextCoordID
	r.coords[cp.ID] = &cp
	return cp.ID, nil
}

func (r *CatalogRepo) ListCoordinates(ctx context.Context, mapID int64) ([]*domain.Coordinate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Coordinate, 0)
	for _, c := range r.coords {
		if c.MapID == mapID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *CatalogRepo) UpdateCoordinate(ctx context.Context, c *domain.Coordinate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.coords[c.ID]
	if !ok {
		return domain.ErrCoordinateNotFound
	}
	cur.Name = c.Name
	cur.X, cur.Y, cur.Z = c.X, c.Y, c.Z
	return nil
}

func (r *CatalogRepo) DeleteCoordinate(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.coords[id]; !ok {
		return domain.ErrCoordinateNotFound
	}
	delete(r.coords, id)
	return nil
}

func (r *CatalogRepo) Close() error { return nil }
