package app

import (
	"context"
	"errors"
	"time"

	"Coordinator/internal/catalog/domain"
)

type CatalogService struct {
	repo Repository
	now  Clock
}

func NewCatalogService(repo Repository, now Clock) *CatalogService {
	if now == nil {
		now = time.Now
	}
	return &CatalogService{repo: repo, now: now}
}

func (s *CatalogService) CreateMap(ctx context.Context, name, version string) (int64, error) {
	m, err := domain.NewMap(name, version, s.now())
	if err != nil {
		return 0, ErrInvalidParam.WithReason(ReasonMapFieldsRequired).WithCause(err)
	}
	id, err := s.repo.CreateMap(ctx, m)
	if err != nil {
		return 0, ErrUnavailable.WithReason(ReasonMapRepoUnavailable).WithCause(err)
	}
	return id, nil
}

// ListMaps 不带坐标，按 id 升序。
func (s *CatalogService) ListMaps(ctx context.Context) ([]*domain.Map, error) {
	maps, err := s.repo.ListMaps(ctx)
	if err != nil {
		return nil, ErrUnavailable.WithReason(ReasonMapRepoUnavailable).WithCause(err)
	}
	return maps, nil
}

// GetMap 返回地图及其全部坐标。
func (s *CatalogService) GetMap(ctx context.Context, id int64) (*domain.Map, error) {
	m, err := s.loadMap(ctx, id)
	if err != nil {
		return nil, err
	}
	coords, err := s.repo.ListCoordinates(ctx, id)
	if err != nil {
		return nil, s.coordErr(err, id, 0)
	}
	m.Coordinates = coords
	return m, nil
}

func (s *CatalogService) EditMap(ctx context.Context, id int64, name, version string) error {
	m, err := s.loadMap(ctx, id)
	if err != nil {
		return err
	}
	if err := m.Rename(name, version); err != nil {
		return ErrInvalidParam.WithReason(ReasonMapFieldsRequired).WithData("map_id", id).WithCause(err)
	}
	if err := s.repo.UpdateMap(ctx, m); err != nil {
		return s.mapErr(err, id)
	}
	return nil
}

func (s *CatalogService) DeleteMap(ctx context.Context, id int64) error {
	if err := s.repo.DeleteMap(ctx, id); err != nil {
		return s.mapErr(err, id)
	}
	return nil
}

func (s *CatalogService) AddCoordinate(ctx context.Context, mapID int64, name string, x, y, z float64) (int64, error) {
	c, err := domain.NewCoordinate(mapID, name, x, y, z, s.now())
	if err != nil {
		return 0, ErrInvalidParam.WithReason(ReasonCoordNameRequired).WithData("map_id", mapID).WithCause(err)
	}
	id, err := s.repo.AddCoordinate(ctx, c)
	if err != nil {
		return 0, s.coordErr(err, mapID, 0)
	}
	return id, nil
}

// ListCoordinates 最新的在前。
func (s *CatalogService) ListCoordinates(ctx context.Context, mapID int64) ([]*domain.Coordinate, error) {
	if _, err := s.loadMap(ctx, mapID); err != nil {
		return nil, err
	}
	coords, err := s.repo.ListCoordinates(ctx, mapID)
	if err != nil {
		return nil, s.coordErr(err, mapID, 0)
	}
	return coords, nil
}

func (s *CatalogService) EditCoordinate(ctx context.Context, id int64, name string, x, y, z float64) error {
	c := &domain.Coordinate{ID: id}
	if err := c.Move(name, x, y, z); err != nil {
		return ErrInvalidParam.WithReason(ReasonCoordNameRequired).WithData("coord_id", id).WithCause(err)
	}
	if err := s.repo.UpdateCoordinate(ctx, c); err != nil {
		return s.coordErr(err, 0, id)
	}
	return nil
}

func (s *CatalogService) DeleteCoordinate(ctx context.Context, id int64) error {
	if err := s.repo.DeleteCoordinate(ctx, id); err != nil {
		return s.coordErr(err, 0, id)
	}
	return nil
}

func (s *CatalogService) loadMap(ctx context.Context, id int64) (*domain.Map, error) {
	m, err := s.repo.GetMap(ctx, id)
	if err != nil {
		return nil, s.mapErr(err, id)
	}
	return m, nil
}

func (s *CatalogService) mapErr(err error, mapID int64) error {
	if errors.Is(err, domain.ErrMapNotFound) {
		return ErrMapNotExist.WithReason(ReasonMapNotFound).WithData("map_id", mapID)
	}
	return ErrUnavailable.WithReason(ReasonMapRepoUnavailable).WithData("map_id", mapID).WithCause(err)
}

func (s *CatalogService) coordErr(err error, mapID, coordID int64) error {
	switch {
	case errors.Is(err, domain.ErrMapNotFound):
		return ErrMapNotExist.WithReason(ReasonMapNotFound).WithData("map_id", mapID)
	case errors.Is(err, domain.ErrCoordinateNotFound):
		return ErrCoordinateNotExist.WithReason(ReasonCoordinateNotFound).WithData("coord_id", coordID)
	default:
		return ErrUnavailable.WithReason(ReasonCoordRepoUnavailable).
			WithDataMap(map[string]any{"map_id": mapID, "coord_id": coordID}).WithCause(err)
	}
}
