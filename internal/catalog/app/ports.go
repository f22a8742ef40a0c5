package app

import (
	"context"
	"time"

	"Coordinator/internal/catalog/domain"
)

// MapRepo 找不到时返回 domain.ErrMapNotFound，技术错误返回 domain.ErrSystemUnavailable 派生。
type MapRepo interface {
	CreateMap(ctx context.Context, m *domain.Map) (int64, error)
	ListMaps(ctx context.Context) ([]*domain.Map, error)
	GetMap(ctx context.Context, id int64) (*domain.Map, error)
	UpdateMap(ctx context.Context, m *domain.Map) error
	// DeleteMap 同一事务内先删坐标再删地图。
	DeleteMap(ctx context.Context, id int64) error
	CountMaps(ctx context.Context) (int64, error)
}

// CoordinateRepo 找不到时返回 domain.ErrCoordinateNotFound；所属地图不存在返回 domain.ErrMapNotFound。
type CoordinateRepo interface {
	AddCoordinate(ctx context.Context, c *domain.Coordinate) (int64, error)
	// ListCoordinates 按创建时间倒序，同一时间按 id 倒序。
	ListCoordinates(ctx context.Context, mapID int64) ([]*domain.Coordinate, error)
	UpdateCoordinate(ctx context.Context, c *domain.Coordinate) error
	DeleteCoordinate(ctx context.Context, id int64) error
}

type Repository interface {
	MapRepo
	CoordinateRepo
}

type Clock func() time.Time
