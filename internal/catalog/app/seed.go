package app

import (
	"context"

	"Coordinator/internal/catalog/domain"
)

// SeedMap 启动导入用的地图描述。
type SeedMap struct {
	Name        string           `yaml:"name"`
	Version     string           `yaml:"version"`
	Coordinates []SeedCoordinate `yaml:"coordinates"`
}

type SeedCoordinate struct {
	Name string  `yaml:"name"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Z    float64 `yaml:"z"`
}

// ImportIfEmpty 只在库里一张地图都没有时导入，返回导入的地图数。
func (s *CatalogService) ImportIfEmpty(ctx context.Context, seeds []SeedMap) (int, error) {
	if len(seeds) == 0 {
		return 0, nil
	}
	n, err := s.repo.CountMaps(ctx)
	if err != nil {
		return 0, ErrUnavailable.WithReason(ReasonSeedImportFail).WithCause(err)
	}
	if n > 0 {
		return 0, nil
	}

	// 先整体校验，避免导入一半
	for i, sm := range seeds {
		if _, err := domain.NewMap(sm.Name, sm.Version, s.now()); err != nil {
			return 0, ErrInvalidParam.WithReason(ReasonMapFieldsRequired).WithData("index", i).WithCause(err)
		}
		for j, sc := range sm.Coordinates {
			if _, err := domain.NewCoordinate(0, sc.Name, sc.X, sc.Y, sc.Z, s.now()); err != nil {
				return 0, ErrInvalidParam.WithReason(ReasonCoordNameRequired).
					WithDataMap(map[string]any{"index": i, "coord_index": j}).WithCause(err)
			}
		}
	}

	imported := 0
	for _, sm := range seeds {
		mapID, err := s.CreateMap(ctx, sm.Name, sm.Version)
		if err != nil {
			return imported, err
		}
		for _, sc := range sm.Coordinates {
			if _, err := s.AddCoordinate(ctx, mapID, sc.Name, sc.X, sc.Y, sc.Z); err != nil {
				return imported, err
			}
		}
		imported++
	}
	return imported, nil
}
