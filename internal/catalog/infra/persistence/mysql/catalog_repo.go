package mysql

import (
	"context"
	"errors"

	"Coordinator/internal/catalog/domain"
	"Coordinator/internal/catalog/infra/persistence/model"

	"gorm.io/gorm"
)

const (
	OpMigrate          = "repo.catalog.mysql.Migrate"
	OpCreateMap        = "repo.catalog.mysql.CreateMap"
	OpListMaps         = "repo.catalog.mysql.ListMaps"
	OpGetMap           = "repo.catalog.mysql.GetMap"
	OpUpdateMap        = "repo.catalog.mysql.UpdateMap"
	OpDeleteMap        = "repo.catalog.mysql.DeleteMap"
	OpCountMaps        = "repo.catalog.mysql.CountMaps"
	OpAddCoordinate    = "repo.catalog.mysql.AddCoordinate"
	OpListCoordinates  = "repo.catalog.mysql.ListCoordinates"
	OpUpdateCoordinate = "repo.catalog.mysql.UpdateCoordinate"
	OpDeleteCoordinate = "repo.catalog.mysql.DeleteCoordinate"
)

type CatalogRepo struct {
	db *gorm.DB
}

func NewCatalogRepo(db *gorm.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) WithTx(tx *gorm.DB) *CatalogRepo {
	return &CatalogRepo{db: tx}
}

// Migrate 建表（AutoMigrate 只增不删）。
func (r *CatalogRepo) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&model.MapModel{}, &model.CoordinateModel{}); err != nil {
		return domain.Unavailable(OpMigrate, err, nil)
	}
	return nil
}

func (r *CatalogRepo) CreateMap(ctx context.Context, m *domain.Map) (int64, error) {
	row := &model.MapModel{Name: m.Name, Version: m.Version, CreatedAt: m.CreatedAt}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return 0, domain.Unavailable(OpCreateMap, err, map[string]any{"name": m.Name})
	}
	return row.ID, nil
}

func (r *CatalogRepo) ListMaps(ctx context.Context) ([]*domain.Map, error) {
	var rows []model.MapModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, domain.Unavailable(OpListMaps, err, nil)
	}
	out := make([]*domain.Map, 0, len(rows))
	for i := range rows {
		out = append(out, model.MapModelToDomain(&rows[i]))
	}
	return out, nil
}

func (r *CatalogRepo) GetMap(ctx context.Context, id int64) (*domain.Map, error) {
	var row model.MapModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	switch {
	case err == nil:
		return model.MapModelToDomain(&row), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, domain.ErrMapNotFound
	default:
		return nil, domain.Unavailable(OpGetMap, err, map[string]any{"map_id": id})
	}
}

func (r *CatalogRepo) UpdateMap(ctx context.Context, m *domain.Map) error {
	// MySQL 的 RowsAffected 不统计值未变化的行，存在性单独判断
	if _, err := r.GetMap(ctx, m.ID); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Model(&model.MapModel{}).Where("id = ?", m.ID).
		Updates(map[string]any{"name": m.Name, "version": m.Version}).Error
	if err != nil {
		return domain.Unavailable(OpUpdateMap, err, map[string]any{"map_id": m.ID})
	}
	return nil
}

func (r *CatalogRepo) DeleteMap(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("mapid = ?", id).Delete(&model.CoordinateModel{}).Error; err != nil {
			return domain.Unavailable(OpDeleteMap, err, map[string]any{"map_id": id})
		}
		res := tx.Where("id = ?", id).Delete(&model.MapModel{})
		if res.Error != nil {
			return domain.Unavailable(OpDeleteMap, res.Error, map[string]any{"map_id": id})
		}
		if res.RowsAffected == 0 {
			return domain.ErrMapNotFound
		}
		return nil
	})
}

func (r *CatalogRepo) CountMaps(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.MapModel{}).Count(&n).Error; err != nil {
		return 0, domain.Unavailable(OpCountMaps, err, nil)
	}
	return n, nil
}

func (r *CatalogRepo) AddCoordinate(ctx context.Context, c *domain.Coordinate) (int64, error) {
	if _, err := r.GetMap(ctx, c.MapID); err != nil {
		return 0, err
	}
	row := &model.CoordinateModel{
		Name: c.Name, CreatedAt: c.CreatedAt,
		XValue: c.X, YValue: c.Y, ZValue: c.Z,
		MapID: c.MapID,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return 0, domain.Unavailable(OpAddCoordinate, err, map[string]any{"map_id": c.MapID})
	}
	return row.ID, nil
}

func (r *CatalogRepo) ListCoordinates(ctx context.Context, mapID int64) ([]*domain.Coordinate, error) {
	var rows []model.CoordinateModel
	err := r.db.WithContext(ctx).Where("mapid = ?", mapID).
		Order("created_at DESC").Order("id DESC").Find(&rows).Error
	if err != nil {
		return nil, domain.Unavailable(OpListCoordinates, err, map[string]any{"map_id": mapID})
	}
	out := make([]*domain.Coordinate, 0, len(rows))
	for i := range rows {
		out = append(out, model.CoordinateModelToDomain(&rows[i]))
	}
	return out, nil
}

func (r *CatalogRepo) UpdateCoordinate(ctx context.Context, c *domain.Coordinate) error {
	var row model.CoordinateModel
	err := r.db.WithContext(ctx).Select("id").Where("id = ?", c.ID).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrCoordinateNotFound
	case err != nil:
		return domain.Unavailable(OpUpdateCoordinate, err, map[string]any{"coord_id": c.ID})
	}
	err = r.db.WithContext(ctx).Model(&model.CoordinateModel{}).Where("id = ?", c.ID).
		Updates(map[string]any{"name": c.Name, "xvalue": c.X, "yvalue": c.Y, "zvalue": c.Z}).Error
	if err != nil {
		return domain.Unavailable(OpUpdateCoordinate, err, map[string]any{"coord_id": c.ID})
	}
	return nil
}

func (r *CatalogRepo) DeleteCoordinate(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.CoordinateModel{})
	if res.Error != nil {
		return domain.Unavailable(OpDeleteCoordinate, res.Error, map[string]any{"coord_id": id})
	}
	if res.RowsAffected == 0 {
		return domain.ErrCoordinateNotFound
	}
	return nil
}

func (r *CatalogRepo) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
