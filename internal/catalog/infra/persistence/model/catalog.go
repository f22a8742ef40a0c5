package model

import (
	"time"

	"Coordinator/internal/catalog/domain"
)

// MapModel maps 表（GORM）。
type MapModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	Version   string    `gorm:"column:version;type:varchar(64);not null"`
}

func (MapModel) TableName() string { return "maps" }

// CoordinateModel coordinates 表（GORM）。
type CoordinateModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_coordinates_map_created,priority:2,sort:desc"`
	XValue    float64   `gorm:"column:xvalue;not null"`
	YValue    float64   `gorm:"column:yvalue;not null"`
	ZValue    float64   `gorm:"column:zvalue;not null"`
	MapID     int64     `gorm:"column:mapid;not null;index:idx_coordinates_map_created,priority:1"`
}

func (CoordinateModel) TableName() string { return "coordinates" }

// MapDoc maps 集合（MongoDB）。
type MapDoc struct {
	ID        int64     `bson:"_id"`
	Name      string    `bson:"name"`
	Version   string    `bson:"version"`
	CreatedAt time.Time `bson:"created_at"`
}

// CoordinateDoc coordinates 集合（MongoDB）。
type CoordinateDoc struct {
	ID        int64     `bson:"_id"`
	MapID     int64     `bson:"mapid"`
	Name      string    `bson:"name"`
	XValue    float64   `bson:"xvalue"`
	YValue    float64   `bson:"yvalue"`
	ZValue    float64   `bson:"zvalue"`
	CreatedAt time.Time `bson:"created_at"`
}

func MapModelToDomain(m *MapModel) *domain.Map {
	return &domain.Map{ID: m.ID, Name: m.Name, Version: m.Version, CreatedAt: m.CreatedAt}
}

func CoordinateModelToDomain(m *CoordinateModel) *domain.Coordinate {
	return &domain.Coordinate{
		ID: m.ID, MapID: m.MapID, Name: m.Name,
		X: m.XValue, Y: m.YValue, Z: m.ZValue,
		CreatedAt: m.CreatedAt,
	}
}

func MapDocToDomain(d *MapDoc) *domain.Map {
	return &domain.Map{ID: d.ID, Name: d.Name, Version: d.Version, CreatedAt: d.CreatedAt}
}

func CoordinateDocToDomain(d *CoordinateDoc) *domain.Coordinate {
	return &domain.Coordinate{
		ID: d.ID, MapID: d.MapID, Name: d.Name,
		X: d.XValue, Y: d.YValue, Z: d.ZValue,
		CreatedAt: d.CreatedAt,
	}
}
