package domain

import (
	"strings"
	"time"
)

// Map 地图：一组坐标点的容器，版本号由使用方自行约定。
type Map struct {
	ID          int64
	Name        string
	Version     string
	CreatedAt   time.Time
	Coordinates []*Coordinate
}

type Coordinate struct {
	ID        int64
	MapID     int64
	Name      string
	X         float64
	Y         float64
	Z         float64
	CreatedAt time.Time
}

func NewMap(name, version string, now time.Time) (*Map, error) {
	m := &Map{CreatedAt: now}
	if err := m.Rename(name, version); err != nil {
		return nil, err
	}
	return m, nil
}

// Rename 修改名称与版本，两者都不能为空。
func (m *Map) Rename(name, version string) error {
	name, version = strings.TrimSpace(name), strings.TrimSpace(version)
	if name == "" || version == "" {
		return ErrInvalidMap.WithData("name", name).WithData("version", version)
	}
	m.Name = name
	m.Version = version
	return nil
}

func NewCoordinate(mapID int64, name string, x, y, z float64, now time.Time) (*Coordinate, error) {
	c := &Coordinate{MapID: mapID, CreatedAt: now}
	if err := c.Move(name, x, y, z); err != nil {
		return nil, err
	}
	return c, nil
}

// Move 修改名称与坐标值。
func (c *Coordinate) Move(name string, x, y, z float64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidCoordinate.WithData("map_id", c.MapID)
	}
	c.Name = name
	c.X, c.Y, c.Z = x, y, z
	return nil
}
