package dto

import (
	"time"

	"Coordinator/internal/catalog/domain"
)

type MapReq struct {
	Name    string `json:"name" binding:"required"`
	Version string `json:"version" binding:"required"`
}

type CoordinateReq struct {
	Name   string  `json:"name" binding:"required"`
	XValue float64 `json:"xValue"`
	YValue float64 `json:"yValue"`
	ZValue float64 `json:"zValue"`
}

type IDResp struct {
	ID int64 `json:"id"`
}

type MapResp struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Version     string           `json:"version"`
	CreatedAt   time.Time        `json:"createdAt"`
	Coordinates []CoordinateResp `json:"coordinates,omitempty"`
}

type CoordinateResp struct {
	ID        int64     `json:"id"`
	MapID     int64     `json:"mapId"`
	Name      string    `json:"name"`
	XValue    float64   `json:"xValue"`
	YValue    float64   `json:"yValue"`
	ZValue    float64   `json:"zValue"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToMapResp(m *domain.Map) MapResp {
	resp := MapResp{ID: m.ID, Name: m.Name, Version: m.Version, CreatedAt: m.CreatedAt}
	if len(m.Coordinates) > 0 {
		resp.Coordinates = ToCoordinateResps(m.Coordinates)
	}
	return resp
}

func ToMapResps(maps []*domain.Map) []MapResp {
	out := make([]MapResp, 0, len(maps))
	for _, m := range maps {
		out = append(out, ToMapResp(m))
	}
	return out
}

func ToCoordinateResps(coords []*domain.Coordinate) []CoordinateResp {
	out := make([]CoordinateResp, 0, len(coords))
	for _, c := range coords {
		out = append(out, CoordinateResp{
			ID: c.ID, MapID: c.MapID, Name: c.Name,
			XValue: c.X, YValue: c.Y, ZValue: c.Z,
			CreatedAt: c.CreatedAt,
		})
	}
	return out
}
