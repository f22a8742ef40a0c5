// Package repotest 各存储实现共用的仓储契约测试。
package repotest

import (
	"context"
	"errors"
	"testing"
	"time"

	"Coordinator/internal/catalog/app"
	"Coordinator/internal/catalog/domain"
)

// Run 对 newRepo 返回的空仓储跑完整契约。
func Run(t *testing.T, newRepo func(t *testing.T) app.Repository) {
	t.Helper()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	t.Run("地图增查改删", func(t *testing.T) {
		ctx := context.Background()
		r := newRepo(t)

		id, err := r.CreateMap(ctx, &domain.Map{Name: "Erangel", Version: "1.0", CreatedAt: base})
		if err != nil {
			t.Fatalf("CreateMap err=%v", err)
		}
		m, err := r.GetMap(ctx, id)
		if err != nil {
			t.Fatalf("GetMap err=%v", err)
		}
		if m.Name != "Erangel" || m.Version != "1.0" || !m.CreatedAt.Equal(base) {
			t.Fatalf("期望读回写入的地图, got=%+v", m)
		}

		m.Name, m.Version = "Miramar", "2.0"
		if err := r.UpdateMap(ctx, m); err != nil {
			t.Fatalf("UpdateMap err=%v", err)
		}
		// 值不变时再次更新也要成功
		if err := r.UpdateMap(ctx, m); err != nil {
			t.Fatalf("UpdateMap 同值 err=%v", err)
		}
		got, _ := r.GetMap(ctx, id)
		if got.Name != "Miramar" || got.Version != "2.0" {
			t.Fatalf("期望更新生效, got=%+v", got)
		}

		if n, err := r.CountMaps(ctx); err != nil || n != 1 {
			t.Fatalf("期望 CountMaps=1, got=%d err=%v", n, err)
		}
		if err := r.DeleteMap(ctx, id); err != nil {
			t.Fatalf("DeleteMap err=%v", err)
		}
		if _, err := r.GetMap(ctx, id); !errors.Is(err, domain.ErrMapNotFound) {
			t.Fatalf("期望删除后 ErrMapNotFound, got=%v", err)
		}
	})

	t.Run("不存在的地图", func(t *testing.T) {
		ctx := context.Background()
		r := newRepo(t)
		if err := r.UpdateMap(ctx, &domain.Map{ID: 404, Name: "x", Version: "y"}); !errors.Is(err, domain.ErrMapNotFound) {
			t.Fatalf("UpdateMap 期望 ErrMapNotFound, got=%v", err)
		}
		if err := r.DeleteMap(ctx, 404); !errors.Is(err, domain.ErrMapNotFound) {
			t.Fatalf("DeleteMap 期望 ErrMapNotFound, got=%v", err)
		}
		if _, err := r.AddCoordinate(ctx, &domain.Coordinate{MapID: 404, Name: "c", CreatedAt: base}); !errors.Is(err, domain.ErrMapNotFound) {
			t.Fatalf("AddCoordinate 期望 ErrMapNotFound, got=%v", err)
		}
	})

	t.Run("地图按id升序", func(t *testing.T) {
		ctx := context.Background()
		r := newRepo(t)
		var ids []int64
		for i, name := range []string{"a", "b", "c"} {
			id, err := r.CreateMap(ctx, &domain.Map{Name: name, Version: "v", CreatedAt: base.Add(time.Duration(-i) * time.Hour)})
			if err != nil {
				t.Fatalf("CreateMap err=%v", err)
			}
			ids = append(ids, id)
		}
		maps, err := r.ListMaps(ctx)
		if err != nil {
			t.Fatalf("ListMaps err=%v", err)
		}
		if len(maps) != 3 {
			t.Fatalf("期望 3 张地图, got=%d", len(maps))
		}
		for i := range maps {
			if maps[i].ID != ids[i] {
				t.Fatalf("期望按 id 升序, got=%v", maps)
			}
		}
	})

	t.Run("坐标最新在前且随地图级联删除", func(t *testing.T) {
		ctx := context.Background()
		r := newRepo(t)
		mapID, _ := r.CreateMap(ctx, &domain.Map{Name: "m", Version: "v", CreatedAt: base})
		otherID, _ := r.CreateMap(ctx, &domain.Map{Name: "o", Version: "v", CreatedAt: base})

		old, _ := r.AddCoordinate(ctx, &domain.Coordinate{MapID: mapID, Name: "old", X: 1, Y: 2, Z: 3, CreatedAt: base})
		tieA, _ := r.AddCoordinate(ctx, &domain.Coordinate{MapID: mapID, Name: "tieA", CreatedAt: base.Add(time.Minute)})
		tieB, _ := r.AddCoordinate(ctx, &domain.Coordinate{MapID: mapID, Name: "tieB", CreatedAt: base.Add(time.Minute)})
		if _, err := r.AddCoordinate(ctx, &domain.Coordinate{MapID: otherID, Name: "keep", CreatedAt: base}); err != nil {
			t.Fatalf("AddCoordinate err=%v", err)
		}

		coords, err := r.ListCoordinates(ctx, mapID)
		if err != nil {
			t.Fatalf("ListCoordinates err=%v", err)
		}
		want := []int64{tieB, tieA, old}
		if len(coords) != len(want) {
			t.Fatalf("期望 %d 个坐标, got=%d", len(want), len(coords))
		}
		for i, c := range coords {
			if c.ID != want[i] {
				t.Fatalf("期望顺序 %v, got 第 %d 个=%d", want, i, c.ID)
			}
		}
		if coords[2].X != 1 || coords[2].Y != 2 || coords[2].Z != 3 || coords[2].MapID != mapID {
			t.Fatalf("期望坐标值完整读回, got=%+v", coords[2])
		}

		if err := r.DeleteMap(ctx, mapID); err != nil {
			t.Fatalf("DeleteMap err=%v", err)
		}
		left, _ := r.ListCoordinates(ctx, mapID)
		if len(left) != 0 {
			t.Fatalf("期望地图删除后坐标一并删除, got=%d", len(left))
		}
		kept, _ := r.ListCoordinates(ctx, otherID)
		if len(kept) != 1 {
			t.Fatalf("期望其他地图的坐标不受影响, got=%d", len(kept))
		}
	})

	t.Run("坐标改删", func(t *testing.T) {
		ctx := context.Background()
		r := newRepo(t)
		mapID, _ := r.CreateMap(ctx, &domain.Map{Name: "m", Version: "v", CreatedAt: base})
		id, _ := r.AddCoordinate(ctx, &domain.Coordinate{MapID: mapID, Name: "a", CreatedAt: base})

		if err := r.UpdateCoordinate(ctx, &domain.Coordinate{ID: id, Name: "b", X: 7, Y: 8, Z: 9}); err != nil {
			t.Fatalf("UpdateCoordinate err=%v", err)
		}
		coords, _ := r.ListCoordinates(ctx, mapID)
		if len(coords) != 1 || coords[0].Name != "b" || coords[0].Z != 9 {
			t.Fatalf("期望更新生效, got=%+v", coords)
		}
		if err := r.UpdateCoordinate(ctx, &domain.Coordinate{ID: 404, Name: "x"}); !errors.Is(err, domain.ErrCoordinateNotFound) {
			t.Fatalf("期望 ErrCoordinateNotFound, got=%v", err)
		}
		if err := r.DeleteCoordinate(ctx, id); err != nil {
			t.Fatalf("DeleteCoordinate err=%v", err)
		}
		if err := r.DeleteCoordinate(ctx, id); !errors.Is(err, domain.ErrCoordinateNotFound) {
			t.Fatalf("期望重复删除 ErrCoordinateNotFound, got=%v", err)
		}
	})
}
