package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewMap_名称版本必填(t *testing.T) {
	now := time.Now()
	if _, err := NewMap("  ", "v1", now); !errors.Is(err, ErrInvalidMap) {
		t.Fatalf("期望空名称返回 ErrInvalidMap, got=%v", err)
	}
	if _, err := NewMap("Erangel", "", now); !errors.Is(err, ErrInvalidMap) {
		t.Fatalf("期望空版本返回 ErrInvalidMap, got=%v", err)
	}
	m, err := NewMap(" Erangel ", " 1.0 ", now)
	if err != nil {
		t.Fatalf("NewMap err=%v", err)
	}
	if m.Name != "Erangel" || m.Version != "1.0" || !m.CreatedAt.Equal(now) {
		t.Fatalf("期望去掉首尾空白并记录创建时间, got=%+v", m)
	}
}

func TestCoordinate_Move(t *testing.T) {
	c, err := NewCoordinate(1, "spawn", 1, 2, 3, time.Now())
	if err != nil {
		t.Fatalf("NewCoordinate err=%v", err)
	}
	if err := c.Move("", 0, 0, 0); !errors.Is(err, ErrInvalidCoordinate) {
		t.Fatalf("期望空名称返回 ErrInvalidCoordinate, got=%v", err)
	}
	if c.Name != "spawn" || c.X != 1 {
		t.Fatalf("期望校验失败时不修改原值, got=%+v", c)
	}
	if err := c.Move("bridge", -1.5, 0, 9); err != nil || c.X != -1.5 || c.Z != 9 {
		t.Fatalf("期望移动成功, got=%+v err=%v", c, err)
	}
}

func TestUnavailable_系统错误带op与cause(t *testing.T) {
	cause := errors.New("disk full")
	err := Unavailable("repo.catalog.CreateMap", cause, map[string]any{"name": "x"})
	if !errors.Is(err, ErrSystemUnavailable) {
		t.Fatalf("期望按 code 命中 ErrSystemUnavailable")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("期望保留 cause 链")
	}
	if err.Data()["op"] != "repo.catalog.CreateMap" || err.Data()["name"] != "x" {
		t.Fatalf("期望 data 带 op 与上下文, got=%v", err.Data())
	}
	if !err.IsSys() || len(err.Stack()) == 0 {
		t.Fatalf("期望系统错误捕获栈")
	}
}
