package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Coordinator/internal/catalog/app"
	"Coordinator/internal/catalog/infra/persistence/memory"
	"Coordinator/internal/catalog/interfaces/handler"
	"Coordinator/internal/shared/transport"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	Code int             `json:"code"`
	Msg  any             `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := app.NewCatalogService(memory.NewCatalogRepo(), time.Now)
	r := gin.New()
	handler.NewHttpHandler(svc, nil).RegisterRoutes(r.Group(""))
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) envelope {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body err=%v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 HTTP 200, got=%d body=%s", w.Code, w.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("响应不是合法 JSON: %v body=%s", err, w.Body.String())
	}
	return env
}

func TestHttpHandler_地图与坐标流程(t *testing.T) {
	r := newRouter(t)

	if env := do(t, r, http.MethodGet, "/ping", nil); env.Code != transport.OK {
		t.Fatalf("期望 ping 成功, got=%+v", env)
	}

	env := do(t, r, http.MethodPost, "/maps", map[string]string{"name": "Miramar", "version": "1.0"})
	if env.Code != transport.OK {
		t.Fatalf("期望创建地图成功, got=%+v", env)
	}
	var created struct{ ID int64 }
	_ = json.Unmarshal(env.Data, &created)
	if created.ID == 0 {
		t.Fatalf("期望返回地图 id, got=%s", env.Data)
	}
	mapPath := "/maps/" + itoa(created.ID)

	env = do(t, r, http.MethodPost, mapPath+"/coordinates", map[string]any{"name": "spawn", "xValue": 1.5, "yValue": 2, "zValue": -3})
	if env.Code != transport.OK {
		t.Fatalf("期望添加坐标成功, got=%+v", env)
	}
	var coord struct{ ID int64 }
	_ = json.Unmarshal(env.Data, &coord)

	env = do(t, r, http.MethodGet, mapPath+"/coordinates", nil)
	var coords []struct {
		Name   string
		XValue float64 `json:"xValue"`
		ZValue float64 `json:"zValue"`
	}
	_ = json.Unmarshal(env.Data, &coords)
	if len(coords) != 1 || coords[0].Name != "spawn" || coords[0].XValue != 1.5 || coords[0].ZValue != -3 {
		t.Fatalf("期望一个坐标, got=%s", env.Data)
	}

	env = do(t, r, http.MethodPut, "/coordinates/"+itoa(coord.ID), map[string]any{"name": "drop", "xValue": 9})
	if env.Code != transport.OK {
		t.Fatalf("期望编辑坐标成功, got=%+v", env)
	}

	env = do(t, r, http.MethodPut, mapPath, map[string]string{"name": "Miramar", "version": "2.0"})
	if env.Code != transport.OK {
		t.Fatalf("期望编辑地图成功, got=%+v", env)
	}
	env = do(t, r, http.MethodGet, mapPath, nil)
	var m struct {
		Version     string
		Coordinates []struct{ Name string }
	}
	_ = json.Unmarshal(env.Data, &m)
	if m.Version != "2.0" || len(m.Coordinates) != 1 || m.Coordinates[0].Name != "drop" {
		t.Fatalf("期望地图带编辑后的坐标, got=%s", env.Data)
	}

	if env := do(t, r, http.MethodDelete, mapPath, nil); env.Code != transport.OK {
		t.Fatalf("期望删除地图成功, got=%+v", env)
	}
	if env := do(t, r, http.MethodGet, mapPath, nil); env.Code != transport.MapNotExist {
		t.Fatalf("期望删除后 MapNotExist, got=%+v", env)
	}
}

func TestHttpHandler_错误码映射(t *testing.T) {
	r := newRouter(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"非数字地图id", http.MethodGet, "/maps/abc", nil, transport.InvalidParam},
		{"非数字坐标id", http.MethodDelete, "/coordinates/x1", nil, transport.InvalidParam},
		{"缺少version", http.MethodPost, "/maps", map[string]string{"name": "a"}, transport.InvalidParam},
		{"名称只有空白", http.MethodPost, "/maps", map[string]string{"name": " ", "version": "1"}, transport.InvalidParam},
		{"地图不存在", http.MethodPut, "/maps/42", map[string]string{"name": "a", "version": "1"}, transport.MapNotExist},
		{"给不存在的地图加坐标", http.MethodPost, "/maps/42/coordinates", map[string]any{"name": "p"}, transport.MapNotExist},
		{"坐标不存在", http.MethodDelete, "/coordinates/7", nil, transport.CoordinateNotExist},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := do(t, r, tc.method, tc.path, tc.body)
			if env.Code != tc.want {
				t.Fatalf("期望 code=%d, got=%+v", tc.want, env)
			}
		})
	}
}

func itoa(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
