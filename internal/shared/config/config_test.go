package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConf(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.yml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write conf: %v", err)
	}
	return path
}

func TestLoad_读取文件并补默认值(t *testing.T) {
	path := writeConf(t, `
httpserver:
  port: 9100
storage:
  driver: memory
session:
  idle_release: 90s
log:
  level: debug
`)
	if err := Load(path); err != nil {
		t.Fatalf("Load err=%v", err)
	}
	c := Current()
	if c.HTTPServer.Port != 9100 {
		t.Fatalf("期望 httpserver.port=9100, got=%d", c.HTTPServer.Port)
	}
	if c.HTTPServer.Host != "0.0.0.0" {
		t.Fatalf("期望默认 host=0.0.0.0, got=%q", c.HTTPServer.Host)
	}
	if c.Storage.Driver != "memory" {
		t.Fatalf("期望 storage.driver=memory, got=%q", c.Storage.Driver)
	}
	if c.Session.IdleRelease != 90*time.Second {
		t.Fatalf("期望 idle_release=90s, got=%v", c.Session.IdleRelease)
	}
	if c.Session.TokenTTL != 7*24*time.Hour {
		t.Fatalf("期望默认 token_ttl=168h, got=%v", c.Session.TokenTTL)
	}
	if c.Selection.AskTimeout != 3*time.Second {
		t.Fatalf("期望默认 ask_timeout=3s, got=%v", c.Selection.AskTimeout)
	}
}

func TestLoad_环境变量优先(t *testing.T) {
	t.Setenv("COORDINATOR_STORAGE_DRIVER", "mongodb")
	path := writeConf(t, "storage:\n  driver: sqlite\n")
	if err := Load(path); err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if got := Current().Storage.Driver; got != "mongodb" {
		t.Fatalf("期望环境变量覆盖为 mongodb, got=%q", got)
	}
}

func TestLoad_文件不存在返回错误(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatalf("期望文件不存在时返回错误")
	}
}

func TestOnChange_store触发回调(t *testing.T) {
	got := make(chan string, 1)
	OnChange(func(c Config) {
		select {
		case got <- c.Log.Level:
		default:
		}
	})
	store(Config{Log: LogConfig{Level: "warn"}})
	if lvl := <-got; lvl != "warn" {
		t.Fatalf("期望回调收到 warn, got=%q", lvl)
	}
}

func TestFindConfigUpward(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "configs"), 0o755); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, defaultConfigRelPath)
	if err := os.WriteFile(want, []byte("log:\n  level: info\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	deep := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}
	got, err := findConfigUpward(deep)
	if err != nil || got != want {
		t.Fatalf("期望向上找到 %s, got=%s err=%v", want, got, err)
	}
}
