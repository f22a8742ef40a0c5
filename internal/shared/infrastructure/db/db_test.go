package db

import (
	"testing"

	"Coordinator/internal/shared/config"
)

func TestDSN(t *testing.T) {
	cfg := config.MySQLConfig{Host: "127.0.0.1", Port: 3306, User: "root", Password: "pw", DBName: "coordinator"}
	want := "root:pw@tcp(127.0.0.1:3306)/coordinator?charset=utf8mb4&parseTime=True&loc=UTC"
	if got := DSN(cfg); got != want {
		t.Fatalf("期望 %s, got=%s", want, got)
	}

	cfg.Charset = "utf8"
	if got := DSN(cfg); got != "root:pw@tcp(127.0.0.1:3306)/coordinator?charset=utf8&parseTime=True&loc=UTC" {
		t.Fatalf("期望使用配置的 charset, got=%s", got)
	}
}
