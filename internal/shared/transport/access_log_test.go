package transport

import (
	"context"
	"testing"

	"Coordinator/modules/kit/logx"
	"Coordinator/modules/kit/tracex"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewContextWithParent_默认系统错误且带trace(t *testing.T) {
	ctx := NewContext("GET /maps")
	al := FromContext(ctx)
	if al == nil {
		t.Fatalf("期望 ctx 中有 AccessLog")
	}
	if al.BizCode != BizCode(SystemError) {
		t.Fatalf("期望默认业务码为 SystemError, got=%d", al.BizCode)
	}
	if tid, ok := tracex.TraceIDFrom(ctx); !ok || tid == "" {
		t.Fatalf("期望生成 trace_id")
	}
	if sid, _ := tracex.SpanIDFrom(ctx); sid != spanName {
		t.Fatalf("期望 span_id=%s, got=%s", spanName, sid)
	}
}

func TestNewContextWithParent_保留上游trace(t *testing.T) {
	parent := tracex.WithTraceID(context.Background(), "upstream-trace")
	ctx := NewContextWithParent(parent, "WS selection.change")
	if tid, _ := tracex.TraceIDFrom(ctx); tid != "upstream-trace" {
		t.Fatalf("期望沿用上游 trace_id, got=%s", tid)
	}
}

func TestWriteAccessLog_按业务码分级(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := logx.NewZapLogger(zap.New(core))

	ok := NewContext("GET /ping")
	SetBizCode(ok, OK)
	WriteAccessLog(ok, l)

	bad := NewContext("PUT /selection")
	SetBizCode(bad, SessionInvalid)
	SetErrorReason(bad, "SESSION_NOT_FOUND")
	WriteAccessLog(bad, l)

	sys := NewContext("GET /maps")
	WriteAccessLog(sys, l)

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("期望 3 条 access 日志, got=%d", len(entries))
	}
	want := []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, e := range entries {
		if e.Level != want[i] {
			t.Fatalf("第 %d 条期望级别 %v, got=%v", i, want[i], e.Level)
		}
	}
	if got := entries[1].ContextMap()["error_reason"]; got != "SESSION_NOT_FOUND" {
		t.Fatalf("期望记录 error_reason, got=%v", got)
	}
}
