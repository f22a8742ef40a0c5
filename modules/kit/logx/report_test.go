package logx

import (
	"context"
	"errors"
	"testing"

	"Coordinator/modules/kit/errx"
	"Coordinator/modules/kit/tracex"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved() (*ZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewZapLogger(zap.New(core)), logs
}

func TestBuildErrorLog_能提取语义与栈(t *testing.T) {
	e := errx.ErrUnavailable.
		WithData("map_id", int64(3)).
		WithCause(errors.New("db down"))

	meta := BuildErrorLog(e)
	if meta.Error == "" || meta.Code == "" || meta.Msg == "" {
		t.Fatalf("期望 Error/Code/Msg 非空, got=%+v", meta)
	}
	if meta.Data == nil || meta.Data["map_id"] != int64(3) {
		t.Fatalf("期望 meta.Data 包含 map_id=3, got=%v", meta.Data)
	}
	if len(meta.CauseChain) == 0 {
		t.Fatalf("期望 meta.CauseChain 非空")
	}
	if meta.Origin == "" || meta.Stack == "" {
		t.Fatalf("期望带错误发生处栈 origin=%q stack=%q", meta.Origin, meta.Stack)
	}
}

func TestReportAccess_按biz_code分级(t *testing.T) {
	l, logs := newObserved()
	ctx := tracex.WithTraceID(context.Background(), "t-1")

	ReportAccess(ctx, l, "GET /maps", 0)
	ReportAccess(ctx, l, "GET /maps/:mapid", 3)
	ReportAccess(ctx, l, "POST /maps", 503)

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("期望 3 条访问日志, got=%d", len(entries))
	}
	want := []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, e := range entries {
		if e.Level != want[i] {
			t.Fatalf("第 %d 条日志级别不符: got=%v want=%v", i, e.Level, want[i])
		}
		if e.ContextMap()["trace_id"] != "t-1" {
			t.Fatalf("期望透传 trace_id, got=%v", e.ContextMap())
		}
	}
}

func TestReportSysError_nil错误不打印(t *testing.T) {
	l, logs := newObserved()
	ReportSysError(context.Background(), l, NewSysLog("noop", nil))
	if logs.Len() != 0 {
		t.Fatalf("期望 nil 错误不产生日志, got=%d", logs.Len())
	}

	ReportSysError(context.Background(), l, NewSysLog("catalog list", errx.ErrInternal.WithCause(errors.New("boom"))))
	if logs.Len() != 1 || logs.All()[0].ContextMap()["err_type"] != "sys" {
		t.Fatalf("期望一条 err_type=sys 的日志, got=%v", logs.All())
	}
}

func TestReportBiz_拼接reason与msg(t *testing.T) {
	l, logs := newObserved()
	ReportBiz(context.Background(), l, NewBizLog("selection change", "SESSION_INVALID", "会话无效"))
	if logs.Len() != 1 {
		t.Fatalf("期望 1 条日志, got=%d", logs.Len())
	}
	if got := logs.All()[0].Message; got != "selection change, reason:SESSION_INVALID, msg:会话无效" {
		t.Fatalf("unexpected msg: %q", got)
	}
}
