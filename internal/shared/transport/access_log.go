package transport

import (
	"context"
	"sync"
	"time"

	"Coordinator/modules/kit/logx"
	"Coordinator/modules/kit/tracex"

	"go.uber.org/zap"
)

const spanName = "coordinator"

// AccessLog 一次请求（HTTP、WS 或 gRPC）的访问记录，随 ctx 传递，结束时落一条 access 日志。
type AccessLog struct {
	BizCode     BizCode
	ErrorReason string

	mu      sync.Mutex
	bizSet  bool
	started time.Time
	action  string
	fields  []zap.Field
}

type accessLogKey struct{}

func NewContext(action string) context.Context {
	return NewContextWithParent(context.Background(), action)
}

// NewContextWithParent 保留 parent 的取消信号与 trace_id，没有 trace_id 时生成一个。
// 业务码默认 SystemError，handler 没写回包时不会被记成成功。
func NewContextWithParent(parent context.Context, action string) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	ctx := tracex.Ensure(parent)
	ctx = tracex.WithSpanID(ctx, spanName)
	return context.WithValue(ctx, accessLogKey{}, &AccessLog{
		BizCode: BizCode(SystemError),
		started: time.Now(),
		action:  action,
	})
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

// Action 例如 "PUT /selection"、"WS selection.change"。
func Action(ctx context.Context) string {
	if al := FromContext(ctx); al != nil {
		return al.action
	}
	return ""
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.mu.Lock()
		al.BizCode = code
		al.bizSet = true
		al.mu.Unlock()
	}
}

// BizCodeSet handler 是否显式写过业务码。
func BizCodeSet(ctx context.Context) bool {
	al := FromContext(ctx)
	if al == nil {
		return false
	}
	al.mu.Lock()
	defer al.mu.Unlock()
	return al.bizSet
}

func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.mu.Lock()
		al.ErrorReason = reason
		al.mu.Unlock()
	}
}

// AddFields 追加到 access 日志上的字段，例如 sid、seq、对端地址。
func AddFields(ctx context.Context, fields ...zap.Field) {
	if len(fields) == 0 {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.mu.Lock()
		al.fields = append(al.fields, fields...)
		al.mu.Unlock()
	}
}

// WriteAccessLog 在请求结束时调用一次。
func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}

	al.mu.Lock()
	code, reason := al.BizCode, al.ErrorReason
	fields := make([]zap.Field, 0, len(al.fields)+3)
	fields = append(fields, zap.Duration("latency", time.Since(al.started)))
	fields = append(fields, al.fields...)
	al.mu.Unlock()

	if code == BizCode(OK) {
		fields = append(fields, zap.String("result", "success"))
	} else {
		fields = append(fields, zap.String("result", "failure"))
		if reason != "" {
			fields = append(fields, zap.String("error_reason", reason))
		}
	}
	logx.ReportAccess(ctx, log, al.action, int(code), fields...)
}
