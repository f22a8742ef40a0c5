package logx

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// BizLog 业务拒绝，例如会话失效、地图不存在。
type BizLog struct {
	Action  string
	Reason  string
	Message string
}

// SysLog 技术错误，例如存储不可用、actor 超时。
type SysLog struct {
	Action string
	Err    error
}

func NewBizLog(action, reason, message string) BizLog {
	return BizLog{Action: action, Reason: reason, Message: message}
}

func NewSysLog(action string, err error) SysLog {
	return SysLog{Action: action, Err: err}
}

// ReportAccess 每个请求一条：biz_code 0 记 INFO，1~499 记 WARN，>=500 记 ERROR。
func ReportAccess(ctx context.Context, l Logger, action string, bizCode int, fields ...zap.Field) {
	if l == nil {
		return
	}
	log := l.WithContext(ctx).With(
		zap.String("log_type", "access"),
		zap.String("action", action),
		zap.Int("biz_code", bizCode),
	)
	switch {
	case bizCode == 0:
		log.Info("access", fields...)
	case bizCode >= 500:
		log.Error("access", fields...)
	default:
		log.Warn("access", fields...)
	}
}

// ReportBiz 业务拒绝是预期内的结果，记 INFO，不带栈。
func ReportBiz(ctx context.Context, l Logger, biz BizLog, fields ...zap.Field) {
	if l == nil {
		return
	}
	action := orDefault(biz.Action, "biz_reject")
	base := []zap.Field{zap.String("err_type", "biz"), zap.String("action", action)}
	if biz.Reason != "" {
		base = append(base, zap.String("reason", biz.Reason))
	}
	if biz.Message != "" {
		base = append(base, zap.String("biz_message", biz.Message))
	}
	msg := joinMsg(action, "reason", biz.Reason, "msg", biz.Message)
	l.WithContext(ctx).Info(msg, append(base, fields...)...)
}

// ReportSysError 记 ERROR，展开错误码、cause 链和发生处的栈。
func ReportSysError(ctx context.Context, l Logger, sys SysLog, fields ...zap.Field) {
	if sys.Err == nil || l == nil {
		return
	}
	action := orDefault(sys.Action, "sys_error")
	meta := BuildErrorLog(sys.Err)

	base := []zap.Field{zap.String("err_type", "sys"), zap.String("action", action)}
	optional := []struct {
		ok    bool
		field zap.Field
	}{
		{meta.Code != "", zap.String("error_code", meta.Code)},
		{len(meta.CauseChain) != 0, zap.Strings("cause_chain", meta.CauseChain)},
		{len(meta.Data) != 0, zap.Any("error_data", meta.Data)},
		{meta.Origin != "", zap.String("origin_caller", meta.Origin)},
		{meta.Stack != "", zap.String("stack_origin", meta.Stack)},
	}
	for _, o := range optional {
		if o.ok {
			base = append(base, o.field)
		}
	}

	var msg string
	if meta.Reason != "" {
		msg = joinMsg(action, "reason", meta.Reason, "error", meta.Error)
	} else {
		msg = joinMsg(action, "error", meta.Error, "msg", meta.Msg)
	}
	l.WithContext(ctx).Error(msg, append(base, fields...)...)
}

// joinMsg 拼成 "action, k1:v1, k2:v2"，空值跳过。
func joinMsg(action string, kv ...string) string {
	var b strings.Builder
	b.WriteString(action)
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		b.WriteString(", ")
		b.WriteString(kv[i])
		b.WriteString(":")
		b.WriteString(kv[i+1])
	}
	return b.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
