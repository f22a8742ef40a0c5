package logx

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"Coordinator/modules/kit/errx"
)

const (
	maxStackFrames = 32
	maxCauseDepth  = 20
)

// ErrorLog 一条技术错误在日志里展开后的字段。
type ErrorLog struct {
	Error      string
	Code       string
	Msg        string
	Reason     string
	Data       map[string]any
	CauseChain []string
	Origin     string
	Stack      string
}

// BuildErrorLog 语义字段取链上第一个 errx.Error，栈取链上第一个带栈的 errx.Error。
func BuildErrorLog(err error) ErrorLog {
	if err == nil {
		return ErrorLog{}
	}
	out := ErrorLog{Error: err.Error(), CauseChain: causeChain(err)}
	if e, ok := errx.As(err); ok {
		out.Code = e.CodeText()
		out.Msg = e.Msg()
		out.Reason = e.Reason()
		out.Data = e.Data()
	}
	out.Origin, out.Stack = originStack(err)
	return out
}

// originStack 上层系统错误不会重复捕获栈，栈可能挂在下层。
func originStack(err error) (string, string) {
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		e, ok := cur.(*errx.Error)
		if !ok {
			continue
		}
		if pcs := e.Stack(); len(pcs) != 0 {
			return formatFrames(pcs)
		}
	}
	return "", ""
}

func causeChain(err error) []string {
	var out []string
	cur := errors.Unwrap(err)
	for i := 0; i < maxCauseDepth && cur != nil; i++ {
		out = append(out, fmt.Sprintf("%T: %v", cur, cur))
		cur = errors.Unwrap(cur)
	}
	return out
}

func formatFrames(pcs []uintptr) (origin string, stack string) {
	frames := runtime.CallersFrames(pcs)
	lines := make([]string, 0, maxStackFrames)
	for len(lines) < maxStackFrames {
		f, more := frames.Next()
		if f.Function == "" && f.File == "" {
			break
		}
		lines = append(lines, fmt.Sprintf("%s %s:%d", f.Function, f.File, f.Line))
		if !more {
			break
		}
	}
	if len(lines) == 0 {
		return "", ""
	}
	return lines[0], strings.Join(lines, "\n")
}
