package errx

import (
	"errors"
	"fmt"
	"maps"
	"runtime"
	"slices"
)

// Code 错误码，对外语义的稳定标识。
type Code string

type kind uint8

const (
	kindBiz kind = iota
	kindSys
)

// Reason 只暴露 reason code 的最小接口。
type Reason interface {
	ReasonCode() string
}

// Error 通用错误模型：
// - code/msg：对外语义
// - data：上下文，构造与派生时都会复制
// - cause：原始错误链，只用于溯源
// - stack：系统类错误第一次挂 cause 时捕获，只捕获一次
type Error struct {
	code  Code
	msg   string
	data  map[string]any
	cause error
	stack []uintptr
	kind  kind
}

// NewBiz 业务类错误，永远不捕获栈。
func NewBiz(code Code, msg string) *Error {
	return &Error{code: code, msg: msg, kind: kindBiz}
}

// NewSys 系统类错误。
func NewSys(code Code, msg string) *Error {
	return &Error{code: code, msg: msg, kind: kindSys}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.msg == "" && e.cause == nil:
		return string(e.code)
	case e.msg == "":
		return fmt.Sprintf("%s: %v", e.code, e.cause)
	case e.cause == nil:
		return fmt.Sprintf("%s: %s", e.code, e.msg)
	default:
		return fmt.Sprintf("%s: %s: %v", e.code, e.msg, e.cause)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is 只按 code 判断语义是否相同，忽略 msg/data/cause。
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	return e.code == t.code
}

func (e *Error) Code() Code {
	if e == nil {
		return ""
	}
	return e.code
}

func (e *Error) CodeText() string {
	return string(e.Code())
}

func (e *Error) Msg() string {
	if e == nil {
		return ""
	}
	return e.msg
}

// IsSys 是否系统类错误。
func (e *Error) IsSys() bool {
	return e != nil && e.kind == kindSys
}

// Data 返回 data 的拷贝。
func (e *Error) Data() map[string]any {
	if e == nil {
		return nil
	}
	return maps.Clone(e.data)
}

// Reason 读取约定存放在 data["reason"] 的原因码。
func (e *Error) Reason() string {
	if e == nil || e.data == nil {
		return ""
	}
	s, _ := e.data["reason"].(string)
	return s
}

// Stack 返回错误发生/转换处的调用栈拷贝。
func (e *Error) Stack() []uintptr {
	if e == nil || len(e.stack) == 0 {
		return nil
	}
	return slices.Clone(e.stack)
}

func (e *Error) WithData(key string, value any) *Error {
	return e.WithDataMap(map[string]any{key: value})
}

// WithDataMap 合并进 data，同名 key 覆盖。
func (e *Error) WithDataMap(data map[string]any) *Error {
	next := e.clone()
	if len(data) == 0 {
		return next
	}
	if next.data == nil {
		next.data = make(map[string]any, len(data))
	}
	maps.Copy(next.data, data)
	return next
}

// WithReason 等价于 WithData("reason", reason.ReasonCode())。
func (e *Error) WithReason(reason Reason) *Error {
	if reason == nil {
		return e.WithData("reason", "")
	}
	return e.WithData("reason", reason.ReasonCode())
}

// WithMsg 替换对外 msg，其余保持不变。
func (e *Error) WithMsg(msg string) *Error {
	next := e.clone()
	next.msg = msg
	return next
}

func (e *Error) WithCause(cause error) *Error {
	next := e.clone()
	next.cause = cause
	// 下层已经带栈时不重复捕获
	if next.kind == kindSys && cause != nil && len(next.stack) == 0 && !hasStackInChain(cause) {
		next.stack = captureStack(3)
	}
	return next
}

func (e *Error) clone() *Error {
	next := *e
	next.data = maps.Clone(e.data)
	next.stack = slices.Clone(e.stack)
	return &next
}

// As 取出链上第一个 *Error。
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

// CodeOf 链上没有 *Error 时返回空。
func CodeOf(err error) Code {
	if e, ok := As(err); ok {
		return e.code
	}
	return ""
}

func captureStack(skip int) []uintptr {
	const maxDepth = 64
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(skip, pcs)
	if n <= 0 {
		return nil
	}
	return pcs[:n]
}

func hasStackInChain(err error) bool {
	const maxDepth = 32
	for i := 0; i < maxDepth && err != nil; i++ {
		if sp, ok := err.(interface{ Stack() []uintptr }); ok && len(sp.Stack()) != 0 {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
