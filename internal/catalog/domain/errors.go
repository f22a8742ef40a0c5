package domain

import "Coordinator/modules/kit/errx"

// Code 表示领域错误码。
//
// 约定：
// - 领域层只关心“是什么错”（code）以及“业务上下文”（data）
// - cause 仅用于溯源/日志，不参与对外语义
type Code = errx.Code

const (
	CodeMapNotFound        Code = "CATALOG_MAP_NOT_FOUND"
	CodeCoordinateNotFound Code = "CATALOG_COORDINATE_NOT_FOUND"
	CodeInvalidMap         Code = "CATALOG_INVALID_MAP"
	CodeInvalidCoordinate  Code = "CATALOG_INVALID_COORDINATE"
	// CodeSystemUnavailable 复用 kit 的统一系统码。
	CodeSystemUnavailable Code = errx.CodeUnavailable
)

type Error = errx.Error

func NewError(code Code, data map[string]any, cause error) *Error {
	base := newByCodeKind(code)
	if data != nil {
		base = base.WithDataMap(data)
	}
	if cause != nil {
		base = base.WithCause(cause)
	}
	return base
}

var (
	ErrMapNotFound        = errx.NewBiz(CodeMapNotFound, "")
	ErrCoordinateNotFound = errx.NewBiz(CodeCoordinateNotFound, "")
	ErrInvalidMap         = errx.NewBiz(CodeInvalidMap, "")
	ErrInvalidCoordinate  = errx.NewBiz(CodeInvalidCoordinate, "")
	ErrSystemUnavailable  = errx.ErrUnavailable
)

func newByCodeKind(code Code) *Error {
	switch code {
	case CodeSystemUnavailable:
		return errx.ErrUnavailable
	default:
		return errx.NewBiz(code, "")
	}
}

// Unavailable 存储层技术错误统一从这里包装。
func Unavailable(op string, cause error, data map[string]any) *Error {
	d := map[string]any{"op": op}
	for k, v := range data {
		d[k] = v
	}
	return NewError(CodeSystemUnavailable, d, cause)
}
