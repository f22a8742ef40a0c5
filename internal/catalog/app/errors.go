package app

import (
	"errors"

	"Coordinator/modules/kit/errx"
)

// Code 应用层错误码，对外语义。
type Code = errx.Code

const (
	CodeMapNotExist        Code = "MAP_NOT_EXIST"
	CodeCoordinateNotExist Code = "COORDINATE_NOT_EXIST"
	CodeInvalidParam       Code = "CATALOG_INVALID_PARAM"
	CodeUnavailable        Code = errx.CodeUnavailable
	CodeInternalServer     Code = errx.CodeInternal
)

type Error = errx.Error

// 常用错误定义（哨兵错误）：禁止直接修改其 data/cause（通过 WithData/WithCause 派生新对象）。
var (
	ErrMapNotExist        = errx.NewBiz(CodeMapNotExist, "地图不存在")
	ErrCoordinateNotExist = errx.NewBiz(CodeCoordinateNotExist, "坐标不存在")
	ErrInvalidParam       = errx.NewBiz(CodeInvalidParam, "参数有误")
	ErrUnavailable        = errx.ErrUnavailable
	ErrInternalServer     = errx.ErrInternal
)

// IsBizError 业务拒绝（不打栈，INFO 级别）。
func IsBizError(err error) bool {
	var e *errx.Error
	if !errors.As(err, &e) {
		return false
	}
	return !e.IsSys()
}

func GetErrorReasonCode(err error) string {
	var rp interface{ Reason() string }
	if !errors.As(err, &rp) {
		return ""
	}
	return rp.Reason()
}

func GetErrorMessage(err error) string {
	var mp interface{ Msg() string }
	if !errors.As(err, &mp) {
		return ""
	}
	return mp.Msg()
}
