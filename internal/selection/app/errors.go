package app

import (
	"errors"

	"Coordinator/modules/kit/errx"
)

type Code = errx.Code

const (
	CodeSessionInvalid Code = "SESSION_INVALID"
	CodeInvalidParam   Code = "SELECTION_INVALID_PARAM"
)

var (
	ErrSessionInvalid = errx.NewBiz(CodeSessionInvalid, "会话无效，请重新打开会话")
	ErrInvalidParam   = errx.NewBiz(CodeInvalidParam, "参数有误")
	ErrUnavailable    = errx.ErrUnavailable
	ErrTimeout        = errx.ErrTimeout
	ErrInternalServer = errx.ErrInternal
)

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
