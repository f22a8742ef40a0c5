package domain

import "Coordinator/modules/kit/errx"

type Code = errx.Code

const (
	CodeSessionNotFound Code = "SELECTION_SESSION_NOT_FOUND"
)

// ErrSessionNotFound 会话从未打开或已被释放，Store 已不存在。
var ErrSessionNotFound = errx.NewBiz(CodeSessionNotFound, "")
