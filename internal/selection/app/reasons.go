package app

type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{Code: c, Message: m}
}

var (
	ReasonTokenInvalid    = NewReason("TOKEN_INVALID", "token 无效或已过期")
	ReasonSessionReleased = NewReason("SESSION_RELEASED", "会话已释放")
	ReasonWatchKeyMissing = NewReason("WATCH_KEY_MISSING", "订阅标识不能为空")
)

var (
	ReasonTokenIssueFail = NewReason("TOKEN_ISSUE_FAIL", "token 签发失败")
	ReasonRuntimeFail    = NewReason("SELECTION_RUNTIME_FAIL", "选中地图运行时异常")
	ReasonRuntimeTimeout = NewReason("SELECTION_RUNTIME_TIMEOUT", "选中地图运行时超时")
)
