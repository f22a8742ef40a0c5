package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 客户端业务码：HTTP 与 WS 共用，0 表示成功。
const (
	OK                 = 0
	InvalidParam       = 1 // 参数有误
	SessionInvalid     = 2 // 会话不存在、已释放或 token 无效
	MapNotExist        = 3
	CoordinateNotExist = 4

	SystemError        = 500
	StorageUnavailable = 503
	RequestTimeout     = 504
)
