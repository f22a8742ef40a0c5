package errx

// 跨上下文统一的系统类错误码。
//
// 约束：
// - 这里只放“技术/系统类”错误码，用于告警与排障时归一化
// - 业务错误码（例如 CATALOG_MAP_NOT_FOUND）由各上下文自己的 domain/app 层定义

const (
	// CodeInternal 服务内部不可预期错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 依赖不可用（存储、actor 系统、网络等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout 请求或依赖调用超时。
	CodeTimeout Code = "TIMEOUT"
	// CodeReqParamError 请求参数错误。
	CodeReqParamError Code = "REQ_PARAM_ERROR"
)

// 系统类哨兵错误：只读，派生请走 WithData/WithCause。
var (
	ErrInternal    = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout     = NewSys(CodeTimeout, "请求超时")
	ErrReqParam    = NewSys(CodeReqParamError, "请求参数错误")
)
