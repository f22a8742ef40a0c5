package dto

// Response HTTP/WS 统一响应包：{"code":0,"msg":...,"data":...}
type Response struct {
	Code int `json:"code"`
	Msg  any `json:"msg"`
	Data any `json:"data"`
}

func Success(code int, data any) Response {
	return Response{Code: code, Msg: "ok", Data: data}
}

func Error(code int, msg string) Response {
	return Response{Code: code, Msg: msg}
}
