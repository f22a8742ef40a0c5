package ws

import (
	"bytes"
	"encoding/json"
	"errors"
)

// 保留的消息名与连接属性 key。
const (
	HandshakeMsg = "handshake"
	HeartbeatMsg = "heartbeat"

	SecretKey  = "secretKey"
	ConnKeySID = "sid"
)

var ErrEmptyMsg = errors.New("ws request msg is empty")

// ReqBody 客户端请求帧；Name 形如 "selection.change"。
type ReqBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Msg  any    `json:"msg"`
}

// RespBody 回包沿用请求的 seq 和 name，服务端推送的 seq 为 0。
type RespBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Code int    `json:"code"`
	Msg  any    `json:"msg"`
}

type WsMsgReq struct {
	Body *ReqBody
	Conn WSConn
}

type WsMsgResp struct {
	Body *RespBody
}

// Bind 把 Msg 解到 dst，数字按 json.Number 透传，int64 不丢精度。
func (r *WsMsgReq) Bind(dst any) error {
	if r == nil || r.Body == nil || r.Body.Msg == nil {
		return ErrEmptyMsg
	}
	raw, err := json.Marshal(r.Body.Msg)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(dst)
}

// WSConn handler 看到的连接。
type WSConn interface {
	SetProperty(key string, value any)
	GetProperty(key string) any
	RemoveProperty(key string)
	Addr() string
	// Push 不阻塞：连接已关闭或发送队列满时丢弃并返回 false。
	Push(name string, data any) bool
	Close()
	// Done 连接关闭时被 close。
	Done() <-chan struct{}
}

type Handshake struct {
	Key string `json:"key"`
}

type Heartbeat struct {
	CTime int64 `json:"ctime" mapstructure:"ctime"`
	STime int64 `json:"stime" mapstructure:"stime"`
}

// decodeReq 请求帧里的数字保留为 json.Number。
func decodeReq(plain []byte) (*ReqBody, error) {
	dec := json.NewDecoder(bytes.NewReader(plain))
	dec.UseNumber()
	body := &ReqBody{}
	if err := dec.Decode(body); err != nil {
		return nil, err
	}
	return body, nil
}
