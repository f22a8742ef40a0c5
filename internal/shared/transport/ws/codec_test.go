package ws

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/gorilla/websocket"
)

func TestCodec_明文模式走文本帧(t *testing.T) {
	c := NewCodec(false)
	msgType, data, err := c.Encode(&RespBody{Seq: 1, Name: "selection.current", Msg: 3}, "")
	if err != nil {
		t.Fatalf("Encode err=%v", err)
	}
	if msgType != websocket.TextMessage {
		t.Fatalf("期望文本帧, got=%d", msgType)
	}
	plain, err := c.Decode(data, "")
	if err != nil {
		t.Fatalf("Decode err=%v", err)
	}
	var body RespBody
	if err := json.Unmarshal(plain, &body); err != nil || body.Seq != 1 {
		t.Fatalf("期望还原 seq=1, got=%+v err=%v", body, err)
	}
}

func TestCodec_加密模式往返(t *testing.T) {
	c := NewCodec(true)
	key := "0123456789abcdef"
	msgType, data, err := c.Encode(&ReqBody{Seq: 9, Name: "selection.change", Msg: map[string]any{"selectedMap": -1}}, key)
	if err != nil {
		t.Fatalf("Encode err=%v", err)
	}
	if msgType != websocket.BinaryMessage {
		t.Fatalf("期望二进制帧, got=%d", msgType)
	}
	plain, err := c.Decode(data, key)
	if err != nil {
		t.Fatalf("Decode err=%v", err)
	}
	var body ReqBody
	if err := json.Unmarshal(plain, &body); err != nil {
		t.Fatalf("unmarshal err=%v plain=%q", err, plain)
	}
	if body.Seq != 9 || body.Name != "selection.change" {
		t.Fatalf("期望还原原请求, got=%+v", body)
	}
}

func TestCodec_加密模式缺少密钥(t *testing.T) {
	c := NewCodec(true)
	if _, _, err := c.Encode(&RespBody{}, ""); !errors.Is(err, ErrSecretKeyMissing) {
		t.Fatalf("期望 ErrSecretKeyMissing, got=%v", err)
	}
}

func TestCodec_握手帧只压缩不加密(t *testing.T) {
	c := NewCodec(true)
	_, data, err := c.EncodeHandshake(&RespBody{Name: HandshakeMsg, Msg: &Handshake{Key: "k"}})
	if err != nil {
		t.Fatalf("EncodeHandshake err=%v", err)
	}
	plain, err := c.DecodeHandshake(data)
	if err != nil {
		t.Fatalf("DecodeHandshake err=%v", err)
	}
	var body struct {
		Name string    `json:"name"`
		Msg  Handshake `json:"msg"`
	}
	if err := json.Unmarshal(plain, &body); err != nil || body.Msg.Key != "k" {
		t.Fatalf("期望拿到握手 key, got=%+v err=%v", body, err)
	}
}
