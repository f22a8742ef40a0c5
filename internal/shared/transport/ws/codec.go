package ws

import (
	"encoding/json"
	"errors"

	"Coordinator/internal/shared/security"

	"github.com/go-think/openssl"
	"github.com/gorilla/websocket"
)

var ErrSecretKeyMissing = errors.New("ws secret key missing")

// Codec 负责帧编解码，服务端与 wsprobe 共用：
// - 明文模式：JSON 文本帧
// - 加密模式：JSON -> AES-CBC(key=iv) -> gzip，二进制帧；握手帧只 gzip 不加密
type Codec struct {
	Secret bool
}

func NewCodec(secret bool) Codec {
	return Codec{Secret: secret}
}

// EncodeHandshake 编码握手帧，客户端拿到 key 后才能加密后续请求。
func (c Codec) EncodeHandshake(body *RespBody) (int, []byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, nil, err
	}
	if !c.Secret {
		return websocket.TextMessage, data, nil
	}
	zipped, err := security.Zip(data)
	if err != nil {
		return 0, nil, err
	}
	// 压缩后的是二进制字节流，必须走 BinaryMessage，不能走 TextMessage
	return websocket.BinaryMessage, zipped, nil
}

func (c Codec) Encode(body any, key string) (int, []byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, nil, err
	}
	if !c.Secret {
		return websocket.TextMessage, data, nil
	}
	if key == "" {
		return 0, nil, ErrSecretKeyMissing
	}
	encrypted, err := security.AesCBCEncrypt(data, []byte(key), []byte(key), openssl.ZEROS_PADDING)
	if err != nil {
		return 0, nil, err
	}
	zipped, err := security.Zip(encrypted)
	if err != nil {
		return 0, nil, err
	}
	return websocket.BinaryMessage, zipped, nil
}

// Decode 还原出 JSON 明文。
func (c Codec) Decode(data []byte, key string) ([]byte, error) {
	if !c.Secret {
		return data, nil
	}
	// 1.解压缩
	unzipped, err := security.UnZip(data)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, ErrSecretKeyMissing
	}
	// 2.解密
	return security.AesCBCDecrypt(unzipped, []byte(key), []byte(key), openssl.ZEROS_PADDING)
}

// DecodeHandshake 客户端侧解析握手帧。
func (c Codec) DecodeHandshake(data []byte) ([]byte, error) {
	if !c.Secret {
		return data, nil
	}
	return security.UnZip(data)
}
