package security

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-think/openssl"
	"github.com/klauspost/compress/gzip"
)

// AesCBCEncrypt key 长度必须是 16/24/32。
func AesCBCEncrypt(src, key, iv []byte, padding string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	return openssl.AesCBCEncrypt(src, key, iv, padding)
}

func AesCBCDecrypt(src, key, iv []byte, padding string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	if len(src) == 0 || len(src)%len(key) != 0 {
		return nil, fmt.Errorf("aes cbc: ciphertext length %d is not a multiple of block size", len(src))
	}
	out, err := openssl.AesCBCDecrypt(src, key, iv, padding)
	if err != nil {
		return nil, err
	}
	if padding == openssl.ZEROS_PADDING {
		// ZEROS_PADDING 解密后尾部可能残留 \x00
		out = bytes.TrimRight(out, "\x00")
	}
	return out, nil
}

func checkKey(key []byte) error {
	switch len(key) {
	case 16, 24, 32:
		return nil
	default:
		return fmt.Errorf("aes: invalid key size %d", len(key))
	}
}

// Zip gzip 压缩。
func Zip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnZip gzip 解压。
func UnZip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
