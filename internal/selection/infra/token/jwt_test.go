package token

import (
	"testing"
	"time"
)

func TestJWT_签发后解析出sid(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	j := NewJWT(time.Hour)

	tok, err := j.Issue(123456789)
	if err != nil {
		t.Fatalf("Issue err=%v", err)
	}
	sid, err := j.Parse(tok)
	if err != nil || sid != 123456789 {
		t.Fatalf("期望 sid=123456789, got=%d err=%v", sid, err)
	}
}

func TestJWT_无效token(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	j := NewJWT(time.Hour)

	if _, err := j.Parse("not-a-token"); err == nil {
		t.Fatalf("期望解析失败")
	}

	tok, _ := j.Issue(0)
	if _, err := j.Parse(tok); err != ErrMissingSID {
		t.Fatalf("期望 ErrMissingSID, got=%v", err)
	}

	other, _ := j.Issue(1)
	t.Setenv("JWT_SECRET", "rotated")
	if _, err := j.Parse(other); err == nil {
		t.Fatalf("期望换密钥后解析失败")
	}
}
