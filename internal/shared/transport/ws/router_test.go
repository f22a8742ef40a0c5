package ws

import (
	"context"
	"testing"

	"Coordinator/internal/shared/transport"
)

type echoModule struct{}

func (echoModule) WsRegister(r *Router) {
	g := r.Group("echo")
	g.Handle("ok", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		resp.Body.Code = transport.OK
		resp.Body.Msg = req.Body.Msg
	})
	g.Handle("forget", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {})
}

func newResp(req *ReqBody) *WsMsgResp {
	return &WsMsgResp{Body: &RespBody{Seq: req.Seq, Name: req.Name, Msg: req.Msg}}
}

func TestRouter_Dispatch(t *testing.T) {
	r := NewRouter(nil)
	r.Register(echoModule{})

	cases := []struct {
		name     string
		route    string
		wantCode int
	}{
		{"正常分发", "echo.ok", transport.OK},
		{"handler 漏设 code 视为系统错误", "echo.forget", transport.SystemError},
		{"路由组不存在", "nope.ok", transport.InvalidParam},
		{"处理器不存在", "echo.nope", transport.InvalidParam},
		{"路由格式错误", "echo", transport.InvalidParam},
		{"多级路由", "echo.ok.more", transport.InvalidParam},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := &ReqBody{Seq: 7, Name: tc.route, Msg: "x"}
			resp := newResp(body)
			r.Dispatch(&WsMsgReq{Body: body}, resp)
			if resp.Body.Code != tc.wantCode {
				t.Fatalf("期望 code=%d, got=%d", tc.wantCode, resp.Body.Code)
			}
			if resp.Body.Seq != 7 {
				t.Fatalf("期望 seq 原样带回, got=%d", resp.Body.Seq)
			}
		})
	}
}

func TestRouter_Dispatch_空请求(t *testing.T) {
	r := NewRouter(nil)
	resp := &WsMsgResp{Body: &RespBody{}}
	r.Dispatch(nil, resp)
	if resp.Body.Code != transport.InvalidParam {
		t.Fatalf("期望 InvalidParam, got=%d", resp.Body.Code)
	}
}

func TestRouter_Dispatch_handlerPanic转系统错误(t *testing.T) {
	r := NewRouter(nil)
	r.Group("boom").Handle("now", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		resp.Body.Code = transport.OK
		panic("boom")
	})
	body := &ReqBody{Seq: 3, Name: "boom.now"}
	resp := newResp(body)
	r.Dispatch(&WsMsgReq{Body: body}, resp)
	if resp.Body.Code != transport.SystemError || resp.Body.Msg != nil {
		t.Fatalf("期望 panic 后回 SystemError, got=%+v", resp.Body)
	}
}

func TestRouter_注册(t *testing.T) {
	r := NewRouter(nil)
	r.Register(echoModule{})
	got := r.Routes()
	if len(got) != 2 || got[0] != "echo.forget" || got[1] != "echo.ok" {
		t.Fatalf("期望按字典序列出路由, got=%v", got)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("期望重复注册 panic")
		}
	}()
	r.Register(echoModule{})
}

func TestWsMsgReq_Bind_int64不丢精度(t *testing.T) {
	body, err := decodeReq([]byte(`{"seq":1,"name":"selection.change","msg":{"selectedMap":1234567890123456789}}`))
	if err != nil {
		t.Fatalf("decodeReq err=%v", err)
	}
	var dst struct {
		SelectedMap *int64 `json:"selectedMap"`
	}
	if err := (&WsMsgReq{Body: body}).Bind(&dst); err != nil {
		t.Fatalf("Bind err=%v", err)
	}
	if dst.SelectedMap == nil || *dst.SelectedMap != 1234567890123456789 {
		t.Fatalf("期望 selectedMap 原样解出, got=%v", dst.SelectedMap)
	}

	if err := (&WsMsgReq{Body: &ReqBody{Name: "x.y"}}).Bind(&dst); err != ErrEmptyMsg {
		t.Fatalf("期望 ErrEmptyMsg, got=%v", err)
	}
}
