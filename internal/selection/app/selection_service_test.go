package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"Coordinator/internal/selection/app"
	"Coordinator/internal/selection/domain"
	"Coordinator/modules/kit/errx"
)

// fakeRuntime 同步执行的内存版运行时。
type fakeRuntime struct {
	stores  map[int64]*domain.Store
	subs    map[int64]map[string]func()
	failErr error
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{stores: map[int64]*domain.Store{}, subs: map[int64]map[string]func(){}}
}

func (f *fakeRuntime) store(sid int64) (*domain.Store, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	s, ok := f.stores[sid]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeRuntime) Open(_ context.Context, sid int64) (int64, error) {
	if f.failErr != nil {
		return 0, f.failErr
	}
	if _, ok := f.stores[sid]; !ok {
		f.stores[sid] = domain.NewStore()
		f.subs[sid] = map[string]func(){}
	}
	return f.stores[sid].Current(), nil
}

func (f *fakeRuntime) Current(_ context.Context, sid int64) (int64, error) {
	s, err := f.store(sid)
	if err != nil {
		return 0, err
	}
	return s.Current(), nil
}

func (f *fakeRuntime) Change(_ context.Context, sid int64, v int64) (int64, error) {
	s, err := f.store(sid)
	if err != nil {
		return 0, err
	}
	prev := s.Current()
	s.ChangeSelectedMap(v)
	return prev, nil
}

func (f *fakeRuntime) Subscribe(_ context.Context, sid int64, key string, o domain.Observer) error {
	s, err := f.store(sid)
	if err != nil {
		return err
	}
	if cancel, ok := f.subs[sid][key]; ok {
		cancel()
	}
	f.subs[sid][key] = s.Subscribe(o)
	return nil
}

func (f *fakeRuntime) Unsubscribe(_ context.Context, sid int64, key string) error {
	if _, err := f.store(sid); err != nil {
		return err
	}
	if cancel, ok := f.subs[sid][key]; ok {
		cancel()
		delete(f.subs[sid], key)
	}
	return nil
}

func (f *fakeRuntime) Release(_ context.Context, sid int64) error {
	delete(f.stores, sid)
	delete(f.subs, sid)
	return nil
}

type fakeTokens struct{ issueErr error }

func (f fakeTokens) Issue(sid int64) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	return "tok-" + itoa(sid), nil
}

func (fakeTokens) Parse(token string) (int64, error) {
	var sid int64
	if len(token) < 5 || token[:4] != "tok-" {
		return 0, errors.New("bad token")
	}
	for _, c := range token[4:] {
		if c < '0' || c > '9' {
			return 0, errors.New("bad token")
		}
		sid = sid*10 + int64(c-'0')
	}
	return sid, nil
}

type fakeTracker struct {
	mu      sync.Mutex
	tracked map[int64]int
}

func (f *fakeTracker) Track(sid int64) {
	f.mu.Lock()
	f.tracked[sid]++
	f.mu.Unlock()
}

func (f *fakeTracker) Touch(sid int64) {
	f.mu.Lock()
	f.tracked[sid]++
	f.mu.Unlock()
}

func (f *fakeTracker) Forget(sid int64) {
	f.mu.Lock()
	delete(f.tracked, sid)
	f.mu.Unlock()
}

type fakePusher struct{ pushed []app.ChangedEvent }

func (p *fakePusher) Push(name string, data any) bool {
	if name != app.PushSelectionChanged {
		return false
	}
	p.pushed = append(p.pushed, data.(app.ChangedEvent))
	return true
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	var b []byte
	for v > 0 {
		b = append([]byte{byte('0' + v%10)}, b...)
		v /= 10
	}
	return string(b)
}

func newService() (*app.SelectionService, *fakeRuntime, *fakeTracker) {
	rt := newFakeRuntime()
	tr := &fakeTracker{tracked: map[int64]int{}}
	next := int64(100)
	svc := app.NewSelectionService(rt, fakeTokens{}, tr, func() int64 {
		next++
		return next
	})
	return svc, rt, tr
}

func TestSelectionService_新建与恢复会话(t *testing.T) {
	ctx := context.Background()
	svc, _, tr := newService()

	sess, err := svc.Open(ctx, "")
	if err != nil {
		t.Fatalf("Open err=%v", err)
	}
	if sess.SID != 101 || sess.Token != "tok-101" || sess.SelectedMap != 0 || sess.Resumed {
		t.Fatalf("期望新会话, got=%+v", sess)
	}
	if tr.tracked[101] == 0 {
		t.Fatalf("期望新会话被登记")
	}

	if _, err := svc.Change(ctx, sess.SID, 3); err != nil {
		t.Fatalf("Change err=%v", err)
	}

	resumed, err := svc.Open(ctx, sess.Token)
	if err != nil {
		t.Fatalf("Open resume err=%v", err)
	}
	if !resumed.Resumed || resumed.SID != sess.SID || resumed.SelectedMap != 3 {
		t.Fatalf("期望恢复同一个会话, got=%+v", resumed)
	}
}

func TestSelectionService_无效或已释放的token(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()

	_, err := svc.Open(ctx, "garbage")
	if !errors.Is(err, app.ErrSessionInvalid) || app.GetErrorReasonCode(err) != app.ReasonTokenInvalid.Code {
		t.Fatalf("期望 TOKEN_INVALID, got=%v", err)
	}

	sess, _ := svc.Open(ctx, "")
	if err := svc.Release(ctx, sess.SID); err != nil {
		t.Fatalf("Release err=%v", err)
	}
	_, err = svc.Authenticate(ctx, sess.Token)
	if !errors.Is(err, app.ErrSessionInvalid) || app.GetErrorReasonCode(err) != app.ReasonSessionReleased.Code {
		t.Fatalf("期望 SESSION_RELEASED, got=%v", err)
	}
	if !app.IsBizError(err) {
		t.Fatalf("期望会话失效是业务错误")
	}
}

func TestSelectionService_修改不校验并推送观察者(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()
	sess, _ := svc.Open(ctx, "")

	p1, p2 := &fakePusher{}, &fakePusher{}
	if err := svc.Watch(ctx, sess.SID, "a", p1); err != nil {
		t.Fatalf("Watch err=%v", err)
	}
	_ = svc.Watch(ctx, sess.SID, "b", p2)

	for _, v := range []int64{3, 3, -1} {
		if _, err := svc.Change(ctx, sess.SID, v); err != nil {
			t.Fatalf("Change(%d) err=%v", v, err)
		}
	}
	want := []app.ChangedEvent{{SelectedMap: 3, Previous: 0}, {SelectedMap: -1, Previous: 3}}
	for _, p := range []*fakePusher{p1, p2} {
		if len(p.pushed) != len(want) || p.pushed[0] != want[0] || p.pushed[1] != want[1] {
			t.Fatalf("期望推送 %v, got=%v", want, p.pushed)
		}
	}

	_ = svc.Unwatch(ctx, sess.SID, "a")
	prev, _ := svc.Change(ctx, sess.SID, 0)
	if prev != -1 || len(p1.pushed) != 2 || len(p2.pushed) != 3 {
		t.Fatalf("期望取消订阅后只有 b 收到, prev=%d p1=%v p2=%v", prev, p1.pushed, p2.pushed)
	}

	if err := svc.Watch(ctx, sess.SID, "", p1); !errors.Is(err, app.ErrInvalidParam) {
		t.Fatalf("期望空 key 参数错误, got=%v", err)
	}
	_ = svc.Release(ctx, sess.SID)
	if err := svc.Unwatch(ctx, sess.SID, "b"); err != nil {
		t.Fatalf("期望释放后 Unwatch 视为成功, got=%v", err)
	}
}

func TestSelectionService_运行时故障映射为系统错误(t *testing.T) {
	ctx := context.Background()
	svc, rt, _ := newService()
	sess, _ := svc.Open(ctx, "")

	rt.failErr = errx.ErrTimeout.WithCause(errors.New("future: timeout"))
	if _, err := svc.Current(ctx, sess.SID); !errors.Is(err, app.ErrTimeout) || app.IsBizError(err) {
		t.Fatalf("期望超时系统错误, got=%v", err)
	}

	rt.failErr = errors.New("mailbox gone")
	if _, err := svc.Change(ctx, sess.SID, 1); !errors.Is(err, app.ErrUnavailable) {
		t.Fatalf("期望 ErrUnavailable, got=%v", err)
	}
}

func TestSelectionService_签发失败回滚会话(t *testing.T) {
	ctx := context.Background()
	rt := newFakeRuntime()
	svc := app.NewSelectionService(rt, fakeTokens{issueErr: errors.New("no secret")}, &fakeTracker{tracked: map[int64]int{}}, func() int64 { return 9 })

	if _, err := svc.Open(ctx, ""); !errors.Is(err, app.ErrInternalServer) {
		t.Fatalf("期望 ErrInternalServer, got=%v", err)
	}
	if _, ok := rt.stores[9]; ok {
		t.Fatalf("期望签发失败后释放 Store")
	}
}
