package actor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"Coordinator/internal/selection/domain"
	"Coordinator/internal/shared/transport"
)

type recorder struct {
	mu  sync.Mutex
	got [][2]int64
}

func (r *recorder) SelectedMapChanged(selected, previous int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, [2]int64{selected, previous})
}

func (r *recorder) calls() [][2]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][2]int64(nil), r.got...)
}

func newRuntime(t *testing.T) *Runtime {
	t.Helper()
	rt := NewRuntime(time.Second)
	t.Cleanup(rt.Shutdown)
	return rt
}

func TestRuntime_打开修改读取(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t)

	v, err := rt.Open(ctx, 11)
	if err != nil || v != 0 {
		t.Fatalf("期望新会话为 0, v=%d err=%v", v, err)
	}

	prev, err := rt.Change(ctx, 11, 3)
	if err != nil || prev != 0 {
		t.Fatalf("期望 previous=0, prev=%d err=%v", prev, err)
	}
	prev, err = rt.Change(ctx, 11, 3)
	if err != nil || prev != 3 {
		t.Fatalf("期望 previous=3, prev=%d err=%v", prev, err)
	}
	if _, err := rt.Change(ctx, 11, -1); err != nil {
		t.Fatalf("Change err=%v", err)
	}
	if v, _ := rt.Current(ctx, 11); v != -1 {
		t.Fatalf("期望 -1, got=%d", v)
	}

	// 重复 Open 不会重置
	if v, _ := rt.Open(ctx, 11); v != -1 {
		t.Fatalf("期望重复 Open 保留 -1, got=%d", v)
	}
}

func TestRuntime_会话之间互相隔离(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t)

	_, _ = rt.Open(ctx, 1)
	_, _ = rt.Open(ctx, 2)
	_, _ = rt.Change(ctx, 1, 42)

	if v, _ := rt.Current(ctx, 2); v != 0 {
		t.Fatalf("期望会话 2 不受影响, got=%d", v)
	}
}

func TestRuntime_未打开或已释放的会话(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t)

	_, err := rt.Current(ctx, 99)
	if !errors.Is(err, ErrSessionNotFound) || CodeFromError(err) != transport.SessionInvalid {
		t.Fatalf("期望 SessionInvalid, got=%v", err)
	}

	_, _ = rt.Open(ctx, 5)
	_, _ = rt.Change(ctx, 5, 8)
	if err := rt.Release(ctx, 5); err != nil {
		t.Fatalf("Release err=%v", err)
	}
	if _, err := rt.Change(ctx, 5, 1); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("期望释放后 ErrSessionNotFound, got=%v", err)
	}
	if err := rt.Release(ctx, 5); err != nil {
		t.Fatalf("期望重复 Release 成功, got=%v", err)
	}

	// 释放后重新打开是一个全新的 Store
	if v, _ := rt.Open(ctx, 5); v != 0 {
		t.Fatalf("期望重新打开为 0, got=%d", v)
	}
}

func TestRuntime_订阅在Change返回前收到通知(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t)
	_, _ = rt.Open(ctx, 7)

	rec := &recorder{}
	if err := rt.Subscribe(ctx, 7, "conn-a", rec); err != nil {
		t.Fatalf("Subscribe err=%v", err)
	}
	_, _ = rt.Change(ctx, 7, 3)
	_, _ = rt.Change(ctx, 7, 3)
	if got := rec.calls(); len(got) != 1 || got[0] != [2]int64{3, 0} {
		t.Fatalf("期望一次通知 {3,0}, got=%v", got)
	}

	// 同一个 key 再订阅会替换旧观察者
	rec2 := &recorder{}
	_ = rt.Subscribe(ctx, 7, "conn-a", rec2)
	_, _ = rt.Change(ctx, 7, 4)
	if len(rec.calls()) != 1 || len(rec2.calls()) != 1 {
		t.Fatalf("期望只有新观察者收到, old=%v new=%v", rec.calls(), rec2.calls())
	}

	_ = rt.Unsubscribe(ctx, 7, "conn-a")
	_, _ = rt.Change(ctx, 7, 5)
	if len(rec2.calls()) != 1 {
		t.Fatalf("期望取消订阅后不再收到, got=%v", rec2.calls())
	}

	if err := rt.Subscribe(ctx, 7, "", rec); CodeFromError(err) != transport.InvalidParam {
		t.Fatalf("期望空 key 参数错误, got=%v", err)
	}
	if err := rt.Subscribe(ctx, 404, "k", domain.ObserverFunc(func(int64, int64) {})); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("期望未知会话订阅失败, got=%v", err)
	}
}

func TestRuntime_并发修改按顺序落地(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t)
	_, _ = rt.Open(ctx, 1)

	rec := &recorder{}
	_ = rt.Subscribe(ctx, 1, "k", rec)

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(v int64) {
			defer wg.Done()
			if _, err := rt.Change(ctx, 1, v); err != nil {
				t.Errorf("Change err=%v", err)
			}
		}(int64(i))
	}
	wg.Wait()

	got := rec.calls()
	if len(got) != 50 {
		t.Fatalf("期望 50 次通知, got=%d", len(got))
	}
	// 每次通知的 previous 都等于上一次的 selected
	for i := 1; i < len(got); i++ {
		if got[i][1] != got[i-1][0] {
			t.Fatalf("期望串行修改, got=%v", got)
		}
	}
	if v, _ := rt.Current(ctx, 1); v != got[len(got)-1][0] {
		t.Fatalf("期望最终值等于最后一次通知, v=%d last=%v", v, got[len(got)-1])
	}
}

func TestRuntime_timeoutFromContext(t *testing.T) {
	rt := &Runtime{timeout: time.Second}
	if got := rt.timeoutFromContext(context.Background()); got != time.Second {
		t.Fatalf("期望默认超时, got=%v", got)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if got := rt.timeoutFromContext(ctx); got > 100*time.Millisecond {
		t.Fatalf("期望不超过 ctx 剩余时间, got=%v", got)
	}
	expired, cancel2 := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel2()
	if got := rt.timeoutFromContext(expired); got != time.Millisecond {
		t.Fatalf("期望过期 ctx 返回 1ms, got=%v", got)
	}

	var nilRT *Runtime
	if _, err := nilRT.request(nil, nil, time.Second); CodeFromError(err) != transport.SystemError {
		t.Fatalf("期望未初始化 runtime 返回系统错误, got=%v", err)
	}
}
