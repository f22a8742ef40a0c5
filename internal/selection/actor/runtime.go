package actor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Coordinator/internal/selection/actors"
	"Coordinator/internal/selection/domain"
	"Coordinator/internal/shared/transport"
	"Coordinator/modules/kit/errx"

	protoactor "github.com/asynkron/protoactor-go/actor"
)

const defaultAskTimeout = 3 * time.Second

var ErrSessionNotFound = domain.ErrSessionNotFound

type RuntimeError struct {
	Code    int
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Runtime 托管所有会话的 selection actor：每个会话一个 actor，单写者串行修改选中值。
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
}

func NewRuntime(askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor()
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
	}
}

func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		// 等待子 actor 全部停止，观察者在此之前被取消
		_ = r.root.StopFuture(r.manager).Wait()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

// Open 创建会话的 Store（初始 0）；会话已存在时返回当前值。
func (r *Runtime) Open(ctx context.Context, sid int64) (int64, error) {
	reply, err := r.selection(ctx, &actors.Open{SessionBase: actors.SessionBase{SID: sid}})
	if err != nil {
		return 0, err
	}
	return reply.SelectedMap, nil
}

func (r *Runtime) Current(ctx context.Context, sid int64) (int64, error) {
	reply, err := r.selection(ctx, &actors.Current{SessionBase: actors.SessionBase{SID: sid}})
	if err != nil {
		return 0, err
	}
	return reply.SelectedMap, nil
}

// Change 替换选中值，返回修改前的值。返回时观察者已经被调用过。
func (r *Runtime) Change(ctx context.Context, sid int64, selectedMap int64) (int64, error) {
	reply, err := r.selection(ctx, &actors.Change{
		SessionBase: actors.SessionBase{SID: sid},
		SelectedMap: selectedMap,
	})
	if err != nil {
		return 0, err
	}
	return reply.Previous, nil
}

func (r *Runtime) Subscribe(ctx context.Context, sid int64, key string, observer domain.Observer) error {
	return r.ack(ctx, &actors.Subscribe{
		SessionBase: actors.SessionBase{SID: sid},
		Key:         key,
		Observer:    observer,
	})
}

func (r *Runtime) Unsubscribe(ctx context.Context, sid int64, key string) error {
	return r.ack(ctx, &actors.Unsubscribe{
		SessionBase: actors.SessionBase{SID: sid},
		Key:         key,
	})
}

// Release 停止会话 actor 并丢弃 Store，不存在时也返回成功。
func (r *Runtime) Release(ctx context.Context, sid int64) error {
	return r.ack(ctx, &actors.Release{SessionBase: actors.SessionBase{SID: sid}})
}

func (r *Runtime) selection(ctx context.Context, msg any) (*actors.SelectionReply, error) {
	return ask[*actors.SelectionReply](ctx, r, msg)
}

func (r *Runtime) ack(ctx context.Context, msg any) error {
	_, err := ask[*actors.Ack](ctx, r, msg)
	return err
}

// ask 向 manager 发请求并要求回包类型为 T，*actors.Fail 转成 RuntimeError。
func ask[T any](ctx context.Context, r *Runtime, msg any) (T, error) {
	var zero T
	res, err := r.request(r.manager, msg, r.timeoutFromContext(ctx))
	if err != nil {
		return zero, err
	}
	switch v := res.(type) {
	case T:
		return v, nil
	case *actors.Fail:
		return zero, failError(v)
	default:
		return zero, &RuntimeError{Code: transport.SystemError, Message: fmt.Sprintf("actor 回包类型非法: %T", res)}
	}
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime 未初始化"}
	}
	if pid == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor pid 为空"}
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		re := &RuntimeError{
			Code:    transport.SystemError,
			Message: "actor 请求失败",
			Cause:   errx.ErrUnavailable.WithCause(err),
		}
		if errors.Is(err, protoactor.ErrTimeout) {
			re.Code = transport.RequestTimeout
			re.Cause = errx.ErrTimeout.WithCause(err)
		}
		return nil, re
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

func failError(f *actors.Fail) error {
	if f == nil {
		return &RuntimeError{Code: transport.SystemError, Message: "actor 返回空失败"}
	}
	e := &RuntimeError{Code: f.Code, Message: f.Reason}
	if f.Code == transport.SessionInvalid {
		e.Cause = ErrSessionNotFound
	}
	return e
}

func CodeFromError(err error) int {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	return transport.SystemError
}
