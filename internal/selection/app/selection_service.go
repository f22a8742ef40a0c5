package app

import (
	"context"
	"errors"

	"Coordinator/internal/selection/domain"
	"Coordinator/modules/kit/errx"
)

// PushSelectionChanged 选中地图变化后推送给会话下所有连接。
const PushSelectionChanged = "selection.changed"

type ChangedEvent struct {
	SelectedMap int64 `json:"selectedMap"`
	Previous    int64 `json:"previous"`
}

type Session struct {
	SID         int64
	Token       string
	SelectedMap int64
	Resumed     bool
}

type SelectionService struct {
	rt       SelectionRuntime
	tokens   TokenService
	sessions SessionTracker
	nextID   IDGenerator
}

func NewSelectionService(rt SelectionRuntime, tokens TokenService, sessions SessionTracker, nextID IDGenerator) *SelectionService {
	return &SelectionService{rt: rt, tokens: tokens, sessions: sessions, nextID: nextID}
}

// Open token 为空时新建会话；否则恢复 token 对应的会话，会话已释放时返回 ErrSessionInvalid。
func (s *SelectionService) Open(ctx context.Context, token string) (*Session, error) {
	if token != "" {
		sid, err := s.parse(token)
		if err != nil {
			return nil, err
		}
		selected, err := s.Current(ctx, sid)
		if err != nil {
			return nil, err
		}
		return &Session{SID: sid, Token: token, SelectedMap: selected, Resumed: true}, nil
	}

	sid := s.nextID()
	selected, err := s.rt.Open(ctx, sid)
	if err != nil {
		return nil, s.runtimeErr(err, sid)
	}
	issued, err := s.tokens.Issue(sid)
	if err != nil {
		_ = s.rt.Release(ctx, sid)
		return nil, ErrInternalServer.WithReason(ReasonTokenIssueFail).WithData("sid", sid).WithCause(err)
	}
	s.sessions.Track(sid)
	return &Session{SID: sid, Token: issued, SelectedMap: selected}, nil
}

// Authenticate 校验 token 并确认会话仍然存活，返回会话 id。
func (s *SelectionService) Authenticate(ctx context.Context, token string) (int64, error) {
	sid, err := s.parse(token)
	if err != nil {
		return 0, err
	}
	if _, err := s.Current(ctx, sid); err != nil {
		return 0, err
	}
	return sid, nil
}

func (s *SelectionService) parse(token string) (int64, error) {
	sid, err := s.tokens.Parse(token)
	if err != nil {
		return 0, ErrSessionInvalid.WithReason(ReasonTokenInvalid).WithCause(err)
	}
	return sid, nil
}

func (s *SelectionService) Current(ctx context.Context, sid int64) (int64, error) {
	v, err := s.rt.Current(ctx, sid)
	if err != nil {
		return 0, s.runtimeErr(err, sid)
	}
	s.sessions.Touch(sid)
	return v, nil
}

// Change 不校验地图是否存在，返回修改前的值。
func (s *SelectionService) Change(ctx context.Context, sid int64, selectedMap int64) (int64, error) {
	prev, err := s.rt.Change(ctx, sid, selectedMap)
	if err != nil {
		return 0, s.runtimeErr(err, sid)
	}
	s.sessions.Touch(sid)
	return prev, nil
}

// Watch 把连接注册为会话观察者，key 相同的旧订阅会被替换。
func (s *SelectionService) Watch(ctx context.Context, sid int64, key string, p Pusher) error {
	if key == "" || p == nil {
		return ErrInvalidParam.WithReason(ReasonWatchKeyMissing).WithData("sid", sid)
	}
	observer := domain.ObserverFunc(func(selected, previous int64) {
		p.Push(PushSelectionChanged, ChangedEvent{SelectedMap: selected, Previous: previous})
	})
	if err := s.rt.Subscribe(ctx, sid, key, observer); err != nil {
		return s.runtimeErr(err, sid)
	}
	return nil
}

// Unwatch 会话已释放时视为成功。
func (s *SelectionService) Unwatch(ctx context.Context, sid int64, key string) error {
	err := s.rt.Unsubscribe(ctx, sid, key)
	if err == nil || errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	return s.runtimeErr(err, sid)
}

// Release 销毁会话 Store，之后该会话的 token 不再可用。
func (s *SelectionService) Release(ctx context.Context, sid int64) error {
	if err := s.rt.Release(ctx, sid); err != nil {
		return s.runtimeErr(err, sid)
	}
	s.sessions.Forget(sid)
	return nil
}

func (s *SelectionService) runtimeErr(err error, sid int64) error {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return ErrSessionInvalid.WithReason(ReasonSessionReleased).WithData("sid", sid)
	case errors.Is(err, errx.ErrTimeout):
		return ErrTimeout.WithReason(ReasonRuntimeTimeout).WithData("sid", sid).WithCause(err)
	default:
		return ErrUnavailable.WithReason(ReasonRuntimeFail).WithData("sid", sid).WithCause(err)
	}
}
