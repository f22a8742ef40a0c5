package actors

import "Coordinator/internal/selection/domain"

// SessionMessage 需要路由到会话 actor 的消息。
type SessionMessage interface {
	SessionID() int64
}

type SessionBase struct {
	SID int64
}

func (m SessionBase) SessionID() int64 {
	return m.SID
}

// Open 会话不存在时创建；已存在时直接返回当前值。
type Open struct{ SessionBase }

type Current struct{ SessionBase }

type Change struct {
	SessionBase
	SelectedMap int64
}

type Subscribe struct {
	SessionBase
	Key      string
	Observer domain.Observer
}

type Unsubscribe struct {
	SessionBase
	Key string
}

type Release struct{ SessionBase }

type SelectionReply struct {
	SelectedMap int64
	Previous    int64
}

type Ack struct{}

type Fail struct {
	Code   int
	Reason string
}
