package actors

import (
	"Coordinator/internal/shared/transport"

	"github.com/asynkron/protoactor-go/actor"
)

const ReasonSessionNotFound = "session not found"

// ManagerActor 只做路由与子 actor 生命周期维护，不持有选中值。
type ManagerActor struct {
	sessions map[int64]*actor.PID // sid -> selection actor
}

func NewManagerActor() *ManagerActor {
	return &ManagerActor{
		sessions: make(map[int64]*actor.PID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Terminated:
		m.forgetPID(msg.Who)
	case *Open:
		if msg == nil {
			ctx.Respond(fail(transport.InvalidParam, "nil request"))
			return
		}
		ctx.Forward(m.getOrSpawn(ctx, msg.SID))
	case *Release:
		if msg == nil {
			ctx.Respond(fail(transport.InvalidParam, "nil request"))
			return
		}
		if pid, ok := m.sessions[msg.SID]; ok {
			delete(m.sessions, msg.SID)
			ctx.Stop(pid)
		}
		ctx.Respond(&Ack{})
	case SessionMessage:
		pid, ok := m.sessions[msg.SessionID()]
		if !ok {
			ctx.Respond(fail(transport.SessionInvalid, ReasonSessionNotFound))
			return
		}
		ctx.Forward(pid)
	default:
		return
	}
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, sid int64) *actor.PID {
	if pid, ok := m.sessions[sid]; ok && pid != nil {
		return pid
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewSelectionActor(sid)
	})
	pid := ctx.Spawn(props)
	m.sessions[sid] = pid
	return pid
}

// 子 actor 异常退出时清理路由表
func (m *ManagerActor) forgetPID(who *actor.PID) {
	if who == nil {
		return
	}
	for sid, pid := range m.sessions {
		if pid != nil && pid.Address == who.Address && pid.Id == who.Id {
			delete(m.sessions, sid)
			return
		}
	}
}

func (m *ManagerActor) SessionCount() int {
	return len(m.sessions)
}

func fail(code int, reason string) *Fail {
	return &Fail{Code: code, Reason: reason}
}
