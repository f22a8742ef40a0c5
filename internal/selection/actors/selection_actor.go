package actors

import (
	"Coordinator/internal/selection/domain"
	"Coordinator/internal/shared/transport"

	"github.com/asynkron/protoactor-go/actor"
)

// SelectionActor 独占一个会话的 Store，所有读写按邮箱顺序串行执行。
type SelectionActor struct {
	sid   int64
	store *domain.Store
	subs  map[string]func()
}

func NewSelectionActor(sid int64) *SelectionActor {
	return &SelectionActor{
		sid:   sid,
		store: domain.NewStore(),
		subs:  make(map[string]func()),
	}
}

func (a *SelectionActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Stopping:
		a.cancelAll()
	case *Open:
		ctx.Respond(a.reply(a.store.Current()))
	case *Current:
		ctx.Respond(a.reply(a.store.Current()))
	case *Change:
		prev := a.store.Current()
		a.store.ChangeSelectedMap(msg.SelectedMap)
		ctx.Respond(&SelectionReply{SelectedMap: a.store.Current(), Previous: prev})
	case *Subscribe:
		if msg.Key == "" || msg.Observer == nil {
			ctx.Respond(fail(transport.InvalidParam, "subscribe key/observer required"))
			return
		}
		// 同一个 key 重复订阅时替换旧观察者
		if cancel, ok := a.subs[msg.Key]; ok {
			cancel()
		}
		a.subs[msg.Key] = a.store.Subscribe(msg.Observer)
		ctx.Respond(&Ack{})
	case *Unsubscribe:
		if cancel, ok := a.subs[msg.Key]; ok {
			cancel()
			delete(a.subs, msg.Key)
		}
		ctx.Respond(&Ack{})
	default:
		return
	}
}

func (a *SelectionActor) reply(selected int64) *SelectionReply {
	return &SelectionReply{SelectedMap: selected, Previous: selected}
}

func (a *SelectionActor) cancelAll() {
	for key, cancel := range a.subs {
		cancel()
		delete(a.subs, key)
	}
}
