package session

import (
	"context"
	"sync"
	"time"

	"Coordinator/internal/shared/transport/ws"
)

// Manager 维护会话与 ws 连接的绑定关系以及会话最后活跃时间。
// 一个会话可以同时挂多条连接；一条连接同一时刻只属于一个会话。
type Manager interface {
	// Track 登记会话（HTTP 场景没有连接也要参与空闲回收）。
	Track(sid int64)
	Touch(sid int64)
	Bind(sid int64, conn ws.WSConn)
	UnbindConn(conn ws.WSConn)
	Forget(sid int64)
	Conns(sid int64) []ws.WSConn
	GetSID(conn ws.WSConn) (int64, bool)
	Alive(sid int64) bool
	// IdleSessions 返回没有连接且空闲超过 idle 的会话。
	IdleSessions(now time.Time, idle time.Duration) []int64
}

// UnboundHook 连接解绑（主动或连接关闭）后回调，在锁外执行。
type UnboundHook func(sid int64, conn ws.WSConn)

type SessMgr struct {
	sync.RWMutex
	sid2conns  map[int64]map[ws.WSConn]struct{}
	conn2sid   map[ws.WSConn]int64
	lastActive map[int64]time.Time
	watched    map[ws.WSConn]struct{}
	onUnbound  UnboundHook
	now        func() time.Time
}

func NewSessMgr(onUnbound UnboundHook) *SessMgr {
	return &SessMgr{
		sid2conns:  make(map[int64]map[ws.WSConn]struct{}),
		conn2sid:   make(map[ws.WSConn]int64),
		lastActive: make(map[int64]time.Time),
		watched:    make(map[ws.WSConn]struct{}),
		onUnbound:  onUnbound,
		now:        time.Now,
	}
}

// SetUnboundHook 在组装期注入，避免 session 与 selection 循环依赖。
func (s *SessMgr) SetUnboundHook(fn UnboundHook) {
	s.Lock()
	defer s.Unlock()
	s.onUnbound = fn
}

func (s *SessMgr) Track(sid int64) {
	s.Lock()
	defer s.Unlock()
	s.lastActive[sid] = s.now()
}

func (s *SessMgr) Touch(sid int64) {
	s.Lock()
	defer s.Unlock()
	if _, ok := s.lastActive[sid]; ok {
		s.lastActive[sid] = s.now()
	}
}

func (s *SessMgr) Bind(sid int64, conn ws.WSConn) {
	if conn == nil {
		return
	}
	s.Lock()

	// 为每条连接只启动一次 watcher：连接关闭后自动解绑，避免 conn2sid 逐步膨胀
	if _, ok := s.watched[conn]; !ok {
		s.watched[conn] = struct{}{}
		go s.watchConnDone(conn)
	}

	var (
		prevSID  int64
		switched bool
	)
	if old, ok := s.conn2sid[conn]; ok && old != sid {
		s.removeConnLocked(old, conn)
		prevSID, switched = old, true
	}

	conns := s.sid2conns[sid]
	if conns == nil {
		conns = make(map[ws.WSConn]struct{})
		s.sid2conns[sid] = conns
	}
	conns[conn] = struct{}{}
	s.conn2sid[conn] = sid
	s.lastActive[sid] = s.now()
	hook := s.onUnbound
	s.Unlock()

	if switched && hook != nil {
		hook(prevSID, conn)
	}
}

func (s *SessMgr) watchConnDone(conn ws.WSConn) {
	<-conn.Done()
	s.UnbindConn(conn)
	s.Lock()
	delete(s.watched, conn)
	s.Unlock()
}

func (s *SessMgr) UnbindConn(conn ws.WSConn) {
	s.Lock()
	sid, ok := s.conn2sid[conn]
	if ok {
		s.removeConnLocked(sid, conn)
		// 断线时刷新活跃时间，空闲计时从最后一条连接断开开始
		if _, tracked := s.lastActive[sid]; tracked {
			s.lastActive[sid] = s.now()
		}
	}
	hook := s.onUnbound
	s.Unlock()

	if ok && hook != nil {
		hook(sid, conn)
	}
}

func (s *SessMgr) removeConnLocked(sid int64, conn ws.WSConn) {
	delete(s.conn2sid, conn)
	if conns := s.sid2conns[sid]; conns != nil {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(s.sid2conns, sid)
		}
	}
}

// Forget 会话释放后清理所有记录，仍挂着的连接不会被关闭。
func (s *SessMgr) Forget(sid int64) {
	s.Lock()
	defer s.Unlock()
	for conn := range s.sid2conns[sid] {
		delete(s.conn2sid, conn)
	}
	delete(s.sid2conns, sid)
	delete(s.lastActive, sid)
}

func (s *SessMgr) Conns(sid int64) []ws.WSConn {
	s.RLock()
	defer s.RUnlock()
	conns := make([]ws.WSConn, 0, len(s.sid2conns[sid]))
	for c := range s.sid2conns[sid] {
		conns = append(conns, c)
	}
	return conns
}

func (s *SessMgr) GetSID(conn ws.WSConn) (int64, bool) {
	s.RLock()
	defer s.RUnlock()
	sid, ok := s.conn2sid[conn]
	return sid, ok
}

func (s *SessMgr) Alive(sid int64) bool {
	s.RLock()
	defer s.RUnlock()
	_, ok := s.lastActive[sid]
	return ok
}

func (s *SessMgr) IdleSessions(now time.Time, idle time.Duration) []int64 {
	s.RLock()
	defer s.RUnlock()
	var out []int64
	for sid, last := range s.lastActive {
		if len(s.sid2conns[sid]) > 0 {
			continue
		}
		if now.Sub(last) >= idle {
			out = append(out, sid)
		}
	}
	return out
}

// RunSweeper 每 interval 扫一次，把空闲会话交给 release；ctx 取消后退出。
func RunSweeper(ctx context.Context, m Manager, interval, idle time.Duration, release func(ctx context.Context, sid int64)) {
	if interval <= 0 || idle <= 0 || release == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for _, sid := range m.IdleSessions(now, idle) {
				release(ctx, sid)
			}
		}
	}
}

var _ Manager = (*SessMgr)(nil)
