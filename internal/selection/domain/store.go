package domain

// Unselected 初始值，同时也是“未选择”的默认标记。
const Unselected int64 = 0

// Observer 接收选中地图的变更通知，只允许读取，不允许回写 Store。
type Observer interface {
	SelectedMapChanged(selected, previous int64)
}

// ObserverFunc 函数适配 Observer。
type ObserverFunc func(selected, previous int64)

func (f ObserverFunc) SelectedMapChanged(selected, previous int64) {
	f(selected, previous)
}

// Store 会话级的当前选中地图。
// 不是并发安全的：由所属会话的 selection actor 独占读写。
type Store struct {
	selected  int64
	observers map[uint64]Observer
	nextID    uint64
}

func NewStore() *Store {
	return &Store{
		selected:  Unselected,
		observers: make(map[uint64]Observer),
	}
}

func (s *Store) Current() int64 {
	return s.selected
}

// ChangeSelectedMap 不做任何校验，任意值（负数、未知 id、0）都接受。
// 值未变化时不通知观察者。
func (s *Store) ChangeSelectedMap(newMap int64) {
	prev := s.selected
	s.selected = newMap
	if prev == newMap {
		return
	}
	for _, o := range s.snapshotObservers() {
		o.SelectedMapChanged(newMap, prev)
	}
}

// Subscribe 注册观察者，返回的 cancel 可重复调用。
func (s *Store) Subscribe(o Observer) (cancel func()) {
	if o == nil {
		return func() {}
	}
	s.nextID++
	id := s.nextID
	s.observers[id] = o
	return func() {
		delete(s.observers, id)
	}
}

func (s *Store) ObserverCount() int {
	return len(s.observers)
}

// 观察者回调里可能取消订阅，先拷贝一份再遍历
func (s *Store) snapshotObservers() []Observer {
	out := make([]Observer, 0, len(s.observers))
	for _, o := range s.observers {
		out = append(out, o)
	}
	return out
}
