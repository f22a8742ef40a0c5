package utils

import (
	"fmt"
	"sync"
	"time"
)

// 会话 ID 布局：41 位毫秒时间戳 | 10 位节点号 | 12 位序号。
const (
	// 2026-01-01 00:00:00 UTC
	epochMilli int64 = 1767225600000

	nodeBits = 10
	seqBits  = 12

	MaxNodeID int64 = 1<<nodeBits - 1
	maxSeq    int64 = 1<<seqBits - 1
)

// Snowflake 单节点内单调递增、全局唯一（节点号不同）的 ID 生成器，ID 恒为正数。
type Snowflake struct {
	mu     sync.Mutex
	node   int64
	lastMS int64
	seq    int64
	now    func() time.Time
}

func NewSnowflake(node int64) (*Snowflake, error) {
	if node < 0 || node > MaxNodeID {
		return nil, fmt.Errorf("snowflake node %d out of range [0, %d]", node, MaxNodeID)
	}
	return &Snowflake{node: node, now: time.Now}, nil
}

func (s *Snowflake) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.now().UnixMilli()
	if ms < s.lastMS {
		// 时钟回拨：沿用上一个毫秒继续发号
		ms = s.lastMS
	}
	if ms == s.lastMS {
		s.seq = (s.seq + 1) & maxSeq
		if s.seq == 0 {
			for ms <= s.lastMS {
				ms = s.now().UnixMilli()
			}
		}
	} else {
		s.seq = 0
	}
	s.lastMS = ms

	// 保证 ID > 0：epoch 当毫秒节点 0 序号 0 的 ID 会是 0
	return ((ms-epochMilli)<<(nodeBits+seqBits) | s.node<<seqBits | s.seq) + 1
}

// SnowflakeTime 从 ID 还原签发时间（毫秒精度）。
func SnowflakeTime(id int64) time.Time {
	ms := (id-1)>>(nodeBits+seqBits) + epochMilli
	return time.UnixMilli(ms)
}

// SnowflakeNode 从 ID 还原节点号。
func SnowflakeNode(id int64) int64 {
	return ((id - 1) >> seqBits) & MaxNodeID
}
