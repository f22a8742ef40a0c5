package ws

import (
	"fmt"
	"sync"
	"time"

	"Coordinator/internal/shared/utils"
	"Coordinator/modules/kit/logx"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	outQueueSize = 1000
	readLimit    = 64 * 1024
	writeTimeout = 10 * time.Second
	secretKeyLen = 16
)

// WsServer 一条 ws 连接：读协程解帧并分发，写协程串行写出回包与推送。
type WsServer struct {
	conn   *websocket.Conn
	router *Router
	codec  Codec
	log    logx.Logger

	out       chan *RespBody
	done      chan struct{}
	closeOnce sync.Once
	writeMu   sync.Mutex

	propMu sync.RWMutex
	props  map[string]any
}

func NewWsServer(wsConn *websocket.Conn, codec Codec, l logx.Logger) *WsServer {
	if l == nil {
		l = logx.Nop()
	}
	return &WsServer{
		conn:  wsConn,
		codec: codec,
		log:   l,
		out:   make(chan *RespBody, outQueueSize),
		done:  make(chan struct{}),
		props: make(map[string]any),
	}
}

func (s *WsServer) Router(router *Router) {
	s.router = router
}

func (s *WsServer) SetProperty(key string, value any) {
	s.propMu.Lock()
	s.props[key] = value
	s.propMu.Unlock()
}

func (s *WsServer) GetProperty(key string) any {
	s.propMu.RLock()
	defer s.propMu.RUnlock()
	return s.props[key]
}

func (s *WsServer) RemoveProperty(key string) {
	s.propMu.Lock()
	delete(s.props, key)
	s.propMu.Unlock()
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

func (s *WsServer) Push(name string, data any) bool {
	if s.closed() {
		return false
	}
	select {
	case s.out <- &RespBody{Name: name, Code: 0, Msg: data}:
		return true
	case <-s.done:
		return false
	default:
		s.log.Warn("ws push dropped, queue full", zap.String("name", name), zap.String("addr", s.Addr()))
		return false
	}
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		close(s.done)
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.done
}

func (s *WsServer) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Run 起读写两个协程，调用前应已完成握手。
func (s *WsServer) Run() {
	s.conn.SetReadLimit(readLimit)
	go s.readLoop()
	go s.writeLoop()
}

func (s *WsServer) readLoop() {
	defer func() {
		if p := recover(); p != nil {
			s.log.Error("ws read loop panic", zap.String("panic", fmt.Sprint(p)), zap.String("addr", s.Addr()))
		}
		s.Close()
	}()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("ws read failed", zap.Error(err), zap.String("addr", s.Addr()))
			}
			return
		}
		if resp := s.handleFrame(data); resp != nil {
			// 回包可以等写协程腾出队列，推送不等
			select {
			case s.out <- resp:
			case <-s.done:
				return
			}
		}
	}
}

// handleFrame 解出一条请求并生成回包，解不开的帧丢弃。
func (s *WsServer) handleFrame(data []byte) *RespBody {
	plain, err := s.codec.Decode(data, s.secretKey())
	if err != nil {
		s.log.Warn("ws decode frame failed", zap.Error(err), zap.String("addr", s.Addr()))
		if s.codec.Secret {
			// 客户端密钥对不上，重新下发
			s.handshake()
		}
		return nil
	}
	body, err := decodeReq(plain)
	if err != nil {
		s.log.Warn("ws unmarshal request failed", zap.Error(err), zap.String("addr", s.Addr()))
		return nil
	}

	resp := &WsMsgResp{Body: &RespBody{Seq: body.Seq, Name: body.Name}}
	if body.Name == HeartbeatMsg {
		hb := &Heartbeat{}
		_ = mapstructure.Decode(body.Msg, hb)
		hb.STime = time.Now().UnixMilli()
		resp.Body.Msg = hb
		return resp.Body
	}
	s.router.Dispatch(&WsMsgReq{Body: body, Conn: s}, resp)
	return resp.Body
}

func (s *WsServer) writeLoop() {
	for {
		select {
		case body := <-s.out:
			if err := s.write(body); err != nil {
				s.log.Warn("ws write failed", zap.Error(err), zap.String("addr", s.Addr()))
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *WsServer) secretKey() string {
	key, _ := s.GetProperty(SecretKey).(string)
	return key
}

// write 编码失败只丢这一帧，不断开连接。
func (s *WsServer) write(body *RespBody) error {
	msgType, data, err := s.codec.Encode(body, s.secretKey())
	if err != nil {
		s.log.Error("ws encode failed", zap.Error(err), zap.String("name", body.Name))
		return nil
	}
	return s.writeFrame(msgType, data)
}

// writeFrame gorilla 不允许并发写，握手与写协程共用 writeMu。
func (s *WsServer) writeFrame(msgType int, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteMessage(msgType, data)
}

// handshake 加密模式下发 16 位密钥，明文模式 key 为空。
func (s *WsServer) handshake() {
	key := ""
	if s.codec.Secret {
		if key = s.secretKey(); key == "" {
			key = utils.RandSeq(secretKeyLen)
			s.SetProperty(SecretKey, key)
		}
	}
	msgType, data, err := s.codec.EncodeHandshake(&RespBody{Name: HandshakeMsg, Msg: &Handshake{Key: key}})
	if err != nil {
		s.log.Error("ws encode handshake failed", zap.Error(err))
		return
	}
	if err := s.writeFrame(msgType, data); err != nil {
		s.log.Warn("ws write handshake failed", zap.Error(err), zap.String("addr", s.Addr()))
	}
}
