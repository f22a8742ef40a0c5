package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Coordinator/internal/shared/transport/grpc"
	"Coordinator/internal/shared/transport/ws"

	"github.com/gorilla/websocket"
	"github.com/jessevdk/go-flags"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type options struct {
	URL    string `short:"u" long:"url" default:"ws://127.0.0.1:8088/ws" description:"ws 地址"`
	Secret bool   `short:"s" long:"secret" description:"服务端开启了 need_secret"`
	Token  string `short:"t" long:"token" description:"恢复已有会话的 token"`
	Change *int64 `short:"c" long:"change" description:"打开会话后修改选中地图"`
	GRPC   string `short:"g" long:"grpc" description:"先检查 grpc health，例如 127.0.0.1:8089"`
}

type probe struct {
	conn  *websocket.Conn
	codec ws.Codec
	key   string
	seq   int64
}

func main() {
	opts := &options{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(os.Args[1:]); err != nil {
		var fe *flags.Error
		if errors.As(err, &fe) && fe.Type == flags.ErrHelp {
			fmt.Println(err)
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.GRPC != "" {
		if err := checkHealth(ctx, opts.GRPC); err != nil {
			fatal(err)
		}
	}

	p, err := dial(opts.URL, opts.Secret)
	if err != nil {
		fatal(err)
	}
	defer p.conn.Close()

	var openMsg any
	if opts.Token != "" {
		openMsg = map[string]any{"token": opts.Token}
	}
	if err := p.send("session.open", openMsg); err != nil {
		fatal(err)
	}
	if opts.Change != nil {
		if err := p.send("selection.change", map[string]any{"selectedMap": *opts.Change}); err != nil {
			fatal(err)
		}
	}

	go func() {
		<-ctx.Done()
		_ = p.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		_ = p.conn.Close()
	}()

	// 打印回包与推送直到连接关闭
	for {
		body, err := p.recv()
		if err != nil {
			if ctx.Err() == nil {
				fmt.Fprintln(os.Stderr, "read:", err)
			}
			return
		}
		out, _ := json.Marshal(body)
		fmt.Println(string(out))
	}
}

func checkHealth(ctx context.Context, target string) error {
	conn, client, err := grpc.DialHealth(target)
	if err != nil {
		return err
	}
	defer conn.Close()

	reqCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	resp, err := client.Check(reqCtx, &healthpb.HealthCheckRequest{Service: grpc.ServiceName})
	if err != nil {
		return fmt.Errorf("grpc health check: %w", err)
	}
	fmt.Println("health:", resp.GetStatus().String())
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return errors.New("coordinator not serving")
	}
	return nil
}

func dial(rawURL string, secret bool) (*probe, error) {
	if _, err := url.Parse(rawURL); err != nil {
		return nil, fmt.Errorf("bad url %q: %w", rawURL, err)
	}
	conn, _, err := websocket.DefaultDialer.Dial(rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rawURL, err)
	}
	p := &probe{conn: conn, codec: ws.NewCodec(secret)}

	_, data, err := conn.ReadMessage()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("read handshake: %w", err)
	}
	plain, err := p.codec.DecodeHandshake(data)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("decode handshake: %w", err)
	}
	var hs struct {
		Name string       `json:"name"`
		Msg  ws.Handshake `json:"msg"`
	}
	if err := json.Unmarshal(plain, &hs); err != nil || hs.Name != ws.HandshakeMsg {
		_ = conn.Close()
		return nil, fmt.Errorf("unexpected first frame: %s", plain)
	}
	p.key = hs.Msg.Key
	return p, nil
}

func (p *probe) send(name string, msg any) error {
	p.seq++
	msgType, data, err := p.codec.Encode(&ws.ReqBody{Seq: p.seq, Name: name, Msg: msg}, p.key)
	if err != nil {
		return err
	}
	return p.conn.WriteMessage(msgType, data)
}

func (p *probe) recv() (*ws.RespBody, error) {
	_, data, err := p.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	plain, err := p.codec.Decode(data, p.key)
	if err != nil {
		return nil, err
	}
	var body ws.RespBody
	if err := json.Unmarshal(plain, &body); err != nil {
		return nil, err
	}
	return &body, nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
