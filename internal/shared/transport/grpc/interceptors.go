package grpc

import (
	"context"

	"Coordinator/internal/shared/transport"
	"Coordinator/modules/kit/logx"
	"Coordinator/modules/kit/tracex"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// trace 透传使用的 metadata key
const (
	mdTraceID = "x-trace-id"
	mdSpanID  = "x-span-id"
)

// clientTraceOptions wsprobe 等客户端调用时把 trace/span 带给服务端。
func clientTraceOptions() []gogrpc.DialOption {
	unary := func(ctx context.Context, method string, req, reply any, cc *gogrpc.ClientConn,
		invoker gogrpc.UnaryInvoker, opts ...gogrpc.CallOption) error {
		return invoker(outgoingTrace(ctx), method, req, reply, cc, opts...)
	}
	stream := func(ctx context.Context, desc *gogrpc.StreamDesc, cc *gogrpc.ClientConn, method string,
		streamer gogrpc.Streamer, opts ...gogrpc.CallOption) (gogrpc.ClientStream, error) {
		return streamer(outgoingTrace(ctx), desc, cc, method, opts...)
	}
	return []gogrpc.DialOption{
		gogrpc.WithChainUnaryInterceptor(unary),
		gogrpc.WithChainStreamInterceptor(stream),
	}
}

// serverAccessOptions 服务端每个 RPC 输出一条 access 日志，action 形如 "GRPC /grpc.health.v1.Health/Check"。
func serverAccessOptions(log logx.Logger) []gogrpc.ServerOption {
	unary := func(ctx context.Context, req any, info *gogrpc.UnaryServerInfo, handler gogrpc.UnaryHandler) (any, error) {
		ctx = transport.NewContextWithParent(incomingTrace(ctx), "GRPC "+info.FullMethod)
		resp, err := handler(ctx, req)
		finishAccess(ctx, log, err)
		return resp, err
	}
	stream := func(srv any, ss gogrpc.ServerStream, info *gogrpc.StreamServerInfo, handler gogrpc.StreamHandler) error {
		ctx := transport.NewContextWithParent(incomingTrace(ss.Context()), "GRPC "+info.FullMethod)
		err := handler(srv, &tracedStream{ServerStream: ss, ctx: ctx})
		finishAccess(ctx, log, err)
		return err
	}
	return []gogrpc.ServerOption{
		gogrpc.ChainUnaryInterceptor(unary),
		gogrpc.ChainStreamInterceptor(stream),
	}
}

func finishAccess(ctx context.Context, log logx.Logger, err error) {
	transport.SetBizCode(ctx, transport.BizCode(bizCodeOf(err)))
	if err != nil {
		transport.SetErrorReason(ctx, status.Code(err).String())
	}
	transport.WriteAccessLog(ctx, log)
}

func bizCodeOf(err error) int {
	switch status.Code(err) {
	case codes.OK, codes.Canceled:
		return transport.OK
	case codes.InvalidArgument, codes.NotFound:
		return transport.InvalidParam
	case codes.DeadlineExceeded:
		return transport.RequestTimeout
	default:
		return transport.SystemError
	}
}

type tracedStream struct {
	gogrpc.ServerStream
	ctx context.Context
}

func (s *tracedStream) Context() context.Context {
	return s.ctx
}

func outgoingTrace(ctx context.Context) context.Context {
	ctx = tracex.Ensure(ctx)
	kv := make([]string, 0, 4)
	if traceID, ok := tracex.TraceIDFrom(ctx); ok {
		kv = append(kv, mdTraceID, traceID)
	}
	if spanID, ok := tracex.SpanIDFrom(ctx); ok {
		kv = append(kv, mdSpanID, spanID)
	}
	if len(kv) == 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, kv...)
}

func incomingTrace(ctx context.Context) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx
	}
	if v := first(md, mdTraceID); v != "" {
		ctx = tracex.WithTraceID(ctx, v)
	}
	if v := first(md, mdSpanID); v != "" {
		ctx = tracex.WithSpanID(ctx, v)
	}
	return ctx
}

func first(md metadata.MD, key string) string {
	if vs := md.Get(key); len(vs) > 0 {
		return vs[0]
	}
	return ""
}
