package grpc

import (
	"context"
	"fmt"
	"net"

	"Coordinator/modules/kit/logx"

	"go.uber.org/zap"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName health 检查使用的服务名。
const ServiceName = "coordinator"

type Server struct {
	srv    *gogrpc.Server
	health *health.Server
	log    logx.Logger
}

// NewServer 带 access 日志拦截器与 health v1 服务，初始状态 NOT_SERVING。
func NewServer(log logx.Logger) *Server {
	if log == nil {
		log = logx.Nop()
	}
	srv := gogrpc.NewServer(serverAccessOptions(log)...)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	return &Server{srv: srv, health: hs, log: log}
}

// SetServing 存储就绪后置 SERVING，关闭前置 NOT_SERVING。
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ServiceName, status)
	s.health.SetServingStatus("", status)
	s.log.Info("grpc health status changed", zap.String("status", status.String()))
}

// Serve 阻塞直到 Stop。
func (s *Server) Serve(lis net.Listener) error {
	s.log.Info("grpc server listening", zap.String("addr", lis.Addr().String()))
	return s.srv.Serve(lis)
}

func (s *Server) ListenAndServe(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("grpc listen %s: %w", addr, err)
	}
	return s.Serve(lis)
}

// Shutdown 先摘流量再优雅停止，ctx 到期后强制停止。
func (s *Server) Shutdown(ctx context.Context) {
	s.health.Shutdown()
	done := make(chan struct{})
	go func() {
		s.srv.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.srv.Stop()
	}
}

// DialHealth 建立带 trace 拦截器的连接并返回 health client。
func DialHealth(target string, extra ...gogrpc.DialOption) (*gogrpc.ClientConn, healthpb.HealthClient, error) {
	opts := append([]gogrpc.DialOption{gogrpc.WithTransportCredentials(insecure.NewCredentials())}, clientTraceOptions()...)
	opts = append(opts, extra...)
	conn, err := gogrpc.NewClient(target, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("dial coordinator grpc failed: %w", err)
	}
	return conn, healthpb.NewHealthClient(conn), nil
}
