package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "Coordinator/internal/catalog/app"
	"Coordinator/internal/catalog/infra/persistence"
	"Coordinator/internal/catalog/infra/seed"
	cataloginterfaces "Coordinator/internal/catalog/interfaces"
	selectionactor "Coordinator/internal/selection/actor"
	selectionapp "Coordinator/internal/selection/app"
	"Coordinator/internal/selection/infra/token"
	selectioninterfaces "Coordinator/internal/selection/interfaces"
	"Coordinator/internal/shared/config"
	"Coordinator/internal/shared/logs"
	"Coordinator/internal/shared/session"
	"Coordinator/internal/shared/transport/grpc"
	transporthttp "Coordinator/internal/shared/transport/http"
	"Coordinator/internal/shared/transport/ws"
	"Coordinator/internal/shared/utils"
	"Coordinator/modules/kit/logx"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

type options struct {
	Config string `short:"f" long:"config" description:"配置文件路径，默认向上查找 configs/conf.yml"`
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

	if err := config.Load(opts.Config); err != nil {
		panic(err)
	}
	cfg := config.Current()
	if err := logs.Init("coordinator", cfg.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	config.OnChange(func(c config.Config) {
		logs.SetLevel(c.Log.Level)
	})
	logs.Info("conf",
		zap.String("storage", cfg.Storage.Driver),
		zap.Int("http_port", cfg.HTTPServer.Port),
		zap.Bool("grpc_enable", cfg.GRPCServer.Enable),
		zap.Int("grpc_port", cfg.GRPCServer.Port),
		zap.Bool("need_secret", cfg.HTTPServer.NeedSecret),
		zap.Duration("idle_release", cfg.Session.IdleRelease),
	)

	if os.Getenv("JWT_SECRET") == "" && cfg.Session.JWTSecret != "" {
		_ = os.Setenv("JWT_SECRET", cfg.Session.JWTSecret)
	}
	if os.Getenv("JWT_SECRET") == "" {
		logs.Fatal("JWT_SECRET 未设置，也没有配置 session.jwt_secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	baseLogger := logx.NewZapLogger(logs.Logger())

	// 存储与目录
	store, err := persistence.Open(ctx, cfg, logs.Logger())
	if err != nil {
		logs.Fatal("open storage failed", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer func() {
		_ = store.Close()
	}()
	catalogService := catalogapp.NewCatalogService(store, time.Now)
	if n, err := seed.Apply(ctx, cfg.Seed.URL, catalogService); err != nil {
		logs.Error("seed import failed", zap.String("url", cfg.Seed.URL), zap.Error(err))
	} else if n > 0 {
		logs.Info("seed imported", zap.String("url", cfg.Seed.URL), zap.Int("maps", n))
	}

	// 会话与选中地图
	sf, err := utils.NewSnowflake(cfg.Session.NodeID)
	if err != nil {
		logs.Fatal("init snowflake failed", zap.Int64("node_id", cfg.Session.NodeID), zap.Error(err))
	}
	runtime := selectionactor.NewRuntime(cfg.Selection.AskTimeout)
	sessMgr := session.NewSessMgr(nil)
	selectionService := selectionapp.NewSelectionService(runtime, token.NewJWT(cfg.Session.TokenTTL), sessMgr, sf.NextID)

	catalogModule := cataloginterfaces.New(catalogService, baseLogger.Named("catalog"))
	selectionModule := selectioninterfaces.New(selectionService, sessMgr, baseLogger.Named("selection"))
	sessMgr.SetUnboundHook(selectionModule.OnConnUnbound)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go session.RunSweeper(sweepCtx, sessMgr, cfg.Session.SweepInterval, cfg.Session.IdleRelease, selectionModule.Release)

	// 接入层
	wsRouter := ws.NewRouter(baseLogger)
	wsRouter.Register(selectionModule)
	logs.Info("ws routes registered", zap.Strings("routes", wsRouter.Routes()))

	httpAddr := fmt.Sprintf("%s:%d", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	httpServer := transporthttp.NewHttpServer(httpAddr, nil, baseLogger, cfg.HTTPServer.AllowOrigins...)
	httpServer.Register(catalogModule, selectionModule)
	httpServer.Mount("/ws", ws.NewServer(wsRouter, cfg.HTTPServer.NeedSecret, cfg.HTTPServer.AllowOrigins, baseLogger))

	errCh := make(chan error, 2)
	go func() {
		logs.Info("http server listening", zap.String("addr", httpAddr))
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("http server start failed: %w", err)
		}
	}()

	var rpcServer *grpc.Server
	if cfg.GRPCServer.Enable {
		rpcAddr := fmt.Sprintf("%s:%d", cfg.GRPCServer.Host, cfg.GRPCServer.Port)
		rpcServer = grpc.NewServer(baseLogger)
		go func() {
			logs.Info("grpc health listening", zap.String("addr", rpcAddr))
			if err := rpcServer.ListenAndServe(rpcAddr); err != nil {
				errCh <- fmt.Errorf("grpc server start failed: %w", err)
			}
		}()
		// 存储已经打开，可以对外宣告就绪
		rpcServer.SetServing(true)
	}

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		logs.Error("服务异常退出", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if rpcServer != nil {
		rpcServer.Shutdown(shutdownCtx)
	}
	stopSweep()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logs.Warn("http server shutdown", zap.Error(err))
	}
	runtime.Shutdown()
}
