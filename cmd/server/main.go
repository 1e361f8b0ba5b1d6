package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/xtding233/collect-sim/internal/calc"
	"github.com/xtding233/collect-sim/internal/conf"
	"github.com/xtding233/collect-sim/internal/grpcapi"
	"github.com/xtding233/collect-sim/internal/log"
	"github.com/xtding233/collect-sim/internal/preset"
)

func main() {
	cfg, err := conf.ParseEnv()
	if err != nil {
		log.DefaultGlobals(false)
		log.Fatal(context.Background(), "failed to parse config from env", zap.Error(err))
	}
	defer log.DefaultGlobals(cfg.Debug)()
	ctx := log.Into(context.Background(), "server")

	calculator := calc.New(cfg.MinTrials, cfg.MaxTrials)
	presets := preset.NewLoader(cfg.PresetDir)

	if cfg.PresetWatchInterval > 0 {
		watcher := preset.NewFileWatcher(cfg.PresetDir, cfg.PresetWatchInterval, func(path string) {
			log.Info(ctx, "preset changed, dropping cache", zap.String("path", path))
			presets.Invalidate()
		})
		watcher.Start()
		defer watcher.Stop()
	}

	h := &handlers{calc: calculator, presets: presets}
	httpSrv := &http.Server{
		Addr:              cfg.HTTPBind,
		Handler:           h.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcSrv := grpc.NewServer(grpc.UnaryInterceptor(grpcapi.UnaryLogger))
	grpcapi.Register(grpcSrv, grpcapi.NewServer(calculator))
	lis, err := net.Listen("tcp", cfg.GRPCBind)
	if err != nil {
		log.Fatal(ctx, "grpc listen", zap.Error(err))
	}

	go func() {
		log.Info(ctx, "grpc listening", zap.String("addr", cfg.GRPCBind))
		if err := grpcSrv.Serve(lis); err != nil {
			log.Fatal(ctx, "grpc server error", zap.Error(err))
		}
	}()
	go func() {
		log.Info(ctx, "http listening", zap.String("addr", cfg.HTTPBind))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(ctx, "http server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)
	grpcSrv.GracefulStop()
}
