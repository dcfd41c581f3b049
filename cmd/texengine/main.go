package main

import (
	"context"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	logrus "github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"texengine/config"
	"texengine/executor"
	"texengine/logger"
	"texengine/natshandler"
	"texengine/pkg"
	"texengine/routes"
	"texengine/service"
)

func main() {
	cfg := config.LoadConfig()

	log := logger.New(cfg.Environment)
	defer log.Sync()

	execLog := logrus.New()
	if cfg.Environment == "development" {
		execLog.SetLevel(logrus.DebugLevel)
	}

	if err := os.MkdirAll(cfg.ScratchRoot, 0o755); err != nil {
		log.Fatal("Failed to create scratch root",
			zap.String("path", cfg.ScratchRoot),
			zap.Error(err))
	}

	var (
		runner executor.Runner
		mgr    *executor.ContainerManager
		wg     sync.WaitGroup
	)
	switch cfg.Engine {
	case "docker":
		var err error
		mgr, err = executor.NewContainerManager(cfg.DockerImage, cfg.ScratchRoot,
			cfg.MaxWorkers, cfg.DockerMemory, cfg.DockerCPUs, execLog)
		if err != nil {
			log.Fatal("Failed to create container manager", zap.Error(err))
		}
		if err := mgr.InitializePool(); err != nil {
			log.Fatal("Failed to initialize container pool", zap.Error(err))
		}
		wg.Add(1)
		go mgr.MonitorContainers(&wg)
		runner = &executor.DockerRunner{Manager: mgr, Bin: cfg.CompilerBin}
	default:
		if _, err := exec.LookPath(cfg.CompilerBin); err != nil {
			log.Fatal("Compiler binary not found. Exiting...",
				zap.String("bin", cfg.CompilerBin))
		}
	}

	compiler := executor.NewCompiler(executor.CompilerOptions{
		Bin:           cfg.CompilerBin,
		ExtraArgs:     cfg.CompilerArgs,
		ScratchRoot:   cfg.ScratchRoot,
		Timeout:       cfg.CompileTimeout,
		LogExcerptMax: cfg.LogExcerptMax,
		Runner:        runner,
		Logger:        execLog,
	})
	pool := executor.NewWorkerPool(compiler, cfg.MaxWorkers, cfg.QueueSize)

	if cfg.WarmupOnStart {
		if err := executor.Warmup(compiler); err != nil {
			log.Warn("Warmup compile failed", zap.Error(err))
		}
	}

	svc := service.NewCompileService(pool, cfg.MaxSourceBytes)

	// NATS is optional: the HTTP endpoint stays up without a broker.
	nc, err := nats.Connect(cfg.NatsURL)
	if err != nil {
		log.Warn("Failed to connect to NATS, continuing HTTP-only",
			zap.String("url", cfg.NatsURL),
			zap.Error(err))
	} else {
		defer nc.Close()
		nc.Subscribe(natshandler.CompileSubject, func(msg *nats.Msg) {
			natshandler.HandleCompileRequest(msg, nc, svc, log)
		})
	}

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	routes.Register(r, svc, pkg.NewRateLimiter(cfg.RatelimitInterval), log)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		log.Info("Listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
	pool.Shutdown()
	if mgr != nil {
		mgr.Shutdown()
	}
	wg.Wait()
}
