// launching the server, model client, kafka
package appServer

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ds124wfegd/adgen/config"
	"github.com/ds124wfegd/adgen/internal/pkg/kafka"
	"github.com/ds124wfegd/adgen/internal/pkg/processor"
	"github.com/ds124wfegd/adgen/internal/pkg/replicate"
	"github.com/ds124wfegd/adgen/internal/service"
	"github.com/ds124wfegd/adgen/internal/transport"
	"github.com/ds124wfegd/adgen/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

type Server struct {
	mu         sync.Mutex
	httpServer *http.Server
	closed     bool
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return http.ErrServerClosed
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       time.Minute, // multipart uploads
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	httpServer := s.httpServer
	s.mu.Unlock()
	return httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	httpServer := s.httpServer
	s.mu.Unlock()
	if httpServer == nil {
		return nil
	}
	return httpServer.Shutdown(ctx)
}

// NewRouter wires services and handlers on top of cfg. The returned producer
// is owned by the caller.
func NewRouter(cfg *config.Config) (*gin.Engine, kafka.Producer, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, nil, err
	}
	static, err := web.Static()
	if err != nil {
		return nil, nil, err
	}

	if cfg.Replicate.APIToken == "" {
		logrus.Warn("REPLICATE_API_TOKEN is not set, generation requests will fail")
	}

	runner := replicate.NewClient(replicate.Options{
		BaseURL:      cfg.Replicate.BaseURL,
		APIToken:     cfg.Replicate.APIToken,
		Timeout:      cfg.Replicate.Timeout,
		WaitSeconds:  cfg.Replicate.WaitSeconds,
		PollInterval: cfg.Replicate.PollInterval,
	})
	imgProcessor := processor.NewImageProcessor(cfg.Upload.MaxSide)
	kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)

	genService := service.NewGenerationService(runner, imgProcessor, kafkaProducer)
	downloadService := service.NewDownloadService(
		&http.Client{Timeout: cfg.Download.Timeout},
		imgProcessor,
		cfg.Download.AllowedHosts,
	)

	router := transport.InitRoutes(transport.Handlers{
		Generate: transport.NewGenerateHandler(genService, cfg.Upload.MaxBytes),
		Download: transport.NewDownloadHandler(downloadService),
		Pages:    transport.NewPageHandler(),

		GenerateTimeout: cfg.Replicate.Timeout,
		DownloadTimeout: cfg.Download.Timeout,
	}, tmpl, static)

	return router, kafkaProducer, nil
}

func NewServer(cfg *config.Config) error {

	logrus.SetFormatter(new(logrus.JSONFormatter))
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.Warnf("unknown log level %q, keeping %s", cfg.Log.Level, logrus.GetLevel())
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router, kafkaProducer, err := NewRouter(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := kafkaProducer.Close(); err != nil {
			logrus.Errorf("error occured on kafka producer closing: %s", err.Error())
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	srv := new(Server)
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logrus.WithFields(logrus.Fields{
			"port":    cfg.Server.Port,
			"version": cfg.Server.AppVersion,
		}).Print("App Started")
		if err := srv.Run(cfg, router); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logrus.Print("App Shutting Down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logrus.Errorf("error occured while running http server: %s", err.Error())
		return err
	}
	return nil
}
