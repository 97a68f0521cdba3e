package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"xdao.co/nkeys/internal/config"
	"xdao.co/nkeys/internal/observability"
	"xdao.co/nkeys/nkeys"
	"xdao.co/nkeys/signer"
)

func main() {
	fs := flag.NewFlagSet("nkeysd", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file (yaml, json or toml)")
	listen := fs.String("listen", "", "Listen address (overrides config)")
	seedFile := fs.String("seed-file", "", "Encoded seed file (overrides config)")
	_ = fs.Parse(os.Args[1:])

	if *seedFile != "" {
		_ = os.Setenv("NKEYS_SEED_FILE", *seedFile)
	}
	if *listen != "" {
		_ = os.Setenv("NKEYS_LISTEN", *listen)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := observability.SetupLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	if err := serve(cfg, logger); err != nil {
		logger.Error("nkeysd stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func loadKeyPair(cfg *config.Config) (nkeys.KeyPair, error) {
	b, err := os.ReadFile(cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	defer func() {
		for i := range b {
			b[i] = 0
		}
	}()
	kp, err := nkeys.FromSeed(string(bytes.TrimSpace(b)))
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", cfg.SeedFile, err)
	}
	if want := cfg.Role(); want != 0 && kp.Role() != want {
		return nil, fmt.Errorf("seed file %s: role %s, expected %s", cfg.SeedFile, kp.Role(), want)
	}
	return kp, nil
}

func serve(cfg *config.Config, logger *zap.Logger) error {
	kp, err := loadKeyPair(cfg)
	if err != nil {
		return err
	}
	logger.Info("key pair loaded", observability.KeyPairFields(kp)...)

	lis, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return err
	}
	defer lis.Close()

	opts := []grpc.ServerOption{grpc.UnaryInterceptor(signer.LoggingInterceptor(logger))}
	if cfg.MaxMsgBytes > 0 {
		opts = append(opts, grpc.MaxRecvMsgSize(cfg.MaxMsgBytes), grpc.MaxSendMsgSize(cfg.MaxMsgBytes))
	}
	s := grpc.NewServer(opts...)
	signer.RegisterSignerServer(s, &signer.Server{KeyPair: kp, Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		s.GracefulStop()
	}()

	logger.Info("nkeysd listening", zap.String("addr", lis.Addr().String()))
	return s.Serve(lis)
}
