package redis

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"

	"easyloan/internal/pkg/config"
	"easyloan/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisClientConstructor func(opt *redis.Options) *redis.Client

type RedisClient struct {
	Client *redis.Client
}

var errInvalidPEM = errors.New("redis cert content is neither a CA bundle nor a client key pair")

func ConnectToRedis(ctx context.Context, cfg config.RedisConfig, newClientFunc RedisClientConstructor) (*RedisClient, error) {
	logger.CtxInfo(ctx, "Connecting to Redis",
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
		zap.Bool("enable_tls", cfg.EnableTLS),
	)

	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	if cfg.EnableTLS {
		tlsConfig, err := buildTLSConfig(cfg.CertContent)
		if err != nil {
			logger.CtxError(ctx, "Failed to build Redis TLS config", err)
			return nil, fmt.Errorf("failed to build TLS config: %w", err)
		}
		opts.TLSConfig = tlsConfig
	}

	if newClientFunc == nil {
		newClientFunc = redis.NewClient
	}
	client := newClientFunc(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		logger.CtxError(ctx, "Redis ping failed", err)
		return nil, err
	}

	logger.CtxInfo(ctx, "Successfully connected to Redis", zap.String("addr", cfg.Addr))
	return &RedisClient{Client: client}, nil
}

// buildTLSConfig accepts PEM holding a CA bundle, a client cert and key, or both.
func buildTLSConfig(certContent string) (*tls.Config, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
	if certContent == "" {
		return tlsConfig, nil
	}

	pemBytes := []byte(certContent)
	loaded := false

	if cert, err := tls.X509KeyPair(pemBytes, pemBytes); err == nil {
		tlsConfig.Certificates = []tls.Certificate{cert}
		loaded = true
	}

	pool := x509.NewCertPool()
	if pool.AppendCertsFromPEM(pemBytes) {
		tlsConfig.RootCAs = pool
		loaded = true
	}

	if !loaded {
		return nil, errInvalidPEM
	}
	return tlsConfig, nil
}

func Disconnect(client *redis.Client) error {
	return client.Close()
}
