package bootstrap

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/notrick-no/iReasearch/config"
	"github.com/redis/go-redis/v9"
)

const defaultRedisPingTimeout = 5 * time.Second

// RedisConnectConfig contains configuration for the session Redis connection.
type RedisConnectConfig struct {
	Redis  config.RedisConfig
	Logger *slog.Logger
}

// redisTopology is the resolved shape of the configured deployment.
type redisTopology int

const (
	topologyDirect redisTopology = iota
	topologySentinel
	topologyCluster
)

// ConnectRedis builds the session Redis client for the configured topology and verifies it
// with a PING before returning it.
//
//nolint:ireturn // single, sentinel and cluster clients share redis.UniversalClient.
func ConnectRedis(ctx context.Context, cfg RedisConnectConfig) (redis.UniversalClient, error) {
	opts, topo, desc, err := redisOptions(cfg.Redis)
	if err != nil {
		return nil, err
	}

	var client redis.UniversalClient
	switch topo {
	case topologyCluster:
		client = redis.NewClusterClient(opts.Cluster())
	case topologySentinel:
		client = redis.NewFailoverClient(opts.Failover())
	default:
		client = redis.NewClient(opts.Simple())
	}

	timeout := cfg.Redis.PingTimeout
	if timeout <= 0 {
		timeout = defaultRedisPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if pingErr := client.Ping(pingCtx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis: %w", pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.InfoContext(ctx, "redis connected", "addr", redactAddr(desc), "db", opts.DB)
	}
	return client, nil
}

// redisOptions resolves RedisConfig into client options. desc names the target for logs and
// may still carry credentials; pass it through redactAddr.
func redisOptions(cfg config.RedisConfig) (*redis.UniversalOptions, redisTopology, string, error) {
	switch {
	case cfg.UseCluster:
		opts := &redis.UniversalOptions{Addrs: normalizeAddrs(cfg.ClusterNodes), Password: cfg.Password}
		if len(opts.Addrs) == 0 {
			addr, user, pass, tlsCfg, err := clusterFallbackFromURI(cfg.URI, cfg.Password)
			if err != nil {
				return nil, 0, "", err
			}
			if addr != "" {
				opts.Addrs = []string{addr}
				opts.Username, opts.Password, opts.TLSConfig = user, pass, tlsCfg
			}
		}
		if len(opts.Addrs) == 0 {
			return nil, 0, "", errors.New("redis cluster configuration requires at least one address")
		}
		return opts, topologyCluster, "cluster:" + strings.Join(opts.Addrs, ","), nil

	case cfg.UseSentinel:
		nodes := normalizeAddrs(cfg.SentinelNodes)
		if len(nodes) == 0 {
			return nil, 0, "", errors.New("redis sentinel configuration requires at least one sentinel node")
		}
		return &redis.UniversalOptions{
			Addrs:            nodes,
			MasterName:       cfg.SentinelMasterName,
			Password:         cfg.Password,
			SentinelPassword: cfg.SentinelPassword,
			DB:               cfg.DB,
		}, topologySentinel, "sentinel:" + cfg.SentinelMasterName, nil
	}

	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, 0, "", errors.New("redis direct configuration requires a URI")
	}
	if !isRedisURL(uri) {
		return &redis.UniversalOptions{Addrs: []string{uri}, Password: cfg.Password, DB: cfg.DB}, topologyDirect, uri, nil
	}
	parsed, err := redis.ParseURL(uri)
	if err != nil {
		return nil, 0, "", fmt.Errorf("parse redis url: %w", err)
	}
	return &redis.UniversalOptions{
		Addrs:     []string{parsed.Addr},
		Username:  parsed.Username,
		Password:  parsed.Password,
		DB:        parsed.DB,
		TLSConfig: parsed.TLSConfig,
	}, topologyDirect, uri, nil
}

// redactAddr strips credentials from a connection description before logging.
func redactAddr(desc string) string {
	if u, err := url.Parse(desc); err == nil && u.User != nil {
		u.User = url.User("*")
		return u.Redacted()
	}
	if i := strings.LastIndex(desc, "@"); i > -1 {
		return desc[i+1:]
	}
	return desc
}

func normalizeAddrs(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, addr := range raw {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// clusterFallbackFromURI seeds a cluster from REDIS_URI when no nodes are listed.
func clusterFallbackFromURI(uri, defaultPassword string) (addr, user, password string, tlsCfg *tls.Config, err error) {
	trimmed := strings.TrimSpace(uri)
	if trimmed == "" {
		return "", "", defaultPassword, nil, nil
	}
	if !isRedisURL(trimmed) {
		return trimmed, "", defaultPassword, nil, nil
	}

	opt, err := redis.ParseURL(trimmed)
	if err != nil {
		return "", "", defaultPassword, nil, fmt.Errorf("parse redis cluster url: %w", err)
	}
	password = defaultPassword
	if opt.Password != "" {
		password = opt.Password
	}
	return opt.Addr, opt.Username, password, opt.TLSConfig, nil
}

func isRedisURL(value string) bool {
	return strings.HasPrefix(value, "redis://") || strings.HasPrefix(value, "rediss://")
}
