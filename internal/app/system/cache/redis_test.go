package cache_test

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/dalemusser/studyhub/internal/app/system/cache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// scriptedRedis answers SCAN with fixed keys and fails every DEL, without a
// server behind the client.
type scriptedRedis struct {
	keys    []string
	deleted int
}

func (s *scriptedRedis) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("no server in tests")
	}
}

func (s *scriptedRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		switch strings.ToLower(cmd.Name()) {
		case "scan":
			cmd.(*redis.ScanCmd).SetVal(s.keys, 0)
			return nil
		case "del":
			s.deleted++
			err := errors.New("READONLY replica")
			cmd.SetErr(err)
			return err
		}
		return next(ctx, cmd)
	}
}

func (s *scriptedRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestRedis_ClearAllLogsDeleteFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer rdb.Close()
	script := &scriptedRedis{keys: []string{"studyhub:a", "studyhub:b"}}
	rdb.AddHook(script)

	c := cache.NewRedis(rdb, "studyhub", zap.New(core))
	c.Clear(context.Background())

	if script.deleted != 1 {
		t.Fatalf("DEL calls: got %d, want 1", script.deleted)
	}
	if n := logs.FilterMessage("cache clear-all delete failed").Len(); n != 1 {
		t.Errorf("delete failure warnings: got %d, want 1", n)
	}
}
