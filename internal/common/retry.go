package common

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// RetryableFunc 可以被重试的操作
type RetryableFunc func() error

// Config 重试策略
type Config struct {
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64
	label        string
}

// Option 重试选项
type Option func(*Config)

// WithMaxRetries 最大重试次数 (不含第一次), 默认 3
func WithMaxRetries(n int) Option {
	return func(c *Config) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithInitialDelay 第一次重试前的等待, 默认 1s
func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.initialDelay = d
		}
	}
}

// WithMaxDelay 单次等待上限, 默认 30s
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.maxDelay = d
		}
	}
}

// WithMultiplier 指数退避倍数, 默认 2
func WithMultiplier(m float64) Option {
	return func(c *Config) {
		if m > 0 {
			c.multiplier = m
		}
	}
}

// WithLabel 日志里显示的操作名称
func WithLabel(label string) Option {
	return func(c *Config) {
		c.label = label
	}
}

func defaultConfig() *Config {
	return &Config{
		maxRetries:   3,
		initialDelay: time.Second,
		maxDelay:     30 * time.Second,
		multiplier:   2.0,
	}
}

// Do 按指数退避执行 fn, 直到成功、次数用尽或 ctx 结束
//
// 只用于启动阶段 (例如连接数据库); 请求链路上的上游调用不做重试。
//
//	err := common.Do(ctx, func() error {
//	    return db.Ping()
//	}, common.WithMaxRetries(5), common.WithLabel("postgres"))
func Do(ctx context.Context, fn RetryableFunc, opts ...Option) error {
	if fn == nil {
		return errors.New("retry: function cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	lastErr := fn()
	if lastErr == nil {
		return nil
	}

	delay := cfg.initialDelay
	for attempt := 1; attempt <= cfg.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("retry aborted after %d attempts: %w", attempt, err)
		}

		if cfg.label != "" {
			log.Printf("🔁 [%s] 第 %d 次重试, %v 后执行: %v", cfg.label, attempt, delay, lastErr)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted during backoff (attempt %d/%d): %w", attempt, cfg.maxRetries, ctx.Err())
		case <-timer.C:
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}
		delay = nextDelay(delay, cfg.maxDelay, cfg.multiplier)
	}

	return fmt.Errorf("retry failed after %d attempts: %w", cfg.maxRetries+1, lastErr)
}

// nextDelay 计算下一次等待时间, 不超过 maxDelay
func nextDelay(current, maxDelay time.Duration, multiplier float64) time.Duration {
	next := time.Duration(float64(current) * multiplier)
	if next > maxDelay {
		return maxDelay
	}
	return next
}
