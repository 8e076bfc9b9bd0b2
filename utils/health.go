package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Redis     []bool    `json:"redis"`
	Upstream  bool      `json:"upstream"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Probe reports whether a dependency is reachable.
type Probe func(ctx context.Context) error

// HealthMonitor keeps the latest health snapshot in memory.
type HealthMonitor struct {
	redisClients []*redis.Client
	upstream     Probe

	mu      sync.RWMutex
	current HealthStatus
}

func NewHealthMonitor(redisClients []*redis.Client, upstream Probe) *HealthMonitor {
	return &HealthMonitor{redisClients: redisClients, upstream: upstream}
}

// Status returns latest stored health snapshot.
func (h *HealthMonitor) Status() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Check runs every probe once and stores the result.
func (h *HealthMonitor) Check(ctx context.Context) HealthStatus {
	redisHealth := make([]bool, 0, len(h.redisClients))
	for _, client := range h.redisClients {
		err := client.Ping(ctx).Err()
		redisHealth = append(redisHealth, err == nil)
	}

	upstreamHealthy := true
	if h.upstream != nil {
		upstreamHealthy = h.upstream(ctx) == nil
	}

	status := HealthStatus{
		Redis:     redisHealth,
		Upstream:  upstreamHealthy,
		CheckedAt: time.Now(),
	}
	h.mu.Lock()
	h.current = status
	h.mu.Unlock()
	return status
}

// Start performs periodic health checks until ctx is done.
func (h *HealthMonitor) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		h.Check(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.Check(ctx)
			}
		}
	}()
}
