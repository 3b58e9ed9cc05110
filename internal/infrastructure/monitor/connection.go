package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/homeharmony/backend/internal/infrastructure/buffer"
)

// Probe checks one dependency.
type Probe struct {
	Name    string
	Timeout time.Duration
	Check   func(ctx context.Context) error
}

// PostgresProbe pings a pgx pool.
func PostgresProbe(pool *pgxpool.Pool) Probe {
	return Probe{Name: "postgres", Timeout: 3 * time.Second, Check: pool.Ping}
}

// RedisProbe pings a go-redis client.
func RedisProbe(client *redislib.Client) Probe {
	return Probe{Name: "redis", Timeout: 2 * time.Second, Check: func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}}
}

// SQLiteProbe pings the database behind a gorm handle.
func SQLiteProbe(db *gorm.DB) Probe {
	return Probe{Name: "sqlite", Timeout: 2 * time.Second, Check: func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}}
}

type Monitor struct {
	probes []Probe
	buffer *buffer.Store

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(buf *buffer.Store, interval time.Duration, logger *zap.Logger, probes ...Probe) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		probes:   probes,
		buffer:   buf,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// IsOnline reports whether every storage probe succeeded on the last check.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Healthy()
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := m.status
	out.Components = make(map[string]bool, len(m.status.Components))
	for k, v := range m.status.Components {
		out.Components[k] = v
	}
	return out
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Refresh()
	for {
		select {
		case <-ticker.C:
			m.Refresh()
		case <-m.stopCh:
			return
		}
	}
}

// Refresh runs every probe once and stores the result.
func (m *Monitor) Refresh() {
	status := Status{
		Components: make(map[string]bool, len(m.probes)+1),
		LastCheck:  time.Now(),
	}
	for _, p := range m.probes {
		status.Components[p.Name] = m.run(p)
	}
	if m.buffer != nil {
		size, err := m.buffer.Size()
		if err != nil {
			m.logger.Warn("buffer size check failed", zap.Error(err))
		}
		status.Components["buffer"] = err == nil
		status.BufferSize = size
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}

func (m *Monitor) run(p Probe) bool {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := p.Check(ctx); err != nil {
		m.logger.Debug("probe failed", zap.String("component", p.Name), zap.Error(err))
		return false
	}
	return true
}
