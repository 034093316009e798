package handler

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/daycare-backend/internal/config"
	"github.com/stemsi/daycare-backend/internal/middleware"
	"github.com/stemsi/daycare-backend/internal/response"
)

const metricsInterval = 7 * time.Second

// SystemHandler streams process, database and change-feed health via SSE.
type SystemHandler struct {
	rdb       *redis.Client
	pool      *pgxpool.Pool
	startTime time.Time
	log       zerolog.Logger
}

func NewSystemHandler(rdb *redis.Client, pool *pgxpool.Pool, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		rdb:       rdb,
		pool:      pool,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

type systemMetrics struct {
	Timestamp int64  `json:"timestamp"`
	Uptime    string `json:"uptime"`

	// Process
	Goroutines  int     `json:"goroutines"`
	HeapAlloc   uint64  `json:"heap_alloc"`
	NumGC       uint32  `json:"num_gc"`
	AppRSSBytes uint64  `json:"app_rss_bytes"`
	LoadAvg1    float64 `json:"load_avg_1"`
	GoVersion   string  `json:"go_version"`

	// PostgreSQL pool
	DBTotalConns    int32 `json:"db_total_conns"`
	DBAcquiredConns int32 `json:"db_acquired_conns"`
	DBIdleConns     int32 `json:"db_idle_conns"`
	DBMaxConns      int32 `json:"db_max_conns"`

	// Redis and the change feed
	RedisUp         bool  `json:"redis_up"`
	RedisLatencyMS  int64 `json:"redis_latency_ms"`
	QueueActivity   int64 `json:"queue_activity"`
	FeedSubscribers int64 `json:"feed_subscribers"`
}

// SystemMetricsSSE godoc
// GET /api/v1/admin/system/metrics
// Emits a "metrics" event on connect and every few seconds after.
func (h *SystemHandler) SystemMetricsSSE(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	log := h.log.With().Int("admin_id", claims.UserID).Logger()
	log.Info().Msg("Admin attached to system metrics")

	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()

	c.SSEvent("metrics", h.collect(c.Request.Context()))
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			log.Info().Msg("Admin detached from system metrics")
			return false
		case <-ticker.C:
			c.SSEvent("metrics", h.collect(c.Request.Context()))
			return true
		}
	})
}

func (h *SystemHandler) collect(ctx context.Context) systemMetrics {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	m := systemMetrics{
		Timestamp:  time.Now().Unix(),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
		Goroutines: runtime.NumGoroutine(),
		HeapAlloc:  ms.HeapAlloc,
		NumGC:      ms.NumGC,
		GoVersion:  runtime.Version(),
	}
	m.AppRSSBytes, _ = readProcessRSS()
	m.LoadAvg1, _ = readLoadAvg()

	if h.pool != nil {
		st := h.pool.Stat()
		m.DBTotalConns = st.TotalConns()
		m.DBAcquiredConns = st.AcquiredConns()
		m.DBIdleConns = st.IdleConns()
		m.DBMaxConns = st.MaxConns()
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	channel := config.CacheKey.ChangesChannel()
	started := time.Now()
	pipe := h.rdb.Pipeline()
	pipe.Ping(ctx)
	queueCmd := pipe.LLen(ctx, config.WorkerKey.PersistActivityQueue)
	subsCmd := pipe.PubSubNumSub(ctx, channel)
	if _, err := pipe.Exec(ctx); err != nil {
		h.log.Warn().Err(err).Msg("Redis metrics unavailable")
		return m
	}
	m.RedisUp = true
	m.RedisLatencyMS = time.Since(started).Milliseconds()
	m.QueueActivity = queueCmd.Val()
	m.FeedSubscribers = subsCmd.Val()[channel]
	return m
}

// readLoadAvg returns the one-minute load average from /proc/loadavg.
func readLoadAvg() (float64, error) {
	data, err := os.ReadFile("/proc/loadavg")
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0, fmt.Errorf("unexpected /proc/loadavg format")
	}
	return strconv.ParseFloat(fields[0], 64)
}

// readProcessRSS reads VmRSS (kB) from /proc/self/status.
func readProcessRSS() (uint64, error) {
	f, err := os.Open("/proc/self/status")
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && fields[0] == "VmRSS:" {
			kb, err := strconv.ParseUint(fields[1], 10, 64)
			return kb * 1024, err
		}
	}
	return 0, fmt.Errorf("VmRSS not found")
}
