package health

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Status is the health endpoint payload.
type Status struct {
	Status    string                 `json:"status"` // "healthy" or "degraded"
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]interface{} `json:"checks"`
}

// Checker reports liveness and readiness for the API.
type Checker struct {
	db        *gorm.DB
	startTime time.Time
}

func NewChecker(db *gorm.DB) *Checker {
	return &Checker{db: db, startTime: time.Now()}
}

// Check pings the database and gathers runtime stats.
func (hc *Checker) Check() Status {
	status := Status{
		Timestamp: time.Now(),
		Checks:    make(map[string]interface{}),
	}

	dbHealthy := true
	start := time.Now()
	if sqlDB, err := hc.db.DB(); err != nil || sqlDB.Ping() != nil {
		dbHealthy = false
	}
	status.Checks["database"] = map[string]interface{}{
		"healthy":    dbHealthy,
		"latency_ms": time.Since(start).Milliseconds(),
	}
	status.Checks["goroutines"] = runtime.NumGoroutine()
	status.Checks["uptime_seconds"] = int64(time.Since(hc.startTime).Seconds())

	if dbHealthy {
		status.Status = "healthy"
	} else {
		status.Status = "degraded"
	}
	return status
}

// Handler serves GET /health.
func (hc *Checker) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := hc.Check()
		code := 200
		if s.Status != "healthy" {
			code = 503
		}
		c.JSON(code, s)
	}
}
