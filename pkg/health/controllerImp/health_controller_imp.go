package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"farmwork/pkg/logging"
)

var appStart = time.Now()

type HealthCtrl struct {
	db  *gorm.DB
	log logging.Logger
}

func NewHealthCtrl(db *gorm.DB, log logging.Logger) *HealthCtrl {
	return &HealthCtrl{db: db, log: log}
}

type check struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

// Health reports database reachability and whether the overlap triggers are
// installed. Either failing answers 503.
func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	db := h.pingDB(ctx)
	guards := check{OK: false, Err: "skipped"}
	if db.OK {
		guards = h.overlapGuards(ctx)
	}

	allOK := db.OK && guards.OK
	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
		h.log.Warn("health check failed", "database", db.Err, "overlap_guards", guards.Err)
	}

	return c.JSON(status, map[string]any{
		"status":     map[string]any{"ok": allOK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks": map[string]any{
			"database":       db,
			"overlap_guards": guards,
		},
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthCtrl) pingDB(ctx context.Context) check {
	if h.db == nil {
		return check{Err: "gorm db is nil"}
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return check{Err: "db.DB(): " + err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return check{Err: "ping: " + err.Error()}
	}
	return check{OK: true}
}

func (h *HealthCtrl) overlapGuards(ctx context.Context) check {
	var n int64
	err := h.db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM sqlite_master WHERE type = 'trigger' AND name LIKE 'assignments_no_overlap_%'").
		Scan(&n).Error
	if err != nil {
		return check{Err: err.Error()}
	}
	if n < 2 {
		return check{Err: "overlap triggers missing"}
	}
	return check{OK: true}
}
