package handlers

import (
	"github.com/KUKARAF/webtimer/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler serves the liveness probe. The probe reports healthy
// independent of timer state; the live-timer count is informational only.
type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(c *gin.Context) {
	overall := "ok"

	dbStatus := "ok"
	sqlDB, err := h.db.DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "degraded"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "degraded"
	}

	var timerCount int64
	var liveTimers interface{}
	if err := h.db.Model(&models.TimerRecord{}).Count(&timerCount).Error; err != nil {
		liveTimers = "error: " + err.Error()
		overall = "degraded"
	} else {
		liveTimers = timerCount
	}

	c.JSON(200, gin.H{
		"status":  overall,
		"service": "webtimer",
		"components": gin.H{
			"database":    dbStatus,
			"live_timers": liveTimers,
		},
	})
}
