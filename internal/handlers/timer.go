package handlers

import (
	"errors"

	"github.com/KUKARAF/webtimer/internal/clock"
	"github.com/KUKARAF/webtimer/internal/services"
	"github.com/KUKARAF/webtimer/internal/store"
	"github.com/KUKARAF/webtimer/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TimerHandler adapts HTTP requests onto the timer service. It holds no
// state of its own.
type TimerHandler struct {
	svc *services.TimerService
}

func NewTimerHandler(db *gorm.DB, clk clock.Clock) *TimerHandler {
	return &TimerHandler{
		svc: services.NewTimerService(store.New(db), clk),
	}
}

type createTimerRequest struct {
	DurationSeconds *int64 `json:"duration_seconds" form:"duration_seconds"`
	Name            string `json:"name" form:"name"`
	// Browser forms post the name under timer_name.
	TimerName string `json:"-" form:"timer_name"`
}

// Create handles POST /timers. It accepts JSON or form bodies.
func (h *TimerHandler) Create(c *gin.Context) {
	var req createTimerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "duration_seconds must be a valid number")
		return
	}
	if req.DurationSeconds == nil {
		response.BadRequest(c, "duration_seconds is required")
		return
	}

	name := req.Name
	if name == "" {
		name = req.TimerName
	}

	view, err := h.svc.Create(*req.DurationSeconds, name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDuration):
			response.BadRequest(c, err.Error())
		case errors.Is(err, store.ErrDuplicateName):
			response.Conflict(c, err.Error())
		default:
			response.Error(c, err)
		}
		return
	}

	response.Created(c, view)
}

// Get handles GET /timers/:identifier, resolving by id first, then name.
func (h *TimerHandler) Get(c *gin.Context) {
	view, err := h.svc.Resolve(c.Param("identifier"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(c, "timer not found")
			return
		}
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

// Delete handles DELETE /timers/:identifier.
func (h *TimerHandler) Delete(c *gin.Context) {
	deleted, err := h.svc.Delete(c.Param("identifier"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(c, "timer not found")
			return
		}
		response.Error(c, err)
		return
	}
	if !deleted {
		// A concurrent delete got there first.
		response.NotFound(c, "timer not found")
		return
	}
	response.Success(c, gin.H{"message": "timer deleted"})
}

// List handles GET /timers, returning every live timer in creation order.
func (h *TimerHandler) List(c *gin.Context) {
	views, err := h.svc.List()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, views)
}
