package dashboard

import (
	"net/http"
	"strconv"

	"github.com/VitalSync/health-ingestor/internal/types"
	"github.com/VitalSync/health-ingestor/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultWindowDays = 30
	maxWindowDays     = 365
)

// Controller handles HTTP requests for dashboard trend data
type Controller struct {
	service *Service
}

func NewController(service *Service) *Controller {
	return &Controller{service: service}
}

// Trends godoc
// @Summary Fetch daily health records and trend aggregates
// @Tags dashboard
// @Produce json
// @Param days query int false "Trailing window in days (default 30, max 365)"
// @Success 200 {object} DashboardResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /api/v1/dashboard [get]
func (ctrl *Controller) Trends(c *gin.Context) {
	days := defaultWindowDays
	if raw := c.Query("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			days = parsed
		}
	}
	if days > maxWindowDays {
		days = maxWindowDays
	}

	resp, err := ctrl.service.GetDashboard(c.Request.Context(), days)
	if err != nil {
		utils.Zlog.Error("Failed to load dashboard data", zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error: "Failed to load data",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}
