package ingestion

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/VitalSync/health-ingestor/internal/config"
	"github.com/VitalSync/health-ingestor/internal/types"
	"github.com/VitalSync/health-ingestor/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Controller handles HTTP requests for health data ingestion
type Controller struct {
	service        *Service
	maxUploadBytes int64
}

// NewController creates a new ingestion controller
func NewController(service *Service, cfg *config.Config) *Controller {
	return &Controller{
		service:        service,
		maxUploadBytes: cfg.MaxUploadBytes,
	}
}

// Sync godoc
// @Summary Bulk-sync health records from a mobile SDK
// @Description Accepts { records: [...] } or a single bare record; validates every record and upserts keyed by (user, date)
// @Tags ingestion
// @Accept json
// @Produce json
// @Success 200 {object} types.IngestResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /api/v1/sync [post]
func (ctrl *Controller) Sync(c *gin.Context) {
	if !strings.Contains(c.GetHeader("Content-Type"), "application/json") {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error: "Content-Type must be application/json",
		})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		utils.Zlog.Error("Failed to read sync body", zap.Error(err))
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error: "Unable to read request body",
		})
		return
	}

	count, err := ctrl.service.SyncRecords(c.Request.Context(), body)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.IngestResponse{Success: true, Count: count})
}

// Upload godoc
// @Summary Upload a health data CSV file
// @Description Accepts a multipart form with a single 'file' field, a text/csv file under 10 MiB
// @Tags ingestion
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} types.IngestResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /api/v1/upload [post]
func (ctrl *Controller) Upload(c *gin.Context) {
	if !strings.Contains(c.GetHeader("Content-Type"), "multipart/form-data") {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error: "Content-Type must be multipart/form-data",
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error: "Missing file. Send a 'file' field with the CSV.",
		})
		return
	}

	if fileHeader.Size >= ctrl.maxUploadBytes {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error: "File must be smaller than 10MB",
		})
		return
	}

	mime := strings.ToLower(fileHeader.Header.Get("Content-Type"))
	if mime != "text/csv" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error: "File must be text/csv",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.Zlog.Error("Failed to open uploaded file",
			zap.String("filename", fileHeader.Filename),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error: "An unexpected error occurred",
		})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, ctrl.maxUploadBytes))
	if err != nil {
		utils.Zlog.Error("Failed to read uploaded file",
			zap.String("filename", fileHeader.Filename),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error: "An unexpected error occurred",
		})
		return
	}

	count, err := ctrl.service.UploadCSV(c.Request.Context(), content, fileHeader.Filename)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.IngestResponse{Success: true, Count: count})
}

// respondError maps pipeline failures onto the wire: validation and parse
// problems are 400 with the precise reason, everything else is 500 with a
// generic message (detail is logged at the point of failure).
func (ctrl *Controller) respondError(c *gin.Context, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: ve.Message})
		return
	}

	message := err.Error()
	if message == "" {
		message = "An unexpected error occurred"
	}
	c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: message})
}
