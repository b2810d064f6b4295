package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/VitalSync/health-ingestor/internal/types"
	"github.com/google/uuid"
)

type Config struct {
	DatabaseURL         string
	Port                string
	LogLevel            string
	Environment         string
	ServiceName         string
	Hostname            string
	DBPoolSize          int
	MockUserID          string
	MaxUploadBytes      int64
	MaxBatchRecords     int
	StepsGoal           int
	CSVInvalidRowPolicy types.InvalidRowPolicy
}

// DefaultMockUserID stands in for the authenticated principal until session
// management exists. It is always passed down explicitly, never read globally.
const DefaultMockUserID = "00000000-0000-0000-0000-000000000000"

func LoadConfig() (*Config, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "health-ingestor"
	}

	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname, _ = os.Hostname()
	}

	dbPoolSize := 4 // default value
	if ps := os.Getenv("DB_POOL_SIZE"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil {
			dbPoolSize = parsed
		}
	}

	mockUserID := os.Getenv("MOCK_USER_ID")
	if mockUserID == "" {
		mockUserID = DefaultMockUserID
	}
	if _, err := uuid.Parse(mockUserID); err != nil {
		return nil, fmt.Errorf("MOCK_USER_ID must be a valid UUID: %w", err)
	}

	maxUploadBytes := int64(10 * 1024 * 1024) // 10 MiB
	if mb := os.Getenv("MAX_UPLOAD_BYTES"); mb != "" {
		if parsed, err := strconv.ParseInt(mb, 10, 64); err == nil && parsed > 0 {
			maxUploadBytes = parsed
		}
	}

	maxBatchRecords := 1000 // default value
	if mbr := os.Getenv("MAX_BATCH_RECORDS"); mbr != "" {
		if parsed, err := strconv.Atoi(mbr); err == nil && parsed > 0 {
			maxBatchRecords = parsed
		}
	}

	stepsGoal := 10000 // default value
	if sg := os.Getenv("STEPS_GOAL"); sg != "" {
		if parsed, err := strconv.Atoi(sg); err == nil && parsed > 0 {
			stepsGoal = parsed
		}
	}

	csvPolicy := types.PolicyFailFast
	if p := os.Getenv("CSV_INVALID_ROW_POLICY"); p != "" {
		switch types.InvalidRowPolicy(p) {
		case types.PolicyFailFast, types.PolicyDropInvalid:
			csvPolicy = types.InvalidRowPolicy(p)
		default:
			return nil, fmt.Errorf("CSV_INVALID_ROW_POLICY must be %q or %q", types.PolicyFailFast, types.PolicyDropInvalid)
		}
	}

	return &Config{
		DatabaseURL:         databaseURL,
		Port:                port,
		LogLevel:            logLevel,
		Environment:         environment,
		ServiceName:         serviceName,
		Hostname:            hostname,
		DBPoolSize:          dbPoolSize,
		MockUserID:          mockUserID,
		MaxUploadBytes:      maxUploadBytes,
		MaxBatchRecords:     maxBatchRecords,
		StepsGoal:           stepsGoal,
		CSVInvalidRowPolicy: csvPolicy,
	}, nil
}
