package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dori/taskdeck/internal/store"
)

// Defaults. The page sizes match the web client this backend was built for:
// a 3x3 project grid and a ten-row task list.
const (
	DefaultAPIURL           = "http://localhost:8080/api/v1"
	DefaultTimeout          = 10 * time.Second
	DefaultProjectsPageSize = 9
	DefaultTasksPageSize    = 10
)

// Config holds the runtime configuration.
type Config struct {
	APIURL           string
	Timeout          time.Duration
	DataDir          string
	StorePath        string
	ProjectsPageSize int
	TasksPageSize    int
}

// Load reads configuration from a .env file (if present) and the
// environment, falling back to defaults. A missing .env is not an error.
func Load() *Config {
	godotenv.Load()

	cfg := &Config{
		APIURL:           DefaultAPIURL,
		Timeout:          DefaultTimeout,
		DataDir:          store.DefaultDataDir(),
		ProjectsPageSize: DefaultProjectsPageSize,
		TasksPageSize:    DefaultTasksPageSize,
	}

	if v := os.Getenv("TASKDECK_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("TASKDECK_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.Timeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("TASKDECK_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}

	cfg.StorePath = filepath.Join(cfg.DataDir, "taskdeck.db")
	return cfg
}
