package configuration

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/robocore-nitk/club-admin/pkg/logging"
)

const Production = "production"

var singleton = sync.OnceValue(func() *Configuration {
	c, err := Load([]string{".env", ".env.local"})
	if err != nil {
		panic(err)
	}
	return c
})

// LoadEnv loads the env files that exist, looking first in the working
// directory and then in the nearest directory holding a go.mod.
func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if fileExists(file) {
			existingFiles = append(existingFiles, file)
		}
	}

	if len(existingFiles) == 0 {
		if wd, err := os.Getwd(); err == nil {
			if root, ok := findGoModRoot(wd); ok {
				for _, file := range envFiles {
					candidate := filepath.Join(root, file)
					if fileExists(candidate) {
						existingFiles = append(existingFiles, candidate)
					}
				}
			}
		}
	}

	if len(existingFiles) == 0 {
		return 0, nil
	}

	return len(existingFiles), godotenv.Load(existingFiles...)
}

type APIOptions struct {
	BaseURL           string        `env:"API_BASE_URL" envDefault:"http://localhost:5000/api"`
	Authorization     string        `env:"API_AUTHORIZATION"`
	SessionCookie     string        `env:"API_SESSION_COOKIE"`
	SessionCookieName string        `env:"API_SESSION_COOKIE_NAME" envDefault:"sessionid"`
	Timeout           time.Duration `env:"API_TIMEOUT" envDefault:"30s"`
	// The client sends a fresh uuid in this header on every call.
	RequestIDHeader string `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`
}

func (a *APIOptions) Validate() error {
	u, err := url.Parse(strings.TrimSpace(a.BaseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API_BASE_URL=%q", a.BaseURL)
	}
	if a.Timeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive, got %s", a.Timeout)
	}
	return nil
}

type RoutingOptions struct {
	ErrorPagesPath string `env:"ROUTING_ERROR_PAGES_PATH" envDefault:"config/routing/error_pages.yaml"`
	Entrypoint     string `env:"ROUTING_ENTRYPOINT" envDefault:"admin"`
}

type ToastOptions struct {
	Duration time.Duration `env:"TOAST_DURATION" envDefault:"3s"`
}

type ListOptions struct {
	ApplicationsPageSize int `env:"APPLICATIONS_PAGE_SIZE" envDefault:"20"`
	CardsPageSize        int `env:"CARDS_PAGE_SIZE" envDefault:"9"`
}

func (l *ListOptions) Validate() error {
	if l.ApplicationsPageSize <= 0 {
		return fmt.Errorf("APPLICATIONS_PAGE_SIZE must be positive, got %d", l.ApplicationsPageSize)
	}
	if l.CardsPageSize <= 0 {
		return fmt.Errorf("CARDS_PAGE_SIZE must be positive, got %d", l.CardsPageSize)
	}
	return nil
}

type PrometheusOptions struct {
	Enabled   bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"false"`
	Namespace string `env:"PROMETHEUS_NAMESPACE" envDefault:"robocore_admin"`
}

// TelemetryOptions enables trace export of API calls when Endpoint is set.
type TelemetryOptions struct {
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"club-admin"`
}

type Configuration struct {
	API        APIOptions
	Routing    RoutingOptions
	Toast      ToastOptions
	Lists      ListOptions
	Prometheus PrometheusOptions
	Telemetry  TelemetryOptions

	ActionLogEnabled bool   `env:"ACTION_LOG_ENABLED" envDefault:"true"`
	// ActionLogPath keeps the action log between runs; empty keeps it in memory.
	ActionLogPath    string `env:"ACTION_LOG_PATH"`
	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"error"`
	LogPath          string `env:"LOG_PATH"`
	// Timezone used when rendering dates for admins.
	DisplayTimezone string `env:"DISPLAY_TIMEZONE" envDefault:"Asia/Kolkata"`

	logFile *os.File
	logger  *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

func (c *Configuration) Location() *time.Location {
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Use() *Configuration {
	return singleton()
}

// Load builds a configuration from the environment after applying envFiles.
func Load(envFiles []string) (*Configuration, error) {
	c := &Configuration{}
	if err := c.load(envFiles); err != nil {
		c.Unload()
		return nil, err
	}
	return c, nil
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 && c.GoAppEnvironment != Production {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}

	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api configuration error: %w", err)
	}
	if err := c.Lists.Validate(); err != nil {
		return fmt.Errorf("list configuration error: %w", err)
	}
	if c.Toast.Duration <= 0 {
		return fmt.Errorf("TOAST_DURATION must be positive, got %s", c.Toast.Duration)
	}
	if _, err := time.LoadLocation(c.DisplayTimezone); err != nil {
		return fmt.Errorf("invalid DISPLAY_TIMEZONE=%q: %w", c.DisplayTimezone, err)
	}
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")

	f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
	if err != nil {
		return err
	}
	c.logFile = f
	c.logger = logger
	return nil
}

// Unload closes the log file, if any.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
		c.logFile = nil
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func findGoModRoot(start string) (string, bool) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
