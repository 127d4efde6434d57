package middleware

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"Tracker/Models"

	"github.com/gofiber/fiber/v2"
)

// LogConfig holds configuration for the request logging middleware
type LogConfig struct {
	// Enable console logging
	Console bool
	// Enable file logging
	File bool
	// Log file path
	LogFilePath string
	// Log format: "json" or "text"
	Format string
	// Skip logging for specific paths
	SkipPaths []string
}

// LogData is one logged request
type LogData struct {
	Timestamp time.Time     `json:"timestamp"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Status    int           `json:"status"`
	Latency   time.Duration `json:"latency"`
	IP        string        `json:"ip"`
	UserID    uint          `json:"user_id,omitempty"`
	Username  string        `json:"username,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// DefaultLogConfig returns the default logging configuration
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Console:     true,
		File:        true,
		LogFilePath: "logs/requests.log",
		Format:      "json",
		SkipPaths:   []string{"/health"},
	}
}

// RequestLogger logs every request with the default configuration
func RequestLogger() fiber.Handler {
	return LoggingMiddleware()
}

// LoggingMiddleware creates a request logging middleware
func LoggingMiddleware(config ...LogConfig) fiber.Handler {
	cfg := DefaultLogConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.File {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFilePath), 0755); err != nil {
			log.Printf("Error creating logs directory: %v\n", err)
		}
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()

		for _, skipPath := range cfg.SkipPaths {
			if c.Path() == skipPath {
				return c.Next()
			}
		}

		err := c.Next()

		data := LogData{
			Timestamp: start,
			Method:    c.Method(),
			Path:      c.Path(),
			Status:    c.Response().StatusCode(),
			Latency:   time.Since(start),
			IP:        c.IP(),
		}
		if user, ok := c.Locals("user").(Models.User); ok {
			data.UserID = user.ID
			data.Username = user.Username
		}
		if err != nil {
			data.Error = err.Error()
		}

		logRequest(cfg, data)
		return err
	}
}

func logRequest(cfg LogConfig, data LogData) {
	var message string
	switch cfg.Format {
	case "json":
		encoded, _ := json.Marshal(data)
		message = string(encoded)
	default:
		message = fmt.Sprintf("[%s] %s %s %d %s %s",
			data.Timestamp.Format("2006-01-02 15:04:05"),
			data.Method, data.Path, data.Status, data.Latency, data.IP)
	}

	if cfg.Console {
		log.Println(message)
	}
	if cfg.File {
		logToFile(cfg.LogFilePath, message)
	}
}

func logToFile(filePath, message string) {
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Error opening log file: %v\n", err)
		return
	}
	defer file.Close()

	if _, err := file.WriteString(message + "\n"); err != nil {
		log.Printf("Error writing to log file: %v\n", err)
	}
}
