package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init sends log output to stderr and, when logPath is set, to that file as well.
func Init(logPath string) error {
	return InitTo(os.Stderr, logPath)
}

// InitTo is Init with an explicit console writer. The terminal viewer passes io.Discard.
func InitTo(console io.Writer, logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writers []io.Writer
	if console != nil {
		writers = append(writers, console)
	}

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}
	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

func LogEvent(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
}

// LogRender records one render pass of a component.
func LogRender(component, event string, payload any) {
	log.Println(buildRenderMessage(component, event, payload))
}

// LogRequest records one served HTTP request.
func LogRequest(method, path string, status int, elapsed time.Duration) {
	log.Printf("[HTTP] method=%s path=%s status=%d elapsed=%s", strings.ToUpper(method), path, status, elapsed.Round(time.Microsecond))
}

func buildRenderMessage(component, event string, payload any) string {
	name := strings.TrimSpace(component)
	if name == "" {
		name = "unknown"
	}
	parts := []string{"[RENDER]", fmt.Sprintf("component=%s", name)}
	if event = strings.TrimSpace(event); event != "" {
		parts = append(parts, fmt.Sprintf("event=%s", event))
	}
	parts = append(parts, fmt.Sprintf("payload=%s", formatPayload(payload)))
	return strings.Join(parts, " ")
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
