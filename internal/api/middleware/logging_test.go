package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

// captureLogger — logger, пишущий JSON-записи в буфер для проверки.
func captureLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// lastLogEntry разбирает последнюю запись журнала из буфера.
func lastLogEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) == 0 || len(lines[len(lines)-1]) == 0 {
		t.Fatal("Журнал пуст")
	}
	var entry map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &entry); err != nil {
		t.Fatalf("Ошибка разбора записи журнала: %v", err)
	}
	return entry
}

// TestRequestLogger_Levels: уровень записи зависит от статус-кода,
// служебные пути логируются на DEBUG.
func TestRequestLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		status    int
		wantLevel string
	}{
		{name: "Успешный запрос", path: "/api/v1/properties", status: http.StatusOK, wantLevel: "INFO"},
		{name: "Ошибка клиента", path: "/api/v1/properties/999", status: http.StatusNotFound, wantLevel: "WARN"},
		{name: "Ошибка сервера", path: "/api/v1/contact", status: http.StatusInternalServerError, wantLevel: "ERROR"},
		{name: "Health probe", path: "/health/ready", status: http.StatusOK, wantLevel: "DEBUG"},
		{name: "Metrics scrape", path: "/metrics", status: http.StatusOK, wantLevel: "DEBUG"},
		{name: "Упавший probe", path: "/health/ready", status: http.StatusServiceUnavailable, wantLevel: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := RequestLogger(captureLogger(&buf))(http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
				}))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			handler.ServeHTTP(httptest.NewRecorder(), req)

			entry := lastLogEntry(t, &buf)
			if entry["level"] != tt.wantLevel {
				t.Errorf("level = %v, хотели %v", entry["level"], tt.wantLevel)
			}
			if entry["status"] != float64(tt.status) {
				t.Errorf("status = %v, хотели %d", entry["status"], tt.status)
			}
			if entry["path"] != tt.path {
				t.Errorf("path = %v, хотели %v", entry["path"], tt.path)
			}
			if entry["component"] != "http" {
				t.Errorf("component = %v, хотели %q", entry["component"], "http")
			}
		})
	}
}

// TestRequestLogger_BytesWritten: размер ответа попадает в запись.
func TestRequestLogger_BytesWritten(t *testing.T) {
	var buf bytes.Buffer
	body := []byte(`{"items":[]}`)
	handler := RequestLogger(captureLogger(&buf))(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Write(body)
		}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/agents", nil))

	entry := lastLogEntry(t, &buf)
	if entry["bytes"] != float64(len(body)) {
		t.Errorf("bytes = %v, хотели %d", entry["bytes"], len(body))
	}
	if entry["status"] != float64(http.StatusOK) {
		t.Errorf("status = %v, хотели %d", entry["status"], http.StatusOK)
	}
}
