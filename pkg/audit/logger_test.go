package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/oyaguma3/hr-portal/pkg/logging"
)

func parseEntry(t *testing.T, buf *bytes.Buffer) Entry {
	t.Helper()
	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	return entry
}

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "portal-server", logging.NewMasker(false))

	ctx := logging.ContextWithOrigin(context.Background(), "origin-1")
	ctx = logging.ContextWithTraceID(ctx, "trace-1")
	logger.Log(ctx, Entry{Msg: "custom", Operation: OpLogin})

	entry := parseEntry(t, &buf)
	if entry.Level != "INFO" {
		t.Errorf("expected level INFO, got %s", entry.Level)
	}
	if entry.App != "portal-server" {
		t.Errorf("expected app portal-server, got %s", entry.App)
	}
	if entry.EventID != "AUDIT_LOG" {
		t.Errorf("expected event_id AUDIT_LOG, got %s", entry.EventID)
	}
	if entry.Origin != "origin-1" {
		t.Errorf("expected origin origin-1, got %s", entry.Origin)
	}
	if entry.TraceID != "trace-1" {
		t.Errorf("expected trace_id trace-1, got %s", entry.TraceID)
	}
	if entry.Time == "" {
		t.Error("expected time to be set")
	}
}

func TestLogger_LogLogin(t *testing.T) {
	tests := []struct {
		name     string
		masking  bool
		username string
		want     string
	}{
		{"masked", true, "alice", "a***e"},
		{"plain", false, "alice", "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLoggerWithWriter(&buf, "portal-server", logging.NewMasker(tt.masking))

			logger.LogLogin(context.Background(), tt.username, "hr", "/hr")

			entry := parseEntry(t, &buf)
			if entry.Operation != OpLogin {
				t.Errorf("expected operation login, got %s", entry.Operation)
			}
			if entry.Username != tt.want {
				t.Errorf("expected username %s, got %s", tt.want, entry.Username)
			}
			if entry.Role != "hr" || entry.Path != "/hr" {
				t.Errorf("expected role hr path /hr, got %s %s", entry.Role, entry.Path)
			}
		})
	}
}

func TestLogger_LogLoginRejected(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "portal-server", nil)

	logger.LogLoginRejected(context.Background(), "", "username")

	output := buf.String()
	if !strings.Contains(output, `"operation":"login_rejected"`) {
		t.Error("expected operation to be login_rejected")
	}
	if !strings.Contains(output, `"reason":"invalid_username"`) {
		t.Error("expected reason to be invalid_username")
	}
	if strings.Contains(output, `"username"`) {
		t.Error("expected empty username to be omitted")
	}
}

func TestLogger_LogLogout(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "portal-tui", nil)

	logger.LogLogout(context.Background(), "employee")

	entry := parseEntry(t, &buf)
	if entry.Operation != OpLogout {
		t.Errorf("expected operation logout, got %s", entry.Operation)
	}
	if entry.Msg != "logout" {
		t.Errorf("expected msg logout, got %s", entry.Msg)
	}
}

func TestLogger_LogDeny(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "portal-server", nil)

	logger.LogDeny(context.Background(), "/hr", "employee", "role_mismatch")

	entry := parseEntry(t, &buf)
	if entry.Operation != OpDeny {
		t.Errorf("expected operation deny, got %s", entry.Operation)
	}
	if entry.Path != "/hr" || entry.Role != "employee" || entry.Reason != "role_mismatch" {
		t.Errorf("unexpected entry: %+v", entry)
	}
}

func TestLogger_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "portal-server", nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.LogDeny(context.Background(), "/hr", "", "unauthenticated")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 50 {
		t.Fatalf("expected 50 lines, got %d", len(lines))
	}
	for _, line := range lines {
		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Errorf("line is not valid JSON: %v", err)
		}
	}
}
