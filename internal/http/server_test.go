package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTimeoutsDefaults(t *testing.T) {
	got := Timeouts{}.withDefaults()
	if got.Read != 10*time.Second || got.Write != 15*time.Second || got.Idle != 60*time.Second {
		t.Fatalf("unexpected defaults: %+v", got)
	}

	custom := Timeouts{Read: time.Second, Write: 2 * time.Second, Idle: 3 * time.Second}.withDefaults()
	if custom.Read != time.Second || custom.Write != 2*time.Second || custom.Idle != 3*time.Second {
		t.Fatalf("configured timeouts overridden: %+v", custom)
	}
}

func TestServerAppliesConfiguredTimeouts(t *testing.T) {
	s := NewServer(":0", http.NotFoundHandler(), Timeouts{Read: 2 * time.Second}, zap.NewNop())
	if s.server.ReadTimeout != 2*time.Second {
		t.Fatalf("read timeout = %s", s.server.ReadTimeout)
	}
	if s.server.WriteTimeout != 15*time.Second {
		t.Fatalf("write timeout default lost: %s", s.server.WriteTimeout)
	}
}

func TestAccessLogRecordsStatusAndPath(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	handler := accessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}), zap.New(core))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stations", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status not passed through: %d", rec.Code)
	}
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 access log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusBadRequest) {
		t.Fatalf("logged status = %v", fields["status"])
	}
	if fields["path"] != "/stations" {
		t.Fatalf("logged path = %v", fields["path"])
	}
}
