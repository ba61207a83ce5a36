package database

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tair/qr-order/pkg/logger"
)

func TestGormLoggerTrace(t *testing.T) {
	query := func() (string, int64) { return "SELECT 1", 1 }
	now := time.Now()

	tests := []struct {
		name      string
		level     gormlogger.LogLevel
		begin     time.Time
		err       error
		wantLevel string
		wantMsg   string
	}{
		{"failed query", gormlogger.Warn, now, errors.New("boom"), "error", "Query failed"},
		{"slow query", gormlogger.Warn, now.Add(-time.Second), nil, "warn", "Slow query"},
		{"record not found", gormlogger.Warn, now, gorm.ErrRecordNotFound, "", ""},
		{"fast query at warn", gormlogger.Warn, now, nil, "", ""},
		{"silent", gormlogger.Silent, now, errors.New("boom"), "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger.InitWithWriter("test", &buf)
			l := NewGormLogger(gormlogger.Warn, 200*time.Millisecond).LogMode(tt.level)

			l.Trace(context.Background(), tt.begin, query, tt.err)

			out := strings.TrimSpace(buf.String())
			if tt.wantLevel == "" {
				if out != "" {
					t.Fatalf("logged %s, want nothing", out)
				}
				return
			}

			var entry map[string]interface{}
			if err := json.Unmarshal([]byte(out), &entry); err != nil {
				t.Fatalf("decode %q: %v", out, err)
			}
			if entry["level"] != tt.wantLevel || entry["message"] != tt.wantMsg {
				t.Errorf("entry = %v, want %s %q", entry, tt.wantLevel, tt.wantMsg)
			}
			if entry["component"] != "gorm" || entry["sql"] != "SELECT 1" {
				t.Errorf("entry = %v, want gorm component with sql", entry)
			}
		})
	}
}
