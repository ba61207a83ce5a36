package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"payload", fmt.Errorf("%w: items must not be empty", ErrInvalidPayload), http.StatusBadRequest},
		{"unavailable", fmt.Errorf("%w: p1", ErrProductUnavailable), http.StatusBadRequest},
		{"table", fmt.Errorf("%w: t1", ErrInvalidTable), http.StatusNotFound},
		{"order", fmt.Errorf("%w: o1", ErrNotFound), http.StatusNotFound},
		{"stock", ErrInsufficientStock, http.StatusConflict},
		{"transition", ErrInvalidTransition, http.StatusConflict},
		{"merge", ErrInvalidMerge, http.StatusConflict},
		{"storage", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFromDB(t *testing.T) {
	if FromDB(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
	if err := FromDB(gorm.ErrRecordNotFound); !errors.Is(err, ErrNotFound) {
		t.Errorf("record not found should map to ErrNotFound, got %v", err)
	}
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	if err := FromDB(unique); !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("unique violation should map to ErrInvalidPayload, got %v", err)
	}
	other := errors.New("boom")
	if err := FromDB(other); err != other {
		t.Errorf("unknown errors must pass through, got %v", err)
	}
}
