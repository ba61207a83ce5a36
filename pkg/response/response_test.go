package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tair/qr-order/pkg/apperr"
)

type detailedErr struct{}

func (detailedErr) Error() string { return "short" }
func (detailedErr) Is(target error) bool { return target == apperr.ErrInsufficientStock }
func (detailedErr) Details() interface{} { return map[string]int{"available": 0} }

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
		wantData   bool
	}{
		{"client error", fmt.Errorf("%w: items required", apperr.ErrInvalidPayload), http.StatusBadRequest, "invalid payload: items required", false},
		{"details", fmt.Errorf("tx: %w", detailedErr{}), http.StatusConflict, "tx: short", true},
		{"server error hidden", errors.New("connection reset"), http.StatusInternalServerError, "Internal server error", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, httptest.NewRequest(http.MethodGet, "/x", nil), tt.err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body Response
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Success || body.Error != tt.wantError {
				t.Errorf("body = %+v", body)
			}
			if (body.Data != nil) != tt.wantData {
				t.Errorf("data = %v, want present=%v", body.Data, tt.wantData)
			}
		})
	}
}
