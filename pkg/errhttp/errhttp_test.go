package errhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	transferdomain "github.com/plantops/plantops/services/transfer/domain"
)

func TestWriteError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ErrTransferNotFound", transferdomain.ErrTransferNotFound, http.StatusNotFound},
		{"ErrGroupNotFound", transferdomain.ErrGroupNotFound, http.StatusNotFound},
		{"ErrMaterialNotFound", transferdomain.ErrMaterialNotFound, http.StatusNotFound},
		{"ErrInvalidStateTransition", transferdomain.ErrInvalidStateTransition, http.StatusConflict},
		{"ErrValidation", transferdomain.ErrValidation, http.StatusUnprocessableEntity},
		{"wrapped ErrTransferNotFound", fmt.Errorf("get transfer: %w", transferdomain.ErrTransferNotFound), http.StatusNotFound},
		{"wrapped ErrValidation", fmt.Errorf("%w: bad quantity", transferdomain.ErrValidation), http.StatusUnprocessableEntity},
		{"unknown error", errors.New("something unexpected"), http.StatusInternalServerError},
		{"generic wrapped error", fmt.Errorf("context: %w", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestWriteError_InsufficientStockCarriesBalance(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, fmt.Errorf("complete: %w", &transferdomain.InsufficientStockError{
		MaterialNumber: "MAT-10-0042",
		OnHand:         10,
		Requested:      20,
	}))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if body["material_number"] != "MAT-10-0042" {
		t.Fatalf("expected material number in body, got %v", body)
	}
	if body["on_hand"] != float64(10) || body["requested"] != float64(20) {
		t.Fatalf("expected balances in body, got %v", body)
	}
}

func TestWriteError_JSONBody(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, transferdomain.ErrTransferNotFound)

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if _, ok := body["error"]; !ok {
		t.Fatal("response body missing 'error' key")
	}
}
