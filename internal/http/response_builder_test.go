package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSONResponseBuilder(t *testing.T) {
	tests := []struct {
		name        string
		builder     *JSONResponseBuilder
		wantStatus  int
		wantBody    bool
		wantHeaders map[string]string
	}{
		{
			name:       "default ok with body",
			builder:    NewJSONResponse().Body(map[string]int{"n": 1}),
			wantStatus: http.StatusOK,
			wantBody:   true,
		},
		{
			name:       "no content ignores body",
			builder:    NewJSONResponse().Status(http.StatusNoContent).Body("x"),
			wantStatus: http.StatusNoContent,
		},
		{
			name:        "custom header",
			builder:     NewJSONResponse().Status(http.StatusCreated).Header("Location", "/products/1").Body(struct{}{}),
			wantStatus:  http.StatusCreated,
			wantBody:    true,
			wantHeaders: map[string]string{"Location": "/products/1"},
		},
		{
			name:        "unauthorized challenge",
			builder:     UnauthorizedError("nope"),
			wantStatus:  http.StatusUnauthorized,
			wantBody:    true,
			wantHeaders: map[string]string{"WWW-Authenticate": `Bearer realm="backoffice"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.builder.Write(rr)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if got := rr.Body.Len() > 0; got != tt.wantBody {
				t.Errorf("has body = %v, want %v", got, tt.wantBody)
			}
			if tt.wantBody && rr.Header().Get("Content-Type") != "application/json; charset=utf-8" {
				t.Errorf("content type = %q", rr.Header().Get("Content-Type"))
			}
			for k, v := range tt.wantHeaders {
				if got := rr.Header().Get(k); got != v {
					t.Errorf("header %s = %q, want %q", k, got, v)
				}
			}
		})
	}
}

func TestValidationErrorResponse(t *testing.T) {
	rr := httptest.NewRecorder()
	ValidationErrorResponse(map[string]string{"quantity": "ensure this value is greater than or equal to 1"}).Write(rr)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	var body errorBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success || body.Error != "validation failed" || body.Fields["quantity"] == "" {
		t.Errorf("body = %+v", body)
	}
}
