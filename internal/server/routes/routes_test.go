package routes

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/grimoire-app/grimoire/backend/internal/server/middleware"
	"github.com/grimoire-app/grimoire/backend/pkg/taxonomy"

	"github.com/go-playground/validator"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
)

type structValidator struct {
	validate *validator.Validate
}

func (v *structValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// newRouteContext builds an unauthenticated request context. Handlers
// validate input before checking the user, so a request that clears
// validation is answered with 401 and one that does not with 400.
func newRouteContext(method, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = &structValidator{validate: validator.New()}

	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	return &middleware.AppContext{Context: c, App: &middleware.App{}}, rec
}

func TestSessionNumberParamAllowsZero(t *testing.T) {
	handlers := []struct {
		name    string
		method  string
		handler echo.HandlerFunc
	}{
		{name: "show", method: http.MethodGet, handler: GetSessionHandler},
		{name: "update", method: http.MethodPut, handler: UpdateSessionHandler},
		{name: "delete", method: http.MethodDelete, handler: DeleteSessionHandler},
	}

	for _, tt := range handlers {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newRouteContext(tt.method, "")
			c.SetParamNames("campaign_slug", "number")
			c.SetParamValues("lost-mines", "0")

			if err := tt.handler(c); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("session zero: got status %d, want %d", rec.Code, http.StatusUnauthorized)
			}
		})

		t.Run(tt.name+" negative number", func(t *testing.T) {
			c, rec := newRouteContext(tt.method, "")
			c.SetParamNames("campaign_slug", "number")
			c.SetParamValues("lost-mines", "-1")

			if err := tt.handler(c); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("negative number: got status %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestCreateNodeFieldLimits(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{
			name: "name at limit",
			body: fmt.Sprintf(`{"name": %q}`, strings.Repeat("a", 255)),
			want: http.StatusUnauthorized,
		},
		{
			name: "name too long",
			body: fmt.Sprintf(`{"name": %q}`, strings.Repeat("a", 256)),
			want: http.StatusBadRequest,
		},
		{
			name: "summary too long",
			body: fmt.Sprintf(`{"name": "Gundren", "summary": %q}`, strings.Repeat("a", 501)),
			want: http.StatusBadRequest,
		},
	}

	handler := CreateNodeHandler(taxonomy.NodeCharacter)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newRouteContext(http.MethodPost, tt.body)
			c.SetParamNames("campaign_slug")
			c.SetParamValues("lost-mines")

			if err := handler(c); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != tt.want {
				t.Errorf("got status %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestCreateEdgeFieldLimits(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{
			name: "strength in range",
			body: `{"source_node_id": "a", "target_node_id": "b", "type": "ally_of", "strength": 5}`,
			want: http.StatusUnauthorized,
		},
		{
			name: "strength above range",
			body: `{"source_node_id": "a", "target_node_id": "b", "type": "ally_of", "strength": 11}`,
			want: http.StatusBadRequest,
		},
		{
			name: "strength far above range",
			body: `{"source_node_id": "a", "target_node_id": "b", "type": "ally_of", "strength": 999}`,
			want: http.StatusBadRequest,
		},
		{
			name: "label too long",
			body: fmt.Sprintf(`{"source_node_id": "a", "target_node_id": "b", "type": "ally_of", "label": %q}`, strings.Repeat("a", 101)),
			want: http.StatusBadRequest,
		},
		{
			name: "type too long",
			body: fmt.Sprintf(`{"source_node_id": "a", "target_node_id": "b", "type": %q}`, strings.Repeat("a", 51)),
			want: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newRouteContext(http.MethodPost, tt.body)
			c.SetParamNames("campaign_slug")
			c.SetParamValues("lost-mines")

			if err := CreateEdgeHandler(c); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != tt.want {
				t.Errorf("got status %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	if !isUniqueViolation(dup) {
		t.Fatal("bare unique violation not detected")
	}
	if !isUniqueViolation(fmt.Errorf("create edge: %w", dup)) {
		t.Fatal("wrapped unique violation not detected")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("foreign key violation misread as unique violation")
	}
	if isUniqueViolation(errors.New("connection reset")) {
		t.Fatal("plain error misread as unique violation")
	}
}
