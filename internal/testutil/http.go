package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wayfarehq/wayfare/internal/app/system/auth"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithSessionUser injects a signed-in user into the request context,
// bypassing the session middleware. The user's stored fields drive role
// and permission checks exactly as a real session would.
func WithSessionUser(r *http.Request, u models.User) *http.Request {
	su := &auth.SessionUser{
		ID:          u.ID.Hex(),
		Name:        u.FullName,
		Email:       u.Email,
		Role:        u.Role,
		Permissions: u.Permissions,
	}
	return auth.WithTestUser(r, su)
}

// NewJSONRequest builds a request whose body is the JSON encoding of v.
func NewJSONRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()

	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(v); err != nil {
		t.Fatalf("encode request body: %v", err)
	}
	r := httptest.NewRequest(method, target, &body)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// DecodeJSON unmarshals a recorded response body into dst.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response body %q: %v", rec.Body.String(), err)
	}
}

// ErrorKind extracts the error kind from an error envelope response.
func ErrorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var envelope struct {
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	DecodeJSON(t, rec, &envelope)
	return envelope.Error.Kind
}

// NewObjectIDHex returns a fresh ObjectID in hex form, for requests that
// reference a resource that does not exist.
func NewObjectIDHex() string {
	return primitive.NewObjectID().Hex()
}
