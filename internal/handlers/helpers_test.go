package handlers

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/nastly29/home-organizer/internal/middleware"
	"github.com/nastly29/home-organizer/internal/services"
	"github.com/nastly29/home-organizer/internal/testutil"
)

const (
	ownerUID  = "uid-owner"
	memberUID = "uid-member"
	strayUID  = "uid-stray"
)

type route struct {
	method  string
	path    string
	handler drift.HandlerFunc
}

// newTestApp mounts routes behind the body parser and bearer auth, the way
// the server does.
func newTestApp(jwtSvc *services.JWTService, routes ...route) http.Handler {
	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	for _, r := range routes {
		switch r.method {
		case http.MethodGet:
			app.Get(r.path, r.handler)
		case http.MethodPost:
			app.Post(r.path, r.handler)
		case http.MethodPatch:
			app.Patch(r.path, r.handler)
		case http.MethodDelete:
			app.Delete(r.path, r.handler)
		}
	}
	return app
}

func newClient(t *testing.T, routes ...route) (*testutil.HTTPTestClient, *services.JWTService) {
	t.Helper()
	jwtSvc := testutil.TestJWTService()
	return testutil.NewHTTPTestClient(t, newTestApp(jwtSvc, routes...)), jwtSvc
}

func authAs(t *testing.T, jwtSvc *services.JWTService, uid string) map[string]string {
	t.Helper()
	return testutil.AuthHeader(testutil.GenerateTestToken(t, jwtSvc, uid, uid+"@example.com"))
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d. Body: %s", status, rec.Code, rec.Body.String())
	}
	if got := testutil.ErrorCode(t, rec); got != code {
		t.Fatalf("expected error %q, got %q", code, got)
	}
}

type published struct {
	teamID    uuid.UUID
	eventType string
	uid       string
}

// recordingNotifier captures change notifications instead of streaming them.
type recordingNotifier struct {
	mu           sync.Mutex
	published    []published
	disconnected []string
}

func (n *recordingNotifier) Publish(teamID uuid.UUID, eventType, uid string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.published = append(n.published, published{teamID: teamID, eventType: eventType, uid: uid})
}

func (n *recordingNotifier) Disconnect(teamID uuid.UUID, uid string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.disconnected = append(n.disconnected, teamID.String()+"/"+uid)
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.published))
	for i, p := range n.published {
		out[i] = p.eventType
	}
	return out
}
