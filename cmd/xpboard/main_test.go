package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/naveenspark/xpboard/internal/profile"
)

const testToken = "aaa.bbb.ccc"

const testProfile = `{
  "data": {
    "user": [{
      "id": 7,
      "firstName": "Ada",
      "lastName": "Lovelace",
      "auditRatio": 1.5,
      "groups": [{"id": 1}],
      "xps": [
        {"amount": 4000, "path": "/adam/piscine-go/ex1"},
        {"amount": 2000, "path": "/adam/module/piscine-js/ex2"},
        {"amount": 10000, "path": "/adam/module/graphql"}
      ]
    }],
    "transaction": [
      {"type": "skill_go", "amount": 55, "createdAt": "2024-01-01T10:00:00+00:00"},
      {"type": "skill_prog", "amount": 80, "createdAt": "2024-01-02T10:00:00+00:00"}
    ]
  }
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/signin", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "ada" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		io.WriteString(w, `"`+testToken+`"`) //nolint:errcheck
	})
	mux.HandleFunc("/api/graphql-engine/v1/graphql", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		io.WriteString(w, testProfile) //nolint:errcheck
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// setupEnv points config at srv and a fresh state dir.
func setupEnv(t *testing.T, srv *httptest.Server, store string) {
	t.Helper()
	t.Setenv("XPBOARD_CONFIG", "")
	t.Setenv("XPBOARD_TOKEN", "")
	t.Setenv("XPBOARD_SIGNIN_URL", srv.URL+"/api/auth/signin")
	t.Setenv("XPBOARD_GRAPHQL_URL", srv.URL+"/api/graphql-engine/v1/graphql")
	t.Setenv("XPBOARD_STATE_DIR", t.TempDir())
	t.Setenv("XPBOARD_STORE", store)
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoginShowLogout(t *testing.T) {
	for _, store := range []string{"file", "sqlite"} {
		t.Run(store, func(t *testing.T) {
			setupEnv(t, newTestServer(t), store)

			out, err := execute(t, "secret\n", "login", "-u", "ada")
			if err != nil {
				t.Fatalf("login: %v", err)
			}
			if !strings.Contains(out, "Logged in as ada") {
				t.Errorf("login output = %q", out)
			}

			out, err = execute(t, "", "show")
			if err != nil {
				t.Fatalf("show: %v", err)
			}
			for _, want := range []string{"Welcome, Ada :)", "Ada Lovelace", "1.500", "4.00 KB", "80 KB", "80%"} {
				if !strings.Contains(out, want) {
					t.Errorf("show output missing %q:\n%s", want, out)
				}
			}

			out, err = execute(t, "", "logout")
			if err != nil || !strings.Contains(out, "Logged out.") {
				t.Fatalf("logout: %q, %v", out, err)
			}
			out, err = execute(t, "", "logout")
			if err != nil || !strings.Contains(out, "Already logged out.") {
				t.Errorf("second logout: %q, %v", out, err)
			}

			out, err = execute(t, "", "show")
			if err != nil || !strings.Contains(out, "xpboard login") {
				t.Errorf("show after logout: %q, %v", out, err)
			}
		})
	}
}

func TestShowJSON(t *testing.T) {
	setupEnv(t, newTestServer(t), "file")
	if _, err := execute(t, "ada\nsecret\n", "login"); err != nil {
		t.Fatalf("login: %v", err)
	}

	out, err := execute(t, "", "show", "--json")
	if err != nil {
		t.Fatalf("show --json: %v", err)
	}
	var r report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if r.Welcome != "Ada" {
		t.Errorf("welcome = %q", r.Welcome)
	}
	if len(r.Categories) != 3 || r.Categories[0].Label != profile.CategoryPiscineGo || r.Categories[0].Value != 4000 {
		t.Errorf("categories = %+v", r.Categories)
	}
	if len(r.Skills) != 1 || r.Skills[0].Label != "go" || r.Skills[0].Value != 55 {
		t.Errorf("skills = %+v", r.Skills)
	}
	if len(r.Daily) != 2 || r.Daily[0].Day != "2024-01-01" {
		t.Errorf("daily = %+v", r.Daily)
	}
}

func TestLoginRejected(t *testing.T) {
	setupEnv(t, newTestServer(t), "file")
	_, err := execute(t, "wrong\n", "login", "-u", "ada")
	if err == nil || err.Error() != "Login failed" {
		t.Fatalf("err = %v, want Login failed", err)
	}
	out, err := execute(t, "", "show")
	if err != nil || !strings.Contains(out, "xpboard login") {
		t.Errorf("failed login must not leave a session: %q, %v", out, err)
	}
}

func TestShowWithTokenOverride(t *testing.T) {
	setupEnv(t, newTestServer(t), "file")
	t.Setenv("XPBOARD_TOKEN", testToken)

	out, err := execute(t, "", "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "Welcome, Ada :)") {
		t.Errorf("show output = %q", out)
	}
}

func TestShowUnauthorizedToken(t *testing.T) {
	setupEnv(t, newTestServer(t), "file")
	t.Setenv("XPBOARD_TOKEN", "x.y.z")

	_, err := execute(t, "", "show")
	if err == nil || err.Error() != "Error loading data" {
		t.Fatalf("err = %v, want Error loading data", err)
	}
}

func TestShowRejectedOverrideKeepsStoredSession(t *testing.T) {
	setupEnv(t, newTestServer(t), "file")
	if _, err := execute(t, "secret\n", "login", "-u", "ada"); err != nil {
		t.Fatalf("login: %v", err)
	}

	t.Setenv("XPBOARD_TOKEN", "x.y.z")
	if _, err := execute(t, "", "show"); err == nil {
		t.Fatal("expected show to fail with the rejected token")
	}

	t.Setenv("XPBOARD_TOKEN", "")
	out, err := execute(t, "", "show")
	if err != nil || !strings.Contains(out, "Welcome, Ada :)") {
		t.Errorf("stored session must survive a rejected override: %q, %v", out, err)
	}
}

func TestShowUnauthorizedStoredTokenClears(t *testing.T) {
	srv := newTestServer(t)
	setupEnv(t, srv, "sqlite")
	if _, err := execute(t, "secret\n", "login", "-u", "ada"); err != nil {
		t.Fatalf("login: %v", err)
	}
	// point the query at a server that refuses every token
	refuse := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(refuse.Close)
	t.Setenv("XPBOARD_GRAPHQL_URL", refuse.URL)

	if _, err := execute(t, "", "show"); err == nil {
		t.Fatal("expected show to fail")
	}
	out, err := execute(t, "", "show")
	if err != nil || !strings.Contains(out, "xpboard login") {
		t.Errorf("refused token must be cleared: %q, %v", out, err)
	}
}

func TestPromptCredentials(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		username string
		wantUser string
		wantPass string
		wantErr  error
	}{
		{"both prompted", "ada\nsecret\n", "", "ada", "secret", nil},
		{"flag username", "secret\n", "ada", "ada", "secret", nil},
		{"no trailing newline", "secret", "ada", "ada", "secret", nil},
		{"crlf", "ada\r\nsecret\r\n", "", "ada", "secret", nil},
		{"empty password", "\n", "ada", "", "", errMissingCredentials},
		{"empty username", "\nsecret\n", "", "", "", errMissingCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, pass, err := promptCredentials(strings.NewReader(tt.in), io.Discard, tt.username)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user != tt.wantUser || pass != tt.wantPass {
				t.Errorf("got %q/%q, want %q/%q", user, pass, tt.wantUser, tt.wantPass)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil || strings.TrimSpace(out) != "xpboard dev" {
		t.Errorf("version = %q, %v", out, err)
	}
}

func TestNewReport(t *testing.T) {
	m := &profile.Metrics{ID: "1", LastName: "Byron", CategoryTotals: map[string]int64{}}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	r := newReport(m, "ada", now)
	if r.Welcome != "ada" {
		t.Errorf("welcome = %q, want username fallback", r.Welcome)
	}
	if !r.Generated.Equal(now) || r.Generated.Location() != time.UTC {
		t.Errorf("generated = %v", r.Generated)
	}
	if len(r.Skills) != 0 {
		t.Errorf("skills = %+v", r.Skills)
	}
}
