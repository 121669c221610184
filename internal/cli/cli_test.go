package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/j-veylop/aiconsole/internal/config"
	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/services"
	"github.com/j-veylop/aiconsole/internal/services/servicestest"
)

var (
	gptID    = uuid.NewString()
	botID    = uuid.NewString()
	grantID  = uuid.NewString()
	createID = uuid.NewString()
)

type result struct {
	mgr    *services.Manager
	stdout string
	stderr string
	code   int
}

type harness struct {
	handler  http.Handler
	stdin    string
	password string
	signedIn bool
	runTUI   func(*services.Manager, *config.Config) error
}

func (h harness) run(t *testing.T, args ...string) result {
	t.Helper()

	mgr := servicestest.NewManager(t, h.handler, h.signedIn)
	var out, errOut bytes.Buffer
	opts := Options{
		Config: &config.Config{
			APIURL:            "http://localhost:8091",
			Profile:           "test",
			LogsPageSize:      20,
			StatsHistoryLimit: 60,
		},
		NewManager: func(*config.Config) (*services.Manager, error) { return mgr, nil },
		RunTUI:     h.runTUI,
		ReadPassword: func(string) (string, error) {
			if h.password == "" {
				return "", errors.New("no terminal")
			}
			return h.password, nil
		},
		In:  strings.NewReader(h.stdin),
		Out: &out,
		Err: &errOut,
	}

	// The manager is closed by the test cleanup so that it can be inspected.
	code := newRunner(opts).execute(args)
	return result{mgr: mgr, stdout: out.String(), stderr: errOut.String(), code: code}
}

// fakeBackend serves the admin API endpoints the commands use.
type fakeBackend struct {
	mu       sync.Mutex
	calls    []string
	bodies   map[string][]byte
	networks []models.NeuralNetwork
	clients  []models.ClientApplication
	logs     int
	failWith map[string]int
}

func newBackend() *fakeBackend {
	return &fakeBackend{
		bodies:   make(map[string][]byte),
		failWith: make(map[string]int),
		networks: []models.NeuralNetwork{
			{ID: gptID, Name: "gpt", DisplayName: "GPT-4", Provider: "openai", NetworkType: models.NetworkTypeChat, ModelName: "gpt-4", Priority: 1, IsActive: true},
		},
		clients: []models.ClientApplication{
			{ID: botID, Name: "bot", APIKey: "sk-0123456789abcdef", IsActive: true},
			{ID: "c1", Name: "crm", APIKey: "sk-crm-55556666", IsActive: true},
		},
	}
}

func (b *fakeBackend) record(r *http.Request) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := r.Method + " " + r.URL.Path
	b.calls = append(b.calls, key)
	if r.Body != nil {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r.Body)
		if buf.Len() > 0 {
			b.bodies[key] = buf.Bytes()
		}
	}
	code, fail := b.failWith[key]
	return code, fail
}

func (b *fakeBackend) called(call string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (b *fakeBackend) body(call string) map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out map[string]any
	_ = json.Unmarshal(b.bodies[call], &out)
	return out
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	handle := func(pattern string, fn http.HandlerFunc) {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			if code, fail := b.record(r); fail {
				servicestest.Error(w, code, "")
				return
			}
			fn(w, r)
		})
	}

	handle("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds models.Credentials
		_ = json.Unmarshal(b.bodies["POST /api/auth/login"], &creds)
		if creds.Password == "wrong" {
			servicestest.Error(w, http.StatusUnauthorized, "")
			return
		}
		if creds.Password != "secret" {
			servicestest.Error(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		servicestest.JSON(w, http.StatusOK, models.LoginResponse{Token: "fresh-token", Username: creds.Username, ExpiresIn: 3600})
	})
	handle("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		servicestest.JSON(w, http.StatusOK, models.LoginResponse{Username: "ops"})
	})
	handle("GET /api/admin/networks", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		servicestest.JSON(w, http.StatusOK, b.networks)
	})
	handle("GET /api/admin/networks/{id}", func(w http.ResponseWriter, r *http.Request) {
		servicestest.JSON(w, http.StatusOK, b.networks[0])
	})
	handle("POST /api/admin/networks", func(w http.ResponseWriter, r *http.Request) {
		var req models.NetworkRequest
		_ = json.Unmarshal(b.bodies["POST /api/admin/networks"], &req)
		servicestest.JSON(w, http.StatusCreated, models.NeuralNetwork{ID: createID, Name: req.Name})
	})
	handle("PUT /api/admin/networks/{id}", func(w http.ResponseWriter, r *http.Request) {
		servicestest.JSON(w, http.StatusOK, b.networks[0])
	})
	handle("DELETE /api/admin/networks/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handle("POST /api/admin/clients", func(w http.ResponseWriter, r *http.Request) {
		servicestest.JSON(w, http.StatusCreated, models.ClientApplication{ID: botID, Name: "bot", APIKey: "sk-0123456789abcdef", IsActive: true})
	})
	handle("POST /api/admin/clients/{id}/regenerate-key", func(w http.ResponseWriter, r *http.Request) {
		servicestest.JSON(w, http.StatusOK, models.ClientApplication{ID: botID, Name: "bot", APIKey: "sk-new-key-9999"})
	})
	handle("GET /api/admin/clients", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		servicestest.JSON(w, http.StatusOK, b.clients)
	})
	handle("DELETE /api/admin/clients/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, c := range b.clients {
			if c.ID == r.PathValue("id") {
				b.clients = append(b.clients[:i], b.clients[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		servicestest.Error(w, http.StatusNotFound, "Client not found")
	})
	handle("GET /api/admin/access", func(w http.ResponseWriter, r *http.Request) {
		servicestest.JSON(w, http.StatusOK, []models.ClientNetworkAccess{{ID: grantID, ClientID: botID, ClientName: "bot", NetworkID: gptID, NetworkDisplayName: "GPT-4"}})
	})
	handle("GET /api/admin/access/stats", func(w http.ResponseWriter, r *http.Request) {
		servicestest.JSON(w, http.StatusOK, models.AccessStats{TotalAccesses: 1, UnlimitedAccesses: 1})
	})
	handle("GET /api/admin/access/client/{id}", func(w http.ResponseWriter, r *http.Request) {
		servicestest.JSON(w, http.StatusOK, []models.ClientNetworkAccess{})
	})
	handle("GET /api/admin/access/network/{id}", func(w http.ResponseWriter, r *http.Request) {
		servicestest.JSON(w, http.StatusOK, []models.ClientNetworkAccess{})
	})
	handle("POST /api/admin/access", func(w http.ResponseWriter, r *http.Request) {
		var req models.GrantAccessRequest
		_ = json.Unmarshal(b.bodies["POST /api/admin/access"], &req)
		servicestest.JSON(w, http.StatusOK, models.ClientNetworkAccess{
			ID: grantID, ClientName: "bot", NetworkDisplayName: "GPT-4",
			DailyRequestLimit: req.DailyRequestLimit, MonthlyRequestLimit: req.MonthlyRequestLimit,
		})
	})
	handle("POST /api/admin/access/grant-all/{id}", func(w http.ResponseWriter, r *http.Request) {
		servicestest.JSON(w, http.StatusOK, models.GrantAllResult{Granted: 1, Skipped: 1, Total: 2, GrantedNetworks: []string{"GigaChat"}})
	})
	handle("DELETE /api/admin/access/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handle("GET /api/admin/logs", func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("size"))
		b.mu.Lock()
		total := b.logs
		b.calls = append(b.calls, "logs?"+r.URL.RawQuery)
		b.mu.Unlock()

		var content []models.RequestLog
		for i := page * size; i < min((page+1)*size, total); i++ {
			content = append(content, models.RequestLog{ID: fmt.Sprint(i), Prompt: fmt.Sprintf("prompt %d", i), Success: true})
		}
		servicestest.JSON(w, http.StatusOK, models.LogPage{
			Content:       content,
			TotalElements: int64(total),
			TotalPages:    (total + size - 1) / size,
		})
	})
	handle("GET /api/admin/stats", func(w http.ResponseWriter, r *http.Request) {
		servicestest.JSON(w, http.StatusOK, models.UsageStats{
			TotalRequests: 200, SuccessfulRequests: 190, FailedRequests: 10, TotalTokensUsed: 12345,
			RequestsByNetwork: map[string]int64{"gpt": 150, "giga": 50},
			RequestsByClient:  map[string]int64{"bot": 200},
		})
	})
	return mux
}

func TestLogin_PromptsForMissingCredentials(t *testing.T) {
	b := newBackend()
	res := harness{handler: b.handler(), stdin: "admin\n", password: "secret"}.run(t, "login")

	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, "Logged in as admin (profile test)") {
		t.Errorf("stdout = %q", res.stdout)
	}
	if got := res.mgr.Session().Token(); got != "fresh-token" {
		t.Errorf("stored token = %q, want fresh-token", got)
	}
}

func TestLogin_Rejected(t *testing.T) {
	tests := []struct {
		password string
		stderr   string
	}{
		{"wrong", "Error: not authenticated, please log in again\n"},
		{"nope", "Error: Invalid credentials\n"},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			b := newBackend()
			res := harness{handler: b.handler()}.run(t, "login", "-u", "admin", "-p", tt.password)

			if res.code != 1 {
				t.Fatalf("exit code = %d, want 1", res.code)
			}
			if res.stderr != tt.stderr {
				t.Errorf("stderr = %q, want %q", res.stderr, tt.stderr)
			}
			if res.mgr.Session().Token() != "" {
				t.Error("failed login must not store a session")
			}
		})
	}
}

func TestLogin_NoTerminal(t *testing.T) {
	b := newBackend()
	res := harness{handler: b.handler()}.run(t, "login", "-u", "admin")

	if res.code != 1 || !strings.Contains(res.stderr, "no terminal") {
		t.Errorf("code = %d, stderr = %q", res.code, res.stderr)
	}
	if b.called("POST /api/auth/login") {
		t.Error("login request sent without a password")
	}
}

func TestRegister(t *testing.T) {
	b := newBackend()
	res := harness{handler: b.handler()}.run(t, "register", "-u", "ops", "-p", "secret")

	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, "Account ops created") {
		t.Errorf("stdout = %q", res.stdout)
	}
	if res.mgr.Session().Token() != "" {
		t.Error("register must not sign in")
	}
}

func TestLogoutAndWhoami(t *testing.T) {
	b := newBackend()
	h := harness{handler: b.handler(), signedIn: true}

	res := h.run(t, "whoami")
	if res.code != 0 {
		t.Fatalf("whoami exit code = %d, stderr = %q", res.code, res.stderr)
	}
	for _, want := range []string{"Profile:", "test", "User:", "admin"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("whoami output missing %q:\n%s", want, res.stdout)
		}
	}

	res = h.run(t, "logout")
	if res.code != 0 || !strings.Contains(res.stdout, "Logged out of profile test") {
		t.Errorf("logout: code = %d, stdout = %q", res.code, res.stdout)
	}
	if res.mgr.Session().Token() != "" {
		t.Error("logout left the token in place")
	}
}

func TestCommandsRequireSession(t *testing.T) {
	b := newBackend()
	res := harness{handler: b.handler()}.run(t, "networks", "list")

	if res.code != 1 {
		t.Fatalf("exit code = %d, want 1", res.code)
	}
	if !strings.Contains(res.stderr, "not logged in") {
		t.Errorf("stderr = %q", res.stderr)
	}
	if b.called("GET /api/admin/networks") {
		t.Error("request sent without a session")
	}
}

func TestRejectedSessionIsCleared(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(strconv.Itoa(code), func(t *testing.T) {
			b := newBackend()
			b.failWith["GET /api/admin/networks"] = code
			res := harness{handler: b.handler(), signedIn: true}.run(t, "networks", "list")

			if res.stderr != "Error: not authenticated, please log in again\n" {
				t.Errorf("stderr = %q", res.stderr)
			}
			if res.mgr.Session().Token() != "" {
				t.Error("token survived a rejection")
			}
		})
	}
}

func TestHTTPErrorWithoutBody(t *testing.T) {
	b := newBackend()
	b.failWith["GET /api/admin/networks"] = http.StatusBadGateway
	res := harness{handler: b.handler(), signedIn: true}.run(t, "networks", "list")

	if res.stderr != "Error: HTTP 502\n" {
		t.Errorf("stderr = %q", res.stderr)
	}
}

func TestNetworksList_Formats(t *testing.T) {
	b := newBackend()
	h := harness{handler: b.handler(), signedIn: true}

	res := h.run(t, "networks", "list")
	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", res.code, res.stderr)
	}
	for _, want := range []string{"| NAME", "gpt", "GPT-4", "openai", "chat"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("table missing %q:\n%s", want, res.stdout)
		}
	}

	res = h.run(t, "networks", "list", "-o", "json")
	var decoded []models.NeuralNetwork
	if err := json.Unmarshal([]byte(res.stdout), &decoded); err != nil {
		t.Fatalf("json output does not parse: %v\n%s", err, res.stdout)
	}
	if len(decoded) != 1 || decoded[0].ID != gptID {
		t.Errorf("decoded = %+v", decoded)
	}

	res = h.run(t, "networks", "list", "-o", "yaml")
	if !strings.Contains(res.stdout, "name: gpt") {
		t.Errorf("yaml output:\n%s", res.stdout)
	}

	res = h.run(t, "networks", "list", "-o", "xml")
	if res.code != 1 || !strings.Contains(res.stderr, `unknown output format "xml"`) {
		t.Errorf("code = %d, stderr = %q", res.code, res.stderr)
	}
}

func TestNetworksApply(t *testing.T) {
	manifest := `name: gpt
displayName: GPT-4 Turbo
provider: openai
networkType: chat
apiUrl: https://api.openai.com/v1/chat/completions
modelName: gpt-4-turbo
---
name: mistral
provider: mistral
networkType: chat
apiUrl: https://api.mistral.ai/v1/chat/completions
modelName: mistral-large
apiKey: mk-123
requestMapping:
  messages: $.messages
`
	path := filepath.Join(t.TempDir(), "networks.yaml")
	if err := os.WriteFile(path, []byte(manifest), 0o600); err != nil {
		t.Fatal(err)
	}

	b := newBackend()
	res := harness{handler: b.handler(), signedIn: true}.run(t, "networks", "apply", "-f", path)
	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", res.code, res.stderr)
	}

	update := b.body("PUT /api/admin/networks/" + gptID)
	if update == nil {
		t.Fatal("existing network was not updated")
	}
	if _, ok := update["apiKey"]; ok {
		t.Error("update without apiKey must not send the field")
	}
	if update["modelName"] != "gpt-4-turbo" {
		t.Errorf("update modelName = %v", update["modelName"])
	}

	create := b.body("POST /api/admin/networks")
	if create == nil {
		t.Fatal("new network was not created")
	}
	if create["apiKey"] != "mk-123" || create["displayName"] != "mistral" {
		t.Errorf("create body = %v", create)
	}
	mapping, _ := create["requestMapping"].(map[string]any)
	if mapping["messages"] != "$.messages" {
		t.Errorf("requestMapping = %v", create["requestMapping"])
	}
	if create["priority"] != float64(10) {
		t.Errorf("priority default not applied: %v", create["priority"])
	}

	if !strings.Contains(res.stdout, "Network gpt updated") || !strings.Contains(res.stdout, "Network mistral created") {
		t.Errorf("stdout = %q", res.stdout)
	}

	activity, err := res.mgr.RecentActivity(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(activity) != 2 {
		t.Errorf("journaled %d mutations, want 2", len(activity))
	}
}

func TestNetworksApply_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		want     string
	}{
		{"missing url", "name: a\nmodelName: m\napiKey: k\n", "apiUrl is required"},
		{"new without key", "name: a\napiUrl: http://x\nmodelName: m\n", "apiKey is required for new network a"},
		{"bad type", "name: a\napiUrl: http://x\nmodelName: m\nnetworkType: music\n", `unknown networkType "music"`},
		{"empty", "", "contains no networks"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend()
			res := harness{handler: b.handler(), signedIn: true, stdin: tt.manifest}.run(t, "networks", "apply", "-f", "-")
			if res.code != 1 || !strings.Contains(res.stderr, tt.want) {
				t.Errorf("code = %d, stderr = %q, want %q", res.code, res.stderr, tt.want)
			}
			if b.called("POST /api/admin/networks") {
				t.Error("invalid manifest reached the API")
			}
		})
	}
}

func TestNetworksApply_Example(t *testing.T) {
	b := newBackend()
	manifest := `{"name": "whisper", "provider": "whisper", "networkType": "transcription", "apiKey": "k", "apiUrl": "http://w", "modelName": "whisper-1"}`
	res := harness{handler: b.handler(), signedIn: true, stdin: manifest}.run(t, "networks", "apply", "-f", "-", "--example")
	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", res.code, res.stderr)
	}
	mapping, _ := b.body("POST /api/admin/networks")["requestMapping"].(map[string]any)
	if mapping["file"] != "$.audio" {
		t.Errorf("example mapping not applied: %v", mapping)
	}
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		args    []string
		deleted bool
	}{
		{"declined", "n\n", nil, false},
		{"empty answer", "\n", nil, false},
		{"accepted", "yes\n", nil, true},
		{"flag", "", []string{"--yes"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend()
			args := append([]string{"networks", "delete", gptID}, tt.args...)
			res := harness{handler: b.handler(), signedIn: true, stdin: tt.stdin}.run(t, args...)
			if res.code != 0 {
				t.Fatalf("exit code = %d, stderr = %q", res.code, res.stderr)
			}
			if got := b.called("DELETE /api/admin/networks/" + gptID); got != tt.deleted {
				t.Errorf("deleted = %v, want %v", got, tt.deleted)
			}
		})
	}
}

func TestClientsDelete_OpaqueID(t *testing.T) {
	b := newBackend()
	h := harness{handler: b.handler(), signedIn: true}

	res := h.run(t, "clients", "delete", "c1", "-y")
	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", res.code, res.stderr)
	}
	if !b.called("DELETE /api/admin/clients/c1") {
		t.Error("delete was not sent")
	}
	if !strings.Contains(res.stdout, "Client c1 deleted") {
		t.Errorf("stdout = %q", res.stdout)
	}

	res = h.run(t, "clients", "list", "-o", "json")
	var clients []models.ClientApplication
	if err := json.Unmarshal([]byte(res.stdout), &clients); err != nil {
		t.Fatalf("list output is not JSON: %v\n%s", err, res.stdout)
	}
	for _, c := range clients {
		if c.ID == "c1" {
			t.Errorf("c1 still listed after delete: %+v", clients)
		}
	}
	if len(clients) != 1 {
		t.Errorf("clients = %d, want 1", len(clients))
	}

	res = h.run(t, "clients", "delete", "c1", "-y")
	if res.code != 1 || !strings.Contains(res.stderr, "Client not found") {
		t.Errorf("second delete: code = %d, stderr = %q", res.code, res.stderr)
	}
}

func TestClients(t *testing.T) {
	b := newBackend()
	h := harness{handler: b.handler(), signedIn: true}

	res := h.run(t, "clients", "list")
	if !strings.Contains(res.stdout, "sk-0…cdef") || strings.Contains(res.stdout, "sk-0123456789abcdef") {
		t.Errorf("list must mask keys:\n%s", res.stdout)
	}
	res = h.run(t, "clients", "list", "--reveal")
	if !strings.Contains(res.stdout, "sk-0123456789abcdef") {
		t.Errorf("--reveal must show keys:\n%s", res.stdout)
	}

	res = h.run(t, "clients", "create", "--name", "bot", "--description", "Support bot")
	if res.code != 0 {
		t.Fatalf("create exit code = %d, stderr = %q", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, "sk-0123456789abcdef") {
		t.Errorf("create must print the issued key:\n%s", res.stdout)
	}
	if body := b.body("POST /api/admin/clients"); body["name"] != "bot" || body["isActive"] != true {
		t.Errorf("create body = %v", body)
	}

	res = h.run(t, "clients", "regenerate-key", botID, "-y")
	if !strings.Contains(res.stdout, "sk-new-key-9999") {
		t.Errorf("regenerate output:\n%s", res.stdout)
	}

	res = h.run(t, "clients", "create")
	if res.code != 1 || !strings.Contains(res.stderr, `"name" not set`) {
		t.Errorf("create without name: code = %d, stderr = %q", res.code, res.stderr)
	}
}

func TestAccessGrant_Limits(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		daily   any
		monthly any
		out     string
	}{
		{"unlimited", nil, nil, nil, "bot can use GPT-4 (unlimited)"},
		{"daily", []string{"--daily", "100"}, float64(100), nil, "bot can use GPT-4 (100/day, ∞/month)"},
		{"zero is a limit", []string{"--monthly", "0"}, nil, float64(0), "bot can use GPT-4 (∞/day, 0/month)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend()
			args := append([]string{"access", "grant", "--client", botID, "--network", gptID}, tt.args...)
			res := harness{handler: b.handler(), signedIn: true}.run(t, args...)
			if res.code != 0 {
				t.Fatalf("exit code = %d, stderr = %q", res.code, res.stderr)
			}
			body := b.body("POST /api/admin/access")
			if body["dailyRequestLimit"] != tt.daily || body["monthlyRequestLimit"] != tt.monthly {
				t.Errorf("body = %v", body)
			}
			if !strings.Contains(res.stdout, tt.out) {
				t.Errorf("stdout = %q, want %q", res.stdout, tt.out)
			}
		})
	}
}

func TestAccessListRevokeGrantAll(t *testing.T) {
	b := newBackend()
	h := harness{handler: b.handler(), signedIn: true}

	res := h.run(t, "access", "list")
	if !strings.Contains(res.stdout, "unlimited") || !strings.Contains(res.stdout, grantID) {
		t.Errorf("list output:\n%s", res.stdout)
	}

	h.run(t, "access", "list", "--client", botID)
	if !b.called("GET /api/admin/access/client/" + botID) {
		t.Error("--client did not use the by-client endpoint")
	}

	res = h.run(t, "access", "revoke", grantID, "--yes")
	if res.code != 0 || !b.called("DELETE /api/admin/access/"+grantID) {
		t.Errorf("revoke: code = %d, stderr = %q", res.code, res.stderr)
	}

	res = h.run(t, "access", "grant-all", botID)
	if !strings.Contains(res.stdout, "Granted 1 of 2 networks, 1 already granted") || !strings.Contains(res.stdout, "GigaChat") {
		t.Errorf("grant-all output:\n%s", res.stdout)
	}
}

func TestAccessCheck(t *testing.T) {
	b := newBackend()
	res := harness{handler: b.handler(), signedIn: true}.run(t, "access", "check")
	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", res.code, res.stderr)
	}
	for _, want := range []string{"list all grants", "grant statistics", "grants by client", "grants by network"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("check output missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestAccessCheck_StopsOnRejection(t *testing.T) {
	b := newBackend()
	b.failWith["GET /api/admin/access"] = http.StatusForbidden
	res := harness{handler: b.handler(), signedIn: true}.run(t, "access", "check", "-o", "json")

	if res.code != 1 || !strings.Contains(res.stderr, "1 of 1 checks failed") {
		t.Errorf("code = %d, stderr = %q", res.code, res.stderr)
	}
	var rows []checkRow
	if err := json.Unmarshal([]byte(res.stdout), &rows); err != nil {
		t.Fatalf("json output does not parse: %v\n%s", err, res.stdout)
	}
	if len(rows) != 1 || rows[0].OK {
		t.Errorf("rows = %+v", rows)
	}
	if b.called("GET /api/admin/access/stats") {
		t.Error("probing continued after the session was rejected")
	}
}

func TestLogs_Paging(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		query string
		out   string
	}{
		{"first page", nil, "page=0&size=20", "Page 1 of 3 (45 logs)"},
		{"last page", []string{"--page", "3"}, "page=2&size=20", "Page 3 of 3 (45 logs)"},
		{"past the end", []string{"--page", "9"}, "page=2&size=20", "Page 3 of 3 (45 logs)"},
		{"page size", []string{"--size", "50"}, "page=0&size=50", "Page 1 of 1 (45 logs)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend()
			b.logs = 45
			res := harness{handler: b.handler(), signedIn: true}.run(t, append([]string{"logs"}, tt.args...)...)
			if res.code != 0 {
				t.Fatalf("exit code = %d, stderr = %q", res.code, res.stderr)
			}
			if !b.called("logs?" + tt.query) {
				t.Errorf("no request with %q in %v", tt.query, b.calls)
			}
			if !strings.Contains(res.stdout, tt.out) {
				t.Errorf("stdout missing %q:\n%s", tt.out, res.stdout)
			}
		})
	}
}

func TestLogs_Filters(t *testing.T) {
	b := newBackend()
	b.logs = 3
	res := harness{handler: b.handler(), signedIn: true}.run(t, "logs", "--client", botID, "--success=false")
	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", res.code, res.stderr)
	}
	want := "logs?clientId=" + botID + "&page=0&size=20&success=false"
	if !b.called(want) {
		t.Errorf("no request %q in %v", want, b.calls)
	}
}

func TestLogs_Empty(t *testing.T) {
	b := newBackend()
	res := harness{handler: b.handler(), signedIn: true}.run(t, "logs")
	if res.code != 0 || !strings.Contains(res.stdout, "No request logs.") {
		t.Errorf("code = %d, stdout = %q", res.code, res.stdout)
	}
}

func TestStats_RecordsSnapshot(t *testing.T) {
	b := newBackend()
	res := harness{handler: b.handler(), signedIn: true}.run(t, "stats")
	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", res.code, res.stderr)
	}
	for _, want := range []string{"95.0%", "12,345", "gpt", "150", "bot"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stats output missing %q:\n%s", want, res.stdout)
		}
	}

	history, err := res.mgr.StatsHistory(context.Background(), models.TimeRange24Hours)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].TotalRequests != 200 {
		t.Errorf("history = %+v", history)
	}
}

func TestRootRunsConsole(t *testing.T) {
	var ran bool
	h := harness{handler: newBackend().handler(), runTUI: func(mgr *services.Manager, cfg *config.Config) error {
		ran = mgr != nil && cfg.Profile == "test"
		return nil
	}}
	if res := h.run(t); res.code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", res.code, res.stderr)
	}
	if !ran {
		t.Error("console was not started")
	}

	res := harness{handler: newBackend().handler()}.run(t)
	if res.code != 1 || !strings.Contains(res.stderr, "interactive console is not available") {
		t.Errorf("code = %d, stderr = %q", res.code, res.stderr)
	}
}

func TestVersion(t *testing.T) {
	res := harness{handler: newBackend().handler()}.run(t, "version")
	if res.code != 0 || strings.TrimSpace(res.stdout) == "" {
		t.Errorf("code = %d, stdout = %q", res.code, res.stdout)
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, []string{"NAME", "LIMITS"}, [][]string{
		{"gpt", "∞/day"},
		{"giga-chat"},
	})

	want := `+-----------+--------+
| NAME      | LIMITS |
+-----------+--------+
| gpt       | ∞/day  |
| giga-chat |        |
+-----------+--------+
`
	if buf.String() != want {
		t.Errorf("printTable() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestExecute_ReportsErrors(t *testing.T) {
	mgr := servicestest.NewManager(t, newBackend().handler(), true)
	var out, errOut bytes.Buffer
	code := Execute(Options{
		Config:     &config.Config{APIURL: "http://localhost:8091", Profile: "test", LogsPageSize: 20, StatsHistoryLimit: 60},
		NewManager: func(*config.Config) (*services.Manager, error) { return mgr, nil },
		In:         strings.NewReader(""),
		Out:        &out,
		Err:        &errOut,
	}, []string{"networks", "get", "not-a-uuid"})

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.HasPrefix(errOut.String(), "Error: ") {
		t.Errorf("stderr = %q", errOut.String())
	}
	if _, err := mgr.RecentActivity(context.Background(), 1); err == nil {
		t.Error("Execute left the history database open")
	}
}
