package catalog

import (
	"encoding/json"
	"testing"

	"github.com/j-veylop/aiconsole/internal/models"
)

func TestPresetsCoverProviders(t *testing.T) {
	for _, p := range models.Providers {
		preset, ok := Lookup(p)
		if !ok {
			t.Errorf("no preset for provider %q", p)
			continue
		}
		if preset.APIURL == "" || preset.DefaultModel == "" {
			t.Errorf("preset %q is incomplete: %+v", p, preset)
		}
		for _, nt := range preset.Types {
			if !nt.Valid() {
				t.Errorf("preset %q lists unknown type %q", p, nt)
			}
		}
	}
}

func TestExampleMappingsAreValidJSON(t *testing.T) {
	for key, m := range mappings {
		if !json.Valid(m.Request) || !json.Valid(m.Response) {
			t.Errorf("mapping %v is not valid JSON", key)
		}
	}
}

func TestExampleMapping_Unknown(t *testing.T) {
	m, ok := ExampleMapping("anthropic", models.NetworkTypeVideoGeneration)
	if ok {
		t.Error("ExampleMapping() ok = true for unsupported combination")
	}
	if string(m.Request) != "{}" || string(m.Response) != "{}" {
		t.Errorf("ExampleMapping() = %s / %s, want empty objects", m.Request, m.Response)
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name      string
		req       models.NetworkRequest
		wantOK    bool
		wantURL   string
		wantModel string
	}{
		{
			name:      "FillsBlanks",
			req:       models.NetworkRequest{Provider: "mistral", NetworkType: models.NetworkTypeChat},
			wantOK:    true,
			wantURL:   "https://api.mistral.ai/v1/chat/completions",
			wantModel: "mistral-large-latest",
		},
		{
			name: "KeepsUserValues",
			req: models.NetworkRequest{
				Provider: "openai", NetworkType: models.NetworkTypeChat,
				APIURL: "https://proxy.internal/v1", ModelName: "gpt-4o",
			},
			wantOK:    true,
			wantURL:   "https://proxy.internal/v1",
			wantModel: "gpt-4o",
		},
		{
			name:   "UnknownProvider",
			req:    models.NetworkRequest{Provider: "acme", NetworkType: models.NetworkTypeChat},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			if ok := Apply(&req); ok != tt.wantOK {
				t.Errorf("Apply() = %v, want %v", ok, tt.wantOK)
			}
			if req.APIURL != tt.wantURL {
				t.Errorf("APIURL = %q, want %q", req.APIURL, tt.wantURL)
			}
			if req.ModelName != tt.wantModel {
				t.Errorf("ModelName = %q, want %q", req.ModelName, tt.wantModel)
			}
			if len(req.RequestMapping) == 0 || len(req.ResponseMapping) == 0 {
				t.Error("mappings should always be set")
			}
		})
	}
}
