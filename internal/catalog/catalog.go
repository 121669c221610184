// Package catalog holds connection presets for the providers the gateway
// speaks to: default endpoints, model names and example mapping payloads.
package catalog

import (
	"encoding/json"

	"github.com/j-veylop/aiconsole/internal/models"
)

// Preset describes how a provider is usually configured.
type Preset struct {
	Provider     string
	APIURL       string
	DefaultModel string
	Types        []models.NetworkType
}

var presets = map[string]Preset{
	"openai": {
		Provider:     "openai",
		APIURL:       "https://api.openai.com/v1",
		DefaultModel: "gpt-4",
		Types: []models.NetworkType{
			models.NetworkTypeChat,
			models.NetworkTypeEmbedding,
			models.NetworkTypeImageGeneration,
		},
	},
	"yandex": {
		Provider:     "yandex",
		APIURL:       "https://llm.api.cloud.yandex.net/foundationModels/v1/completion",
		DefaultModel: "yandexgpt-lite",
		Types:        []models.NetworkType{models.NetworkTypeChat},
	},
	"anthropic": {
		Provider:     "anthropic",
		APIURL:       "https://api.anthropic.com/v1/messages",
		DefaultModel: "claude-3-opus-20240229",
		Types:        []models.NetworkType{models.NetworkTypeChat},
	},
	"mistral": {
		Provider:     "mistral",
		APIURL:       "https://api.mistral.ai/v1/chat/completions",
		DefaultModel: "mistral-large-latest",
		Types:        []models.NetworkType{models.NetworkTypeChat, models.NetworkTypeEmbedding},
	},
	"sber": {
		Provider:     "sber",
		APIURL:       "https://gigachat.devices.sberbank.ru/api/v1/chat/completions",
		DefaultModel: "GigaChat",
		Types:        []models.NetworkType{models.NetworkTypeChat},
	},
	"whisper": {
		Provider:     "whisper",
		APIURL:       "https://api.openai.com/v1/audio/transcriptions",
		DefaultModel: "whisper-1",
		Types:        []models.NetworkType{models.NetworkTypeTranscription},
	},
}

// Lookup returns the preset for provider.
func Lookup(provider string) (Preset, bool) {
	p, ok := presets[provider]
	return p, ok
}

// Mapping is an example pair of request and response mappings.
type Mapping struct {
	Request  json.RawMessage
	Response json.RawMessage
}

type mappingKey struct {
	provider    string
	networkType models.NetworkType
}

var mappings = map[mappingKey]Mapping{
	{"openai", models.NetworkTypeChat}: {
		Request:  raw(`{"messages":"$.messages","temperature":"$.settings.temperature","max_tokens":"$.settings.maxTokens"}`),
		Response: raw(`{"text":"$.choices[0].message.content","tokens":"$.usage.total_tokens"}`),
	},
	{"openai", models.NetworkTypeEmbedding}: {
		Request:  raw(`{"input":"$.input"}`),
		Response: raw(`{"embedding":"$.data[0].embedding","tokens":"$.usage.total_tokens"}`),
	},
	{"openai", models.NetworkTypeImageGeneration}: {
		Request:  raw(`{"prompt":"$.prompt","size":"$.settings.size","quality":"$.settings.quality","n":"$.settings.n"}`),
		Response: raw(`{"url":"$.data[0].url"}`),
	},
	{"yandex", models.NetworkTypeChat}: {
		Request:  raw(`{"messages":"$.messages","completionOptions":{"temperature":"$.settings.temperature","maxTokens":"$.settings.maxTokens"}}`),
		Response: raw(`{"text":"$.result.alternatives[0].message.text","tokens":"$.result.usage.totalTokens"}`),
	},
	{"anthropic", models.NetworkTypeChat}: {
		Request:  raw(`{"messages":"$.messages","max_tokens":"$.settings.maxTokens"}`),
		Response: raw(`{"text":"$.content[0].text","tokens":"$.usage.output_tokens"}`),
	},
	{"mistral", models.NetworkTypeChat}: {
		Request:  raw(`{"messages":"$.messages","temperature":"$.settings.temperature"}`),
		Response: raw(`{"text":"$.choices[0].message.content","tokens":"$.usage.total_tokens"}`),
	},
	{"mistral", models.NetworkTypeEmbedding}: {
		Request:  raw(`{"input":"$.input"}`),
		Response: raw(`{"embedding":"$.data[0].embedding"}`),
	},
	{"sber", models.NetworkTypeChat}: {
		Request:  raw(`{"messages":"$.messages","temperature":"$.settings.temperature"}`),
		Response: raw(`{"text":"$.choices[0].message.content","tokens":"$.usage.total_tokens"}`),
	},
	{"whisper", models.NetworkTypeTranscription}: {
		Request:  raw(`{"file":"$.audio","language":"$.language","prompt":"$.prompt"}`),
		Response: raw(`{"text":"$.text"}`),
	},
}

// ExampleMapping returns example mappings for a provider and network type.
// Unknown combinations get empty objects.
func ExampleMapping(provider string, networkType models.NetworkType) (Mapping, bool) {
	m, ok := mappings[mappingKey{provider, networkType}]
	if !ok {
		return Mapping{Request: raw("{}"), Response: raw("{}")}, false
	}
	return m, true
}

// Apply fills empty connection fields of req from the provider preset and
// replaces its mappings with the example for the chosen network type.
func Apply(req *models.NetworkRequest) bool {
	if p, ok := Lookup(req.Provider); ok {
		if req.APIURL == "" {
			req.APIURL = p.APIURL
		}
		if req.ModelName == "" {
			req.ModelName = p.DefaultModel
		}
	}
	m, ok := ExampleMapping(req.Provider, req.NetworkType)
	req.RequestMapping = m.Request
	req.ResponseMapping = m.Response
	return ok
}

func raw(s string) json.RawMessage {
	return json.RawMessage(s)
}
