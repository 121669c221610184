package models

import (
	"encoding/json"
	"slices"
	"strings"
)

// NetworkType classifies what a provider endpoint does.
type NetworkType string

// Known network types.
const (
	NetworkTypeChat            NetworkType = "chat"
	NetworkTypeTranscription   NetworkType = "transcription"
	NetworkTypeEmbedding       NetworkType = "embedding"
	NetworkTypeImageGeneration NetworkType = "image_generation"
	NetworkTypeVideoGeneration NetworkType = "video_generation"
)

// NetworkTypes lists the selectable network types in display order.
var NetworkTypes = []NetworkType{
	NetworkTypeChat,
	NetworkTypeTranscription,
	NetworkTypeEmbedding,
	NetworkTypeImageGeneration,
	NetworkTypeVideoGeneration,
}

// Providers lists the provider identifiers offered by the network form.
var Providers = []string{"openai", "yandex", "anthropic", "mistral", "sber", "whisper"}

// Valid reports whether t is one of the known network types.
func (t NetworkType) Valid() bool {
	return slices.Contains(NetworkTypes, t)
}

// NeuralNetwork is an upstream AI provider endpoint configuration.
// The provider API key is write-only and never appears here.
type NeuralNetwork struct {
	CreatedAt             Timestamp       `json:"createdAt"`
	UpdatedAt             Timestamp       `json:"updatedAt"`
	RequestMapping        json.RawMessage `json:"requestMapping,omitempty"`
	ResponseMapping       json.RawMessage `json:"responseMapping,omitempty"`
	ID                    string          `json:"id"`
	Name                  string          `json:"name"`
	DisplayName           string          `json:"displayName"`
	Provider              string          `json:"provider"`
	NetworkType           NetworkType     `json:"networkType"`
	APIURL                string          `json:"apiUrl"`
	ModelName             string          `json:"modelName"`
	ConnectionInstruction string          `json:"connectionInstruction,omitempty"`
	CostPerTokenRub       FlexFloat       `json:"costPerTokenRub,omitempty"`
	WordsPerToken         FlexFloat       `json:"wordsPerToken,omitempty"`
	SecondsPerToken       FlexFloat       `json:"secondsPerToken,omitempty"`
	Priority              int             `json:"priority"`
	TimeoutSeconds        int             `json:"timeoutSeconds"`
	MaxRetries            int             `json:"maxRetries"`
	IsActive              bool            `json:"isActive"`
	IsFree                bool            `json:"isFree"`
}

// Label returns the display name, falling back to the slug.
func (n *NeuralNetwork) Label() string {
	if n.DisplayName != "" {
		return n.DisplayName
	}
	return n.Name
}

// NetworkRequest is the create/update payload for a network. An empty APIKey
// is omitted from the body so that an update keeps the stored key.
type NetworkRequest struct {
	RequestMapping        json.RawMessage `json:"requestMapping,omitempty" yaml:"-"`
	ResponseMapping       json.RawMessage `json:"responseMapping,omitempty" yaml:"-"`
	Name                  string          `json:"name" yaml:"name"`
	DisplayName           string          `json:"displayName" yaml:"displayName"`
	Provider              string          `json:"provider" yaml:"provider"`
	NetworkType           NetworkType     `json:"networkType" yaml:"networkType"`
	APIURL                string          `json:"apiUrl" yaml:"apiUrl"`
	APIKey                string          `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	ModelName             string          `json:"modelName" yaml:"modelName"`
	ConnectionInstruction string          `json:"connectionInstruction,omitempty" yaml:"connectionInstruction,omitempty"`
	CostPerTokenRub       *float64        `json:"costPerTokenRub,omitempty" yaml:"costPerTokenRub,omitempty"`
	WordsPerToken         *float64        `json:"wordsPerToken,omitempty" yaml:"wordsPerToken,omitempty"`
	SecondsPerToken       *float64        `json:"secondsPerToken,omitempty" yaml:"secondsPerToken,omitempty"`
	Priority              int             `json:"priority" yaml:"priority"`
	TimeoutSeconds        int             `json:"timeoutSeconds" yaml:"timeoutSeconds"`
	MaxRetries            int             `json:"maxRetries" yaml:"maxRetries"`
	IsActive              bool            `json:"isActive" yaml:"isActive"`
	IsFree                bool            `json:"isFree" yaml:"isFree"`
}

// DefaultNetworkRequest returns the values a new network form starts with.
func DefaultNetworkRequest() NetworkRequest {
	return NetworkRequest{
		Provider:        Providers[0],
		NetworkType:     NetworkTypeChat,
		IsActive:        true,
		Priority:        10,
		TimeoutSeconds:  60,
		MaxRetries:      3,
		RequestMapping:  json.RawMessage("{}"),
		ResponseMapping: json.RawMessage("{}"),
	}
}

// EditRequest returns an update payload pre-populated from n. The API key is
// left blank because it cannot be read back.
func (n *NeuralNetwork) EditRequest() NetworkRequest {
	req := NetworkRequest{
		Name:                  n.Name,
		DisplayName:           n.DisplayName,
		Provider:              n.Provider,
		NetworkType:           n.NetworkType,
		APIURL:                n.APIURL,
		ModelName:             n.ModelName,
		ConnectionInstruction: n.ConnectionInstruction,
		Priority:              n.Priority,
		TimeoutSeconds:        n.TimeoutSeconds,
		MaxRetries:            n.MaxRetries,
		IsActive:              n.IsActive,
		IsFree:                n.IsFree,
		RequestMapping:        n.RequestMapping,
		ResponseMapping:       n.ResponseMapping,
	}
	if n.CostPerTokenRub != 0 {
		v := float64(n.CostPerTokenRub)
		req.CostPerTokenRub = &v
	}
	if n.WordsPerToken != 0 {
		v := float64(n.WordsPerToken)
		req.WordsPerToken = &v
	}
	if n.SecondsPerToken != 0 {
		v := float64(n.SecondsPerToken)
		req.SecondsPerToken = &v
	}
	return req
}

// SortNetworksByPriority orders networks by ascending priority, then by name.
func SortNetworksByPriority(networks []NeuralNetwork) {
	slices.SortStableFunc(networks, func(a, b NeuralNetwork) int {
		if a.Priority != b.Priority {
			return a.Priority - b.Priority
		}
		return strings.Compare(a.Name, b.Name)
	})
}
