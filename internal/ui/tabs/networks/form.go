package networks

import (
	"strconv"

	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/ui/components"
)

func providerOptions() []components.Option {
	opts := make([]components.Option, 0, len(models.Providers))
	for _, p := range models.Providers {
		opts = append(opts, components.Option{Label: p, Value: p})
	}
	return opts
}

func typeOptions() []components.Option {
	opts := make([]components.Option, 0, len(models.NetworkTypes))
	for _, t := range models.NetworkTypes {
		opts = append(opts, components.Option{Label: string(t), Value: string(t)})
	}
	return opts
}

// newForm builds the network form. The provider key is only required when
// creating; on edit a blank key keeps the stored one.
func newForm(title, submit string, create bool) *components.Form {
	keyPlaceholder := "sk-..."
	if !create {
		keyPlaceholder = "leave blank to keep the current key"
	}
	return components.NewForm(title, submit,
		components.Field{Key: fieldName, Label: "Name (slug)", Placeholder: "gpt-4-main", Required: true},
		components.Field{Key: fieldDisplayName, Label: "Display name", Placeholder: "GPT-4", Required: true},
		components.Field{Key: fieldProvider, Label: "Provider", Kind: components.FieldChoice, Options: providerOptions()},
		components.Field{Key: fieldType, Label: "Network type", Kind: components.FieldChoice, Options: typeOptions()},
		components.Field{Key: fieldAPIURL, Label: "API URL", Placeholder: "https://", Required: true},
		components.Field{Key: fieldAPIKey, Label: "API key", Placeholder: keyPlaceholder, Kind: components.FieldPassword, Required: create},
		components.Field{Key: fieldModel, Label: "Model", Placeholder: "gpt-4", Required: true},
		components.Field{Key: fieldPriority, Label: "Priority", Kind: components.FieldNumber, Required: true},
		components.Field{Key: fieldTimeout, Label: "Timeout, s", Kind: components.FieldNumber, Required: true},
		components.Field{Key: fieldRetries, Label: "Max retries", Kind: components.FieldNumber, Required: true},
		components.Field{Key: fieldCost, Label: "Cost per token, RUB", Kind: components.FieldDecimal},
		components.Field{Key: fieldWordsPerToken, Label: "Words per token", Kind: components.FieldDecimal},
		components.Field{Key: fieldSecondsPerToken, Label: "Seconds per token", Kind: components.FieldDecimal},
		components.Field{Key: fieldActive, Label: "Active", Kind: components.FieldBool},
		components.Field{Key: fieldFree, Label: "Free", Kind: components.FieldBool},
		components.Field{Key: fieldInstruction, Label: "Connection notes"},
		components.Field{Key: fieldRequestMapping, Label: "Request mapping", Placeholder: "{}", Kind: components.FieldJSON},
		components.Field{Key: fieldResponseMapping, Label: "Response mapping", Placeholder: "{}", Kind: components.FieldJSON},
	)
}

func fillForm(f *components.Form, req models.NetworkRequest) {
	f.SetValue(fieldName, req.Name)
	f.SetValue(fieldDisplayName, req.DisplayName)
	f.SetValue(fieldProvider, req.Provider)
	f.SetValue(fieldType, string(req.NetworkType))
	f.SetValue(fieldAPIURL, req.APIURL)
	f.SetValue(fieldAPIKey, req.APIKey)
	f.SetValue(fieldModel, req.ModelName)
	f.SetValue(fieldPriority, strconv.Itoa(req.Priority))
	f.SetValue(fieldTimeout, strconv.Itoa(req.TimeoutSeconds))
	f.SetValue(fieldRetries, strconv.Itoa(req.MaxRetries))
	f.SetValue(fieldCost, formatOptional(req.CostPerTokenRub))
	f.SetValue(fieldWordsPerToken, formatOptional(req.WordsPerToken))
	f.SetValue(fieldSecondsPerToken, formatOptional(req.SecondsPerToken))
	f.SetBool(fieldActive, req.IsActive)
	f.SetBool(fieldFree, req.IsFree)
	f.SetValue(fieldInstruction, req.ConnectionInstruction)
	f.SetValue(fieldRequestMapping, string(req.RequestMapping))
	f.SetValue(fieldResponseMapping, string(req.ResponseMapping))
}

func requestFromForm(f *components.Form) models.NetworkRequest {
	return models.NetworkRequest{
		Name:                  f.Value(fieldName),
		DisplayName:           f.Value(fieldDisplayName),
		Provider:              f.Value(fieldProvider),
		NetworkType:           models.NetworkType(f.Value(fieldType)),
		APIURL:                f.Value(fieldAPIURL),
		APIKey:                f.Value(fieldAPIKey),
		ModelName:             f.Value(fieldModel),
		Priority:              f.Int(fieldPriority),
		TimeoutSeconds:        f.Int(fieldTimeout),
		MaxRetries:            f.Int(fieldRetries),
		CostPerTokenRub:       f.OptionalFloat(fieldCost),
		WordsPerToken:         f.OptionalFloat(fieldWordsPerToken),
		SecondsPerToken:       f.OptionalFloat(fieldSecondsPerToken),
		IsActive:              f.Bool(fieldActive),
		IsFree:                f.Bool(fieldFree),
		ConnectionInstruction: f.Value(fieldInstruction),
		RequestMapping:        f.JSON(fieldRequestMapping),
		ResponseMapping:       f.JSON(fieldResponseMapping),
	}
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
