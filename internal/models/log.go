package models

// RequestLog is one proxied AI request recorded by the gateway.
type RequestLog struct {
	CreatedAt             Timestamp `json:"createdAt"`
	TokensUsed            *int64    `json:"tokensUsed,omitempty"`
	ID                    string    `json:"id"`
	ExternalUserID        string    `json:"externalUserId"`
	NeuralNetworkID       string    `json:"neuralNetworkId"`
	NeuralNetworkName     string    `json:"neuralNetworkName"`
	ClientApplicationID   string    `json:"clientApplicationId"`
	ClientApplicationName string    `json:"clientApplicationName"`
	RequestType           string    `json:"requestType"`
	Prompt                string    `json:"prompt"`
	Response              string    `json:"response"`
	ErrorMessage          string    `json:"errorMessage,omitempty"`
	Success               bool      `json:"success"`
}

// LogPage is one page of request logs.
type LogPage struct {
	Content       []RequestLog `json:"content"`
	TotalElements int64        `json:"totalElements"`
	TotalPages    int          `json:"totalPages"`
}

// LogFilter narrows a log listing. Nil fields are not sent.
type LogFilter struct {
	ClientID  *string
	NetworkID *string
	Success   *bool
}

// Empty reports whether no filter is set.
func (f LogFilter) Empty() bool {
	return f.ClientID == nil && f.NetworkID == nil && f.Success == nil
}

// ClampPage keeps page inside [0, totalPages-1]. With no pages the result is 0.
func ClampPage(page, totalPages int) int {
	if page >= totalPages {
		page = totalPages - 1
	}
	if page < 0 {
		page = 0
	}
	return page
}
