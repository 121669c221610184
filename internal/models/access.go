package models

import "fmt"

// ClientNetworkAccess grants one client application the right to use one network.
// Nil limits mean unlimited.
type ClientNetworkAccess struct {
	CreatedAt           Timestamp `json:"createdAt"`
	UpdatedAt           Timestamp `json:"updatedAt"`
	DailyRequestLimit   *int      `json:"dailyRequestLimit,omitempty"`
	MonthlyRequestLimit *int      `json:"monthlyRequestLimit,omitempty"`
	ID                  string    `json:"id"`
	ClientID            string    `json:"clientId"`
	ClientName          string    `json:"clientName"`
	NetworkID           string    `json:"networkId"`
	NetworkDisplayName  string    `json:"networkDisplayName"`
	NetworkProvider     string    `json:"networkProvider"`
	NetworkType         string    `json:"networkType"`
}

// Unlimited reports whether neither limit is set.
func (a *ClientNetworkAccess) Unlimited() bool {
	return a.DailyRequestLimit == nil && a.MonthlyRequestLimit == nil
}

// LimitsDescription renders the limits for tables.
func (a *ClientNetworkAccess) LimitsDescription() string {
	if a.Unlimited() {
		return "unlimited"
	}
	return fmt.Sprintf("%s/day, %s/month", limitString(a.DailyRequestLimit), limitString(a.MonthlyRequestLimit))
}

func limitString(v *int) string {
	if v == nil {
		return "∞"
	}
	return fmt.Sprintf("%d", *v)
}

// GrantAccessRequest creates or updates an access grant.
type GrantAccessRequest struct {
	DailyRequestLimit   *int   `json:"dailyRequestLimit,omitempty"`
	MonthlyRequestLimit *int   `json:"monthlyRequestLimit,omitempty"`
	ClientID            string `json:"clientId"`
	NetworkID           string `json:"networkId"`
}

// AccessStats summarizes the grants table.
type AccessStats struct {
	TotalAccesses      int64 `json:"totalAccesses"`
	AccessesWithLimits int64 `json:"accessesWithLimits"`
	UnlimitedAccesses  int64 `json:"unlimitedAccesses"`
}

// GrantAllResult is returned when a client is granted every active network.
type GrantAllResult struct {
	Message         string   `json:"message"`
	ClientName      string   `json:"clientName,omitempty"`
	GrantedNetworks []string `json:"grantedNetworks,omitempty"`
	SkippedNetworks []string `json:"skippedNetworks,omitempty"`
	Granted         int      `json:"granted"`
	Skipped         int      `json:"skipped"`
	Total           int      `json:"total"`
}
