package domain

import (
	"strings"
	"time"
)

type BreachQueryType string

const (
	BreachQueryEmail  BreachQueryType = "email"
	BreachQueryDomain BreachQueryType = "domain"
)

// ClassifyQuery decides whether q is an email address or a domain.
func ClassifyQuery(q string) (string, BreachQueryType, bool) {
	q = strings.ToLower(strings.TrimSpace(q))
	if strings.Contains(q, "@") {
		email, err := NormalizeEmail(q)
		return email, BreachQueryEmail, err == nil
	}
	if len(q) < 4 || len(q) > 253 || !strings.Contains(q, ".") || strings.ContainsAny(q, " /:") {
		return q, BreachQueryDomain, false
	}
	return q, BreachQueryDomain, true
}

// Breach is one incident reported by the breach-intelligence provider.
type Breach struct {
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	Domain      string    `json:"domain"`
	BreachDate  string    `json:"breach_date"`
	AddedDate   time.Time `json:"added_date"`
	PwnCount    int64     `json:"pwn_count"`
	DataClasses []string  `json:"data_classes"`
	IsVerified  bool      `json:"is_verified"`
	IsSensitive bool      `json:"is_sensitive"`
}

// BreachSearch is one persisted query and its result.
type BreachSearch struct {
	ID             string
	OrganizationID string
	UserID         string
	Query          string
	QueryType      BreachQueryType
	BreachCount    int
	Breaches       []Breach
	Error          string // provider failure for this query, if any
	CreatedAt      time.Time
}

// DashboardSummary aggregates an organization's search history.
type DashboardSummary struct {
	TotalSearches   int
	ExposedQueries  int // distinct queries with at least one breach
	TotalBreachHits int
	LastSearchAt    *time.Time
	RecentSearches  []BreachSearch
	Subscription    *Subscription
	MemberCount     int
	PendingInvites  int
}
