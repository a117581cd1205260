package client

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/naveenspark/xpboard/pkg/domain"
)

// Wire shapes of the profile query. Every field is lenient: a missing or
// malformed value decodes to its zero value instead of failing the response.

type profileResponse struct {
	Data struct {
		User        []gqlUser        `json:"user"`
		Transaction []gqlTransaction `json:"transaction"`
	} `json:"data"`
	// Errors is non-nil whenever the key is present, even as [].
	Errors *[]gqlError `json:"errors"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlUser struct {
	ID         looseString       `json:"id"`
	FirstName  looseString       `json:"firstName"`
	LastName   looseString       `json:"lastName"`
	AuditRatio looseNumber       `json:"auditRatio"`
	Groups     []json.RawMessage `json:"groups"`
	XPs        []gqlXP           `json:"xps"`
}

type gqlXP struct {
	Amount looseNumber `json:"amount"`
	Path   looseString `json:"path"`
}

type gqlTransaction struct {
	Type      looseString `json:"type"`
	Amount    looseNumber `json:"amount"`
	CreatedAt looseString `json:"createdAt"`
}

func (r profileResponse) payload() *domain.ProfilePayload {
	u := r.Data.User[0]
	user := &domain.UserProfile{
		ID:         string(u.ID),
		FirstName:  string(u.FirstName),
		LastName:   string(u.LastName),
		AuditRatio: float64(u.AuditRatio),
		GroupCount: len(u.Groups),
		Experience: make([]domain.ExperienceRecord, 0, len(u.XPs)),
	}
	for _, xp := range u.XPs {
		user.Experience = append(user.Experience, domain.ExperienceRecord{
			Path:   string(xp.Path),
			Amount: xp.Amount.Int64(),
		})
	}

	txs := make([]domain.TransactionRecord, 0, len(r.Data.Transaction))
	for _, tx := range r.Data.Transaction {
		txs = append(txs, domain.TransactionRecord{
			Type:      string(tx.Type),
			Amount:    tx.Amount.Int64(),
			CreatedAt: parseTimestamp(string(tx.CreatedAt)),
		})
	}
	return &domain.ProfilePayload{User: user, Transactions: txs}
}

// looseNumber accepts JSON numbers and numeric strings; anything else is 0.
type looseNumber float64

func (n *looseNumber) UnmarshalJSON(b []byte) error {
	*n = 0
	s := string(bytes.TrimSpace(b))
	if strings.HasPrefix(s, `"`) {
		var str string
		if json.Unmarshal(b, &str) != nil {
			return nil
		}
		s = strings.TrimSpace(str)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*n = looseNumber(f)
	return nil
}

// Int64 rounds to the nearest integer amount. Negative values and values
// beyond int64 are malformed and become 0.
func (n looseNumber) Int64() int64 {
	f := math.Round(float64(n))
	if f < 0 || f >= math.MaxInt64 {
		return 0
	}
	return int64(f)
}

// looseString accepts strings and numbers (ids arrive as either); null and
// other shapes become "".
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	*s = ""
	raw := bytes.TrimSpace(b)
	if len(raw) == 0 {
		return nil
	}
	switch raw[0] {
	case '"':
		var str string
		if json.Unmarshal(raw, &str) == nil {
			*s = looseString(str)
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*s = looseString(raw)
	}
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

// parseTimestamp parses the ISO-8601 variants the API emits. Zone-less values
// are read as UTC. Returns the zero time when nothing matches.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
