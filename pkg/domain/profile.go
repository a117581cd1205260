package domain

import "time"

// UserProfile is the signed-in user as returned by the profile query,
// already defaulted and converted at the client boundary.
type UserProfile struct {
	ID         string             `json:"id"`
	FirstName  string             `json:"first_name"`
	LastName   string             `json:"last_name"`
	AuditRatio float64            `json:"audit_ratio"`
	GroupCount int                `json:"group_count"`
	Experience []ExperienceRecord `json:"experience"`
}

// ExperienceRecord is experience earned at a curriculum path such as
// /adam/piscine-go/quest-01.
type ExperienceRecord struct {
	Path   string `json:"path"`
	Amount int64  `json:"amount"`
}

// TransactionRecord is one timestamped event. CreatedAt is zero when the
// server sent an unparseable timestamp.
type TransactionRecord struct {
	Type      string    `json:"type"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfilePayload is everything one profile query returns.
type ProfilePayload struct {
	User         *UserProfile
	Transactions []TransactionRecord
}
