// Package profile derives the dashboard's summary statistics from a fetched
// profile. Everything here is pure: no I/O, no clock, no shared state.
package profile

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/naveenspark/xpboard/pkg/domain"
)

// Experience categories, in display order.
const (
	CategoryPiscineGo = "Piscine-Go"
	CategoryPiscineJS = "Piscine-JS"
	CategoryModule    = "Module"
)

// Categories lists every category in display order.
var Categories = []string{CategoryPiscineGo, CategoryPiscineJS, CategoryModule}

const (
	piscineJSPrefix = "/adam/module/piscine-js/"
	piscineGoPrefix = "/adam/piscine-go/"

	// moduleXPOffset corrects the server's under-count of base module
	// experience. Part of the formula, not a setting.
	moduleXPOffset = 70000

	skillPrefix      = "skill_"
	checkpointPrefix = "skill_prog"

	// DayLayout is the per-day bucket key format.
	DayLayout = time.DateOnly
)

// SkillAllowList holds the skills charted in the pie chart.
var SkillAllowList = []string{"go", "html", "js", "sql", "unix", "css", "docker"}

// modulePath matches "module" not immediately followed by "/piscine".
var modulePath = regexp2.MustCompile(`module(?!/piscine)`, regexp2.IgnoreCase)

// DayTotal is the experience summed over one calendar day (UTC).
type DayTotal struct {
	Day   string `json:"day"`
	Total int64  `json:"total"`
}

// Metrics is the derived snapshot handed to the presentation layer. It holds
// copies of the identity fields, not a reference to the fetched profile.
type Metrics struct {
	ID         string  `json:"id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	AuditRatio float64 `json:"audit_ratio"`
	GroupCount int     `json:"group_count"`

	// GoXP and JSXP are the Piscine-Go and Piscine-JS category totals.
	GoXP int64 `json:"go_xp"`
	JSXP int64 `json:"js_xp"`
	// ModuleXP is already in thousands, rounded.
	ModuleXP          int64 `json:"module_xp"`
	HighestCheckpoint int64 `json:"highest_checkpoint"`

	CategoryTotals map[string]int64 `json:"category_totals"`
	SkillMaxima    map[string]int64 `json:"skill_maxima"`
	Daily          []DayTotal       `json:"daily"`
}

// Aggregate computes Metrics from a profile and its transactions. It never
// fails on malformed records; it returns a *PreconditionError only when user
// is nil.
func Aggregate(user *domain.UserProfile, txs []domain.TransactionRecord) (*Metrics, error) {
	if user == nil {
		return nil, &PreconditionError{What: "user profile"}
	}

	categories := CategoryTotals(user.Experience)
	return &Metrics{
		ID:                user.ID,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		AuditRatio:        user.AuditRatio,
		GroupCount:        user.GroupCount,
		GoXP:              categories[CategoryPiscineGo],
		JSXP:              categories[CategoryPiscineJS],
		ModuleXP:          ModuleExperience(user.Experience),
		HighestCheckpoint: HighestCheckpoint(txs),
		CategoryTotals:    categories,
		SkillMaxima:       SkillMaxima(txs),
		Daily:             DailySeries(txs),
	}, nil
}

// Categorize returns the single category a path belongs to. First match wins.
func Categorize(path string) string {
	switch {
	case strings.HasPrefix(path, piscineJSPrefix):
		return CategoryPiscineJS
	case strings.HasPrefix(path, piscineGoPrefix):
		return CategoryPiscineGo
	default:
		return CategoryModule
	}
}

// CategoryTotals sums experience per category. Every category is present,
// zero when nothing landed in it.
func CategoryTotals(records []domain.ExperienceRecord) map[string]int64 {
	totals := make(map[string]int64, len(Categories))
	for _, c := range Categories {
		totals[c] = 0
	}
	for _, r := range records {
		totals[Categorize(r.Path)] += r.Amount
	}
	return totals
}

// ModuleExperience returns round((sum of matching amounts + 70000) / 1000)
// over records whose path matches modulePath.
func ModuleExperience(records []domain.ExperienceRecord) int64 {
	var sum int64
	for _, r := range records {
		if matchesModule(r.Path) {
			sum += r.Amount
		}
	}
	return int64(math.Round(float64(sum+moduleXPOffset) / 1000))
}

func matchesModule(path string) bool {
	ok, err := modulePath.MatchString(path)
	return err == nil && ok
}

// HighestCheckpoint is the largest amount among skill_prog transactions, or 0.
func HighestCheckpoint(txs []domain.TransactionRecord) int64 {
	var best int64
	for _, tx := range txs {
		if strings.HasPrefix(tx.Type, checkpointPrefix) && tx.Amount > best {
			best = tx.Amount
		}
	}
	return best
}

// SkillMaxima keeps, per allow-listed skill, the highest amount seen across
// skill_<name> transactions. Repeated checkpoints overwrite, never add.
func SkillMaxima(txs []domain.TransactionRecord) map[string]int64 {
	out := make(map[string]int64)
	for _, tx := range txs {
		name, ok := strings.CutPrefix(tx.Type, skillPrefix)
		if !ok || !allowedSkill(name) {
			continue
		}
		if cur, seen := out[name]; !seen || tx.Amount > cur {
			out[name] = tx.Amount
		}
	}
	return out
}

func allowedSkill(name string) bool {
	for _, s := range SkillAllowList {
		if s == name {
			return true
		}
	}
	return false
}

// DailySeries sums transaction amounts per UTC day in ascending day order.
// Transactions without a parseable timestamp are left out. The input slice
// is not reordered.
func DailySeries(txs []domain.TransactionRecord) []DayTotal {
	dated := make([]domain.TransactionRecord, 0, len(txs))
	for _, tx := range txs {
		if !tx.CreatedAt.IsZero() {
			dated = append(dated, tx)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].CreatedAt.Before(dated[j].CreatedAt)
	})

	series := make([]DayTotal, 0)
	for _, tx := range dated {
		day := tx.CreatedAt.UTC().Format(DayLayout)
		if n := len(series); n > 0 && series[n-1].Day == day {
			series[n-1].Total += tx.Amount
			continue
		}
		series = append(series, DayTotal{Day: day, Total: tx.Amount})
	}
	return series
}
