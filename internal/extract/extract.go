package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	orderIDPattern = regexp.MustCompile(`order[:\s]*#?(\d+)`)
	userIDPattern  = regexp.MustCompile(`user[:\s]*#?(\d+)`)
)

// Facts holds the structured hints pulled out of a raw customer message.
// Absent hints are zero-valued; the Has flags disambiguate a genuine id 0.
type Facts struct {
	OrderID    int64
	HasOrderID bool
	UserID     int64
	HasUserID  bool
	Category   string
	Brand      string
}

// Extractor scans messages against fixed keyword lists. The lists are
// injected at construction so they can be swapped without touching the scan.
type Extractor struct {
	categories []string
	brands     []string
}

func New(categories, brands []string) *Extractor {
	return &Extractor{
		categories: lowerAll(categories),
		brands:     lowerAll(brands),
	}
}

// Extract is a best-effort heuristic, not a parser. It never fails; a hint
// with no match is simply left unset.
func (e *Extractor) Extract(message string) Facts {
	lower := strings.ToLower(message)
	facts := Facts{}

	if match := orderIDPattern.FindStringSubmatch(lower); match != nil {
		if id, err := strconv.ParseInt(match[1], 10, 64); err == nil {
			facts.OrderID = id
			facts.HasOrderID = true
		}
	}
	if match := userIDPattern.FindStringSubmatch(lower); match != nil {
		if id, err := strconv.ParseInt(match[1], 10, 64); err == nil {
			facts.UserID = id
			facts.HasUserID = true
		}
	}

	// First hit in list order wins, scan stops.
	for _, category := range e.categories {
		if strings.Contains(lower, category) {
			facts.Category = category
			break
		}
	}
	for _, brand := range e.brands {
		if strings.Contains(lower, brand) {
			facts.Brand = brand
			break
		}
	}

	return facts
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		clean := strings.ToLower(strings.TrimSpace(value))
		if clean == "" {
			continue
		}
		out = append(out, clean)
	}
	return out
}
