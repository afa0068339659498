package nemlig

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/kurvpilot/backend/internal/domain"
)

// Opaque request parameters the search gateway expects. The shapes are
// fixed: the correlation string is a constant prefix plus eight random
// characters, the timeslot encodes the current local date and hour.
const (
	correlationPrefix   = "AAAAAAAA-"
	correlationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
	correlationLength   = 8

	timeslotSuffix = "-120-600"
)

// NewSearchQuery builds a SearchQuery for one grocery item with freshly
// generated correlation parameters.
func NewSearchQuery(item string) domain.SearchQuery {
	return domain.SearchQuery{
		Text:        strings.TrimSpace(item),
		Timestamp:   generateTimestamp(),
		TimeslotUTC: generateTimeslot(time.Now()),
	}
}

// generateTimestamp produces a correlation string like "AAAAAAAA-0Hjg_CnJ".
// The random part carries no meaning; it only has to be unique enough per
// request.
func generateTimestamp() string {
	var b strings.Builder
	b.WriteString(correlationPrefix)
	for i := 0; i < correlationLength; i++ {
		b.WriteByte(correlationAlphabet[rand.IntN(len(correlationAlphabet))])
	}
	return b.String()
}

// generateTimeslot produces a slot string like "2025072308-120-600" from
// the given local time.
func generateTimeslot(now time.Time) string {
	return fmt.Sprintf("%04d%02d%02d%02d%s",
		now.Year(), int(now.Month()), now.Day(), now.Hour(), timeslotSuffix)
}
