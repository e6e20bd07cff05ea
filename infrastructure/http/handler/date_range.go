package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/chatlens/chatlens/domain/analytics"
	"github.com/chatlens/chatlens/domain/entity"
)

// parseDateRange reads the created-date filter off the query string. Both
// the from/to and from_date/to_date spellings are accepted; the literal
// string "null" is treated as absent.
func parseDateRange(r *http.Request) (entity.DateRange, error) {
	query := r.URL.Query()

	fromRaw := firstNonEmpty(query.Get("from"), query.Get("from_date"))
	toRaw := firstNonEmpty(query.Get("to"), query.Get("to_date"))

	var rng entity.DateRange
	if fromRaw != "" {
		from, ok := analytics.ParseDate(fromRaw)
		if !ok {
			return entity.DateRange{}, fmt.Errorf("invalid from date: %q", fromRaw)
		}
		rng.From = from
	}
	if toRaw != "" {
		to, ok := analytics.ParseDate(toRaw)
		if !ok {
			return entity.DateRange{}, fmt.Errorf("invalid to date: %q", toRaw)
		}
		rng.To = to
	}

	if !rng.From.IsZero() && !rng.To.IsZero() && rng.To.Before(rng.From) {
		return entity.DateRange{}, fmt.Errorf("to date precedes from date")
	}

	return rng, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value != "" && !strings.EqualFold(value, "null") {
			return value
		}
	}
	return ""
}
