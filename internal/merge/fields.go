package merge

import (
	"strings"

	"github.com/sarops/missionline/internal/model"
)

// Fields applies the field precedence rule when the source event is folded
// into the destination: for each piece of metadata the destination keeps
// its own value when one is set and adopts the source's otherwise.  Blank
// or whitespace-only text counts as unset.  The closed timestamp follows
// the same rule: a destination that is still open adopts the source's
// closed time, which may itself be nil.
func Fields(from, into *model.Event) {
	into.OutgoingText = firstSet(into.OutgoingText, from.OutgoingText)
	into.OutgoingUrl = firstSet(into.OutgoingUrl, from.OutgoingUrl)
	into.DirectionsText = firstSet(into.DirectionsText, from.DirectionsText)
	into.DirectionsUrl = firstSet(into.DirectionsUrl, from.DirectionsUrl)
	if into.Closed == nil {
		into.Closed = from.Closed
	}
}

func firstSet(preferred, fallback string) string {
	if strings.TrimSpace(preferred) == "" {
		return fallback
	}
	return preferred
}
