package types

import "time"

// EpochSecondsToISO converts an epoch timestamp in seconds, as reported
// by the Stripe API, to an ISO-8601 / RFC3339 string in UTC
func EpochSecondsToISO(epochSeconds int64) string {
	return time.Unix(epochSeconds, 0).UTC().Format(time.RFC3339)
}
