package tickets

import "time"

// timeNow is a package-level variable so tests can control timestamps.
var timeNow = time.Now

// timestampLayout is fixed width, so lexical order equals time order.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

func nowTimestamp() string {
	return timeNow().UTC().Format(timestampLayout)
}
