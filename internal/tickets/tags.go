package tickets

import (
	"encoding/json"
	"strings"
)

// Tags are stored as a JSON array of strings in tickets.tags so SQLite's
// json_each can address individual tokens. This file is the only place
// that knows the column format.

// ParseTags splits a comma-separated tag list as typed by a user.
func ParseTags(s string) []string {
	return NormalizeTags(strings.Split(s, ","))
}

// NormalizeTags trims and lower-cases each tag, drops empty ones and
// duplicates, and keeps the order of first appearance. Commas are not allowed inside a
// tag, so a tag containing one is split.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, raw := range tags {
		for _, part := range strings.Split(raw, ",") {
			tag := strings.ToLower(strings.TrimSpace(part))
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}

// JoinTags renders tags for display.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func encodeTags(tags []string) string {
	norm := NormalizeTags(tags)
	data, err := json.Marshal(norm)
	if err != nil {
		// []string always marshals.
		return "[]"
	}
	return string(data)
}

// decodeTags reads the column value. Values that are not a JSON array are
// treated as the legacy comma-joined format.
func decodeTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	var tags []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &tags); err == nil {
			return NormalizeTags(tags)
		}
	}
	return ParseTags(raw)
}
