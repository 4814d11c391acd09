package connector

import (
	"fmt"
	"strings"
)

// ItemRef is the per-project reference number Taiga assigns a created item.
type ItemRef int64

// ParseLabels splits a comma separated label setting into a tag set: entries
// are trimmed, empties dropped, duplicates removed, first-seen order kept.
// It returns nil when no tags remain.
func ParseLabels(raw string) []string {
	var tags []string
	seen := map[string]struct{}{}
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// FormatItemLabel renders the short label shown next to a linked event.
func FormatItemLabel(ref ItemRef) string {
	return fmt.Sprintf("TG-%d", ref)
}

// BuildItemURL returns the Taiga web URL of an item. No request is made.
func BuildItemURL(cfg ConnectorConfig, kind Kind, ref ItemRef) string {
	base := strings.TrimSuffix(strings.TrimSpace(cfg.ServiceURL), "/")
	return fmt.Sprintf("%s/project/%s/%s/%d", base, strings.TrimSpace(cfg.ProjectSlug), kind.urlSegment(), ref)
}
