package clipfiles

import (
	"fmt"
	"strings"

	"ztools-native/src/events"
)

// NormalizeInput accepts path strings or values carrying a path: File,
// *File, struct{ Path string }, or a map with a "path" key. Entries
// without a usable path are skipped.
func NormalizeInput(items []any) ([]string, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: file list cannot be empty", events.ErrInvalidArgument)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if p := strings.TrimSpace(pathOf(item)); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no valid file paths provided", events.ErrInvalidArgument)
	}
	return out, nil
}

func pathOf(item any) string {
	switch v := item.(type) {
	case string:
		return v
	case File:
		return v.Path
	case *File:
		if v != nil {
			return v.Path
		}
	case struct{ Path string }:
		return v.Path
	case map[string]any:
		if s, ok := v["path"].(string); ok {
			return s
		}
	case map[string]string:
		return v["path"]
	}
	return ""
}
