package engine

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"buzz-workers/internal/engine/features"
)

// MetadataFromMap reads extraction metadata from loosely typed job
// variables. Values that cannot be read are left unset so the dependent
// features fall back to their sentinels.
func MetadataFromMap(raw map[string]interface{}) features.Metadata {
	var meta features.Metadata
	if raw == nil {
		return meta
	}

	if s, ok := raw["publishedAt"].(string); ok {
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(s)); err == nil {
			meta.PublishedAt = t
		}
	}
	if h, ok := toInt(raw["postHour"]); ok {
		meta.PostHour = &h
	}
	if b, ok := toBool(raw["isThread"]); ok {
		meta.IsThread = &b
	}
	if s, ok := raw["account"].(string); ok {
		meta.Account = s
	}
	return meta
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}

func toBool(v interface{}) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return parsed, err == nil
	default:
		return false, false
	}
}
