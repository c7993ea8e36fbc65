package listing

import (
	"math"
	"time"

	"github.com/spf13/cast"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// isoLayout matches the millisecond ISO-8601 form browsers produce.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// timestampFields are the top-level fields rewritten by Sanitize.
var timestampFields = []string{fieldCreatedAt, fieldUpdatedAt, fieldSubExpiresAt}

// Sanitize returns a deep copy of doc that is safe to serialize. Known
// timestamp fields holding a store-native timestamp become ISO-8601 strings at
// whole-second precision. NaN and infinite numbers, which JSON cannot carry,
// become nil; every other value is copied as is. A nil document yields nil.
func Sanitize(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	out := deepCopyMap(doc)
	for _, field := range timestampFields {
		if secs, ok := epochSeconds(out[field]); ok {
			out[field] = formatISO(time.UnixMilli(secs * 1000))
		}
	}
	return out
}

func formatISO(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// epochSeconds extracts whole seconds since the epoch from the timestamp
// shapes the store hands back: time values, protobuf timestamps, and the
// {seconds, nanoseconds} maps produced when a timestamp was serialized by a
// client SDK.
func epochSeconds(v any) (int64, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return 0, false
		}
		return t.Unix(), true
	case *time.Time:
		if t == nil || t.IsZero() {
			return 0, false
		}
		return t.Unix(), true
	case *timestamppb.Timestamp:
		if t == nil {
			return 0, false
		}
		return t.GetSeconds(), true
	case map[string]any:
		for _, key := range []string{"seconds", "_seconds"} {
			raw, ok := t[key]
			if !ok {
				continue
			}
			secs, err := cast.ToInt64E(raw)
			if err != nil {
				return 0, false
			}
			return secs, true
		}
	}
	return 0, false
}

func deepCopyMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = deepCopy(v)
	}
	return dst
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if t == nil {
			return t
		}
		return deepCopyMap(t)
	case []any:
		if t == nil {
			return t
		}
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = deepCopy(item)
		}
		return out
	case []string:
		if t == nil {
			return t
		}
		out := make([]string, len(t))
		copy(out, t)
		return out
	case []map[string]any:
		if t == nil {
			return t
		}
		out := make([]map[string]any, len(t))
		for i, item := range t {
			out[i] = deepCopyMap(item)
		}
		return out
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(t)) || math.IsInf(float64(t), 0) {
			return nil
		}
	}
	return v
}
