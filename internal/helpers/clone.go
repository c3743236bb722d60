package helpers

import "time"

// DeepClone recursively copies plain data: map[string]interface{} and
// []interface{} are rebuilt, time.Time is copied by value, everything else
// is returned as-is. Known limitation: cyclic structures recurse forever.
func DeepClone(v interface{}) interface{} {
	switch value := v.(type) {
	case map[string]interface{}:
		clone := make(map[string]interface{}, len(value))
		for k, inner := range value {
			clone[k] = DeepClone(inner)
		}
		return clone
	case []interface{}:
		clone := make([]interface{}, len(value))
		for i, inner := range value {
			clone[i] = DeepClone(inner)
		}
		return clone
	case time.Time:
		return value
	default:
		return v
	}
}
