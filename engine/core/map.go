package core

import "github.com/mohae/deepcopy"

// CloneMap returns a shallow copy of the provided map. Nil input returns nil.
func CloneMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// DeepCopyMap returns a deep copy of the provided map[string]any so the copy
// shares no nested mutable state with the original.
func DeepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	copied, ok := deepcopy.Copy(m).(map[string]any)
	if !ok {
		return CloneMap(m)
	}
	return copied
}
