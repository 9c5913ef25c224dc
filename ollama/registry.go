package ollama

import "slices"

// ResolveDefault picks the model a fresh session should use. The configured
// identifier wins when the server actually hosts it; otherwise the first
// hosted model is selected. With an empty list nothing is selected and ok is
// false. The configured value is never returned unless it appears in models,
// and the function never fails.
func ResolveDefault(models []string, configured string) (selected string, ok bool) {
	if configured != "" && slices.Contains(models, configured) {
		return configured, true
	}
	if len(models) > 0 {
		return models[0], true
	}
	return "", false
}
