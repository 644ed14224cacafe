package editor

import "reflect"

// Diff returns the subset of buffered fields whose values differ from the
// original field map. Comparison is deep, so an extension map that was opened
// for editing but left untouched never makes it into a patch. A nil return
// means there is nothing to persist.
func Diff(original, buffer map[string]any) map[string]any {
	var patch map[string]any
	for key, value := range buffer {
		if reflect.DeepEqual(original[key], value) {
			continue
		}
		if patch == nil {
			patch = make(map[string]any)
		}
		patch[key] = value
	}
	return patch
}
