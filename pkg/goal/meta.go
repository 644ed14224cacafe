// Package goal defines metadata helpers for metas, the top-level groupings
// that own task trees.
package goal

import "encoding/json"

// Meta describes persisted per-goal metadata.
type Meta struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MarshalList serialises a metadata slice.
func MarshalList(metas []Meta) ([]byte, error) {
	return json.MarshalIndent(metas, "", "  ")
}

// UnmarshalList deserialises a metadata slice and upgrades legacy arrays of
// bare goal ids.
func UnmarshalList(data []byte) ([]Meta, error) {
	if len(data) == 0 {
		return []Meta{}, nil
	}
	var metas []Meta
	if err := json.Unmarshal(data, &metas); err == nil {
		for i := range metas {
			if metas[i].Name == "" {
				metas[i].Name = metas[i].ID
			}
		}
		return metas, nil
	}
	// Fallback for legacy format (array of strings).
	var legacy []string
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, err
	}
	metas = make([]Meta, 0, len(legacy))
	for _, id := range legacy {
		metas = append(metas, Meta{ID: id, Name: id})
	}
	return metas, nil
}
