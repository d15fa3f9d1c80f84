package metadata

import "sort"

// Change summarises how a key moved between two lists.
type Change struct {
	Key    string `json:"key"`
	Status string `json:"status"`
}

// Diff compares two lists by key. Duplicate keys collapse onto their last value.
func Diff(before, after []Input) []Change {
	prev := lastValues(before)
	next := lastValues(after)
	var out []Change
	for key, value := range next {
		old, ok := prev[key]
		switch {
		case !ok:
			out = append(out, Change{Key: key, Status: "added"})
		case old != value:
			out = append(out, Change{Key: key, Status: "changed"})
		}
	}
	for key := range prev {
		if _, ok := next[key]; !ok {
			out = append(out, Change{Key: key, Status: "removed"})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func lastValues(list []Input) map[string]string {
	out := make(map[string]string, len(list))
	for _, e := range list {
		out[e.Key] = e.Value
	}
	return out
}
