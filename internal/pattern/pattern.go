// Package pattern derives aggregate statistics from a window of edit records.
package pattern

import "github.com/rcliao/vibe-writer/internal/model"

// Extract summarizes the given edits. It only looks at the slice it is handed;
// choosing the recency window is the caller's job. Tags outside
// model.ValidEditTypes are counted under model.EditTypeOther.
func Extract(edits []model.EditRecord) model.Patterns {
	p := model.Patterns{EditTypes: map[string]int{}}
	if len(edits) == 0 {
		return p
	}

	var absTotal, netTotal int
	for _, e := range edits {
		p.EditTypes[bucket(e.EditType)]++

		c := e.Diff.ChangeSize
		netTotal += c
		if c < 0 {
			c = -c
		}
		absTotal += c
	}

	n := float64(len(edits))
	p.AverageEditSize = float64(absTotal) / n
	p.NetChangeSize = float64(netTotal) / n
	return p
}

func bucket(tag string) string {
	if model.ValidEditTypes[tag] {
		return tag
	}
	return model.EditTypeOther
}
