// Package batcher groups texts into request-sized batches for the translation service.
package batcher

import "unicode/utf8"

const (
	DefaultMaxItems = 100
	DefaultMaxChars = 10000
)

// Limits bounds one batch. Zero or negative values fall back to the defaults.
type Limits struct {
	MaxItems int
	MaxChars int
}

func (l Limits) normalized() Limits {
	if l.MaxItems <= 0 {
		l.MaxItems = DefaultMaxItems
	}
	if l.MaxChars <= 0 {
		l.MaxChars = DefaultMaxChars
	}
	return l
}

// Batch splits items into consecutive batches. A batch is closed before an item that would
// exceed MaxItems or push the character count past MaxChars. An item longer than MaxChars on
// its own still gets a batch of its own; items are never split.
// Length is counted in runes. Callers holding optional values pass absent ones as "".
func Batch(items []string, lim Limits) [][]string {
	lim = lim.normalized()
	var (
		batches [][]string
		current []string
		chars   int
	)
	for _, item := range items {
		n := utf8.RuneCountInString(item)
		if len(current) > 0 && (len(current) >= lim.MaxItems || chars+n > lim.MaxChars) {
			batches = append(batches, current)
			current = nil
			chars = 0
		}
		current = append(current, item)
		chars += n
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}
