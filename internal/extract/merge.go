// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package extract

// Merge coalesces consecutive sessionless records into the open block: a
// record carrying a session closes the current block and opens a new one,
// anything else concatenates into the block being built. The output never
// holds two consecutive records that both lack a session.
func Merge(records []*Record) []*Record {
	var merged []*Record
	var current *Record

	for _, r := range records {
		switch {
		case current == nil:
			current = r
		case r.Session != "":
			merged = append(merged, current)
			current = r
		default:
			current.absorb(r)
		}
	}

	if current != nil {
		merged = append(merged, current)
	}

	return merged
}
