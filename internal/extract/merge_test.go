// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package extract

import "testing"

func TestMerge_CoalescesSessionlessRecords(t *testing.T) {
	records := []*Record{
		{Session: "Session 1", Title: "Talk A", Authors: []string{"Dr. X"}, Abstract: "Part one."},
		{Title: " (cont.)", Affiliations: []string{"Univ. A"}, Abstract: " Part two."},
		{Abstract: " Part three."},
		{Session: "Session 2", Title: "Talk B"},
	}

	merged := Merge(records)
	if len(merged) != 2 {
		t.Fatalf("Expected 2 merged blocks, got %d", len(merged))
	}

	first := merged[0]
	if first.Title != "Talk A (cont.)" {
		t.Errorf("Title not concatenated: %q", first.Title)
	}
	if first.Abstract != "Part one. Part two. Part three." {
		t.Errorf("Abstract not concatenated: %q", first.Abstract)
	}
	if len(first.Affiliations) != 1 || first.Affiliations[0] != "Univ. A" {
		t.Errorf("Affiliations not extended: %v", first.Affiliations)
	}
	if merged[1].Session != "Session 2" {
		t.Errorf("Second block mismatch: %+v", merged[1])
	}
}

func TestMerge_NoConsecutiveSessionlessBlocks(t *testing.T) {
	records := []*Record{
		{Abstract: "lead-in"},
		{Abstract: " more"},
		{Session: "Session 1", Title: "Talk A"},
		{Abstract: " tail"},
		{Session: "Session 2"},
	}

	merged := Merge(records)
	for i := 1; i < len(merged); i++ {
		if merged[i-1].Session == "" && merged[i].Session == "" {
			t.Fatalf("Blocks %d and %d both lack a session", i-1, i)
		}
	}
	if len(merged) != 3 {
		t.Errorf("Expected 3 merged blocks, got %d", len(merged))
	}
	if merged[1].Abstract != " tail" {
		t.Errorf("Continuation not folded into open block: %+v", merged[1])
	}
}

func TestMerge_Empty(t *testing.T) {
	if merged := Merge(nil); len(merged) != 0 {
		t.Errorf("Expected no blocks for empty input, got %d", len(merged))
	}
}

func TestMerge_SingleRecord(t *testing.T) {
	records := []*Record{{Session: "Session 1", Title: "Talk A"}}

	merged := Merge(records)
	if len(merged) != 1 || merged[0] != records[0] {
		t.Errorf("Single record should pass through unchanged: %+v", merged)
	}
}
