package main

import (
	"testing"
)

func TestParseSlots(t *testing.T) {
	slots, err := parseSlots("0,2,0,0,0,0,-5,0,-3,0,0,0,5,-5,0,0,0,3,0,5,0,0,0,0,-2,0")
	if err != nil {
		t.Fatalf("parseSlots failed: %v", err)
	}
	if slots[1] != 2 || slots[24] != -2 {
		t.Errorf("unexpected slots: %v", slots)
	}

	if _, err := parseSlots("1,2,3"); err == nil {
		t.Error("Expected an error for a short slot list")
	}
	if _, err := parseSlots("0,2,0,0,0,0,-5,0,-3,0,0,0,5,-5,0,0,0,3,0,5,0,0,0,0,x,0"); err == nil {
		t.Error("Expected an error for a non-numeric slot")
	}
}
