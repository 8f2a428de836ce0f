package grouping_test

import (
	"testing"

	"github.com/dalemusser/storeadmin/internal/app/system/grouping"
)

type item struct {
	kind string
	n    int
}

func TestIndex(t *testing.T) {
	items := []item{{"x", 1}, {"y", 2}, {"x", 3}}

	m := grouping.Index(items, func(i item) string { return i.kind })
	if len(m["x"]) != 2 || len(m["y"]) != 1 {
		t.Errorf("unexpected index: %+v", m)
	}
	if m["x"][0].n != 1 || m["x"][1].n != 3 {
		t.Errorf("members out of order: %+v", m["x"])
	}
	if _, ok := m["missing"]; ok {
		t.Error("expected no entry for an unseen key")
	}
}

func TestIndex_Empty(t *testing.T) {
	m := grouping.Index([]item(nil), func(i item) string { return i.kind })
	if len(m) != 0 {
		t.Errorf("expected empty index, got %+v", m)
	}
}

func TestIndex_CountsSumToInput(t *testing.T) {
	items := []item{{"x", 1}, {"y", 2}, {"x", 3}, {"z", 4}}

	total := 0
	for k, members := range grouping.Index(items, func(i item) string { return i.kind }) {
		if len(members) == 0 {
			t.Errorf("entry %q is empty", k)
		}
		total += len(members)
	}
	if total != len(items) {
		t.Errorf("sum of members: got %d, want %d", total, len(items))
	}
}
