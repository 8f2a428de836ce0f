package productstore

import "testing"

func TestAggregateOptions_AllowDiskUse(t *testing.T) {
	opts := aggregateOptions()
	if opts.AllowDiskUse == nil || !*opts.AllowDiskUse {
		t.Error("grouping pipelines must be allowed to use disk")
	}
}
