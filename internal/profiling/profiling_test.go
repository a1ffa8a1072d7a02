package profiling

import (
	"strings"
	"testing"
	"time"
)

func TestTrackAccumulates(t *testing.T) {
	ResetFrame()

	stop := Track("test.section")
	time.Sleep(2 * time.Millisecond)
	stop()
	Track("test.section")() // second sample adds to the same bucket

	snap := Snapshot()
	if snap["test.section"] < 2*time.Millisecond {
		t.Errorf("tracked %v, want at least 2ms", snap["test.section"])
	}

	ResetFrame()
	if len(Snapshot()) != 0 {
		t.Error("ResetFrame left entries behind")
	}
}

func TestSumWithPrefix(t *testing.T) {
	ResetFrame()
	defer ResetFrame()

	Track("world.Update")()
	Track("world.UpdateMainThread")()
	Track("render.blocks")()

	all := SumWithPrefix("world.")
	other := SumWithPrefix("render.")
	total := SumWithPrefix("")
	if total < all+other {
		t.Errorf("total %v less than sum of parts %v", total, all+other)
	}
	if SumWithPrefix("missing.") != 0 {
		t.Error("unknown prefix summed to nonzero")
	}
}

func TestTopN(t *testing.T) {
	ResetFrame()
	defer ResetFrame()

	stop := Track("slow")
	time.Sleep(3 * time.Millisecond)
	stop()
	Track("fast")()

	out := TopN(2)
	if !strings.HasPrefix(out, "slow:") {
		t.Errorf("TopN = %q, want the slow section first", out)
	}
	if !strings.Contains(out, "fast:") {
		t.Errorf("TopN = %q, missing the fast section", out)
	}
	// asking for more entries than exist is not an error
	if got := TopN(10); !strings.Contains(got, "slow:") {
		t.Errorf("TopN(10) = %q", got)
	}
}
