package profiling

import (
	"strings"
	"testing"
	"time"
)

func TestTrackAccumulates(t *testing.T) {
	ResetFrame()
	stop := Track("test.op")
	time.Sleep(time.Millisecond)
	stop()

	snap := Snapshot()
	if snap["test.op"] <= 0 {
		t.Fatalf("Track recorded %v", snap["test.op"])
	}

	ResetFrame()
	if len(Snapshot()) != 0 {
		t.Error("ResetFrame left entries behind")
	}
}

func TestSumWithPrefix(t *testing.T) {
	ResetFrame()
	Track("terrain.a")()
	Track("terrain.b")()
	Track("render.a")()

	all := Snapshot()
	want := all["terrain.a"] + all["terrain.b"]
	if got := SumWithPrefix("terrain."); got != want {
		t.Errorf("SumWithPrefix = %v, want %v", got, want)
	}
}

func TestTopN(t *testing.T) {
	ResetFrame()
	Track("one")()
	Track("two")()

	s := TopN(1)
	if s == "" || strings.Count(s, ":") != 1 {
		t.Errorf("TopN(1) = %q, want a single entry", s)
	}
	if TopN(10) == "" {
		t.Error("TopN with n beyond the entry count returned nothing")
	}
}
