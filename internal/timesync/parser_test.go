package timesync

import "testing"

func frame(digits string) []byte {
	return append([]byte{SyncHeader}, digits...)
}

func TestParserExtractsFrame(t *testing.T) {
	var p Parser
	got := p.Feed(frame("0000003661"))
	if len(got) != 1 {
		t.Fatalf("expected 1 value, got %v", got)
	}
	if got[0] != 3661 {
		t.Errorf("expected 3661, got %d", got[0])
	}
}

func TestParserWrapsTimestampOntoDial(t *testing.T) {
	var p Parser
	// 2010-01-01 12:00:05 UTC.
	got := p.Feed(frame("1262347205"))
	if len(got) != 1 || got[0] != 5 {
		t.Fatalf("expected [5], got %v", got)
	}
}

func TestParserIgnoresBytesOutsideFrames(t *testing.T) {
	var p Parser
	if got := p.Feed([]byte("hello 42 world\r\n")); got != nil {
		t.Fatalf("expected no values from chatter, got %v", got)
	}
	got := p.Feed(frame("0000000042"))
	if len(got) != 1 || got[0] != 42 {
		t.Fatalf("expected [42], got %v", got)
	}
}

func TestParserSpansFeeds(t *testing.T) {
	var p Parser
	data := frame("1262347205")
	if got := p.Feed(data[:4]); got != nil {
		t.Fatalf("expected no value from a partial frame, got %v", got)
	}
	got := p.Feed(data[4:])
	if len(got) != 1 || got[0] != 5 {
		t.Fatalf("expected [5], got %v", got)
	}
}

func TestParserByteAtATime(t *testing.T) {
	var p Parser
	var got []int
	for _, b := range frame("0000003661") {
		got = append(got, p.Feed([]byte{b})...)
	}
	if len(got) != 1 || got[0] != 3661 {
		t.Fatalf("expected [3661], got %v", got)
	}
}

func TestParserNonDigitContributesZero(t *testing.T) {
	var p Parser
	got := p.Feed(frame("00000x1000"))
	if len(got) != 1 || got[0] != 1000 {
		t.Fatalf("expected [1000], got %v", got)
	}
}

func TestParserHeaderInsideFrameContributesZero(t *testing.T) {
	var p Parser
	data := frame("00000")
	data = append(data, SyncHeader)
	data = append(data, "0042"...)
	got := p.Feed(data)
	if len(got) != 1 || got[0] != 42 {
		t.Fatalf("expected [42], got %v", got)
	}
}

func TestParserBackToBackFrames(t *testing.T) {
	var p Parser
	data := append(frame("0000000001"), frame("0000000002")...)
	got := p.Feed(data)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected [1 2], got %v", got)
	}
}
