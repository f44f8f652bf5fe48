package text

import "testing"

func TestOffsetToLocationSingleLine(t *testing.T) {
	contents := []byte("Hello, world!")
	breaks := LineBreaks(contents)

	check := func(off ByteOffset, want Location) {
		t.Helper()
		got, err := OffsetToLocation(contents, breaks, off)
		if err != nil {
			t.Fatalf("OffsetToLocation(%d): %v", off, err)
		}
		if got != want {
			t.Errorf("OffsetToLocation(%d) = %v, want %v", off, got, want)
		}
	}

	check(0, Location{Line: 0, Col: 0})
	check(7, Location{Line: 0, Col: 7})
}

func TestOffsetToLocationMultipleLines(t *testing.T) {
	contents := []byte("Hello,\nWorld!\n")
	breaks := LineBreaks(contents)

	check := func(off ByteOffset, want Location) {
		t.Helper()
		got, err := OffsetToLocation(contents, breaks, off)
		if err != nil {
			t.Fatalf("OffsetToLocation(%d): %v", off, err)
		}
		if got != want {
			t.Errorf("OffsetToLocation(%d) = %v, want %v", off, got, want)
		}
	}

	check(0, Location{Line: 0, Col: 0})
	check(6, Location{Line: 0, Col: 6})
	check(7, Location{Line: 1, Col: 0})
	check(12, Location{Line: 1, Col: 5})
}

func TestOffsetToLocationRejectsContentLength(t *testing.T) {
	contents := []byte("Line 1\nLine 2")
	breaks := LineBreaks(contents)
	if _, err := OffsetToLocation(contents, breaks, ByteOffset(len(contents))); err == nil {
		t.Fatal("expected error for offset == len(contents)")
	}
}

func TestLocationString(t *testing.T) {
	loc := Location{Line: 0, Col: 0}
	if got, want := loc.String(), "1:1"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
