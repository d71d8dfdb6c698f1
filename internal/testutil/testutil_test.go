package testutil

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestAssertNoError_NilErr(t *testing.T) {
	fakeT := &testing.T{}
	AssertNoError(fakeT, nil)
	if fakeT.Failed() {
		t.Error("expected no failure for nil error")
	}
}

func TestAssertError_WithErr(t *testing.T) {
	fakeT := &testing.T{}
	AssertError(fakeT, errors.New("something wrong"))
	if fakeT.Failed() {
		t.Error("expected no failure when error is present")
	}
}

func TestLogBuilder_Lines(t *testing.T) {
	got := NewLogBuilder().
		Accelero(1000, 0.5, -1, 9.81).
		Orientation(1001, 1.5707963267948966, 0, 0).
		StepCount(1002, 12).
		Raw("1003 unknownEvent a b").
		String()

	want := "1000 accelero 0.5 -1 9.81\n" +
		"1001 orientation 1.5707963267948966 0 0\n" +
		"1002 stepCount 12.0\n" +
		"1003 unknownEvent a b\n"
	if got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestLogBuilder_ScanBlock(t *testing.T) {
	got := NewLogBuilder().
		ScanBlock(5000, map[string]int{"aa": -60, "bb": -72}, "aa", "bb").
		String()

	want := "5000 startScan\n" +
		"5001 onScan aa -60 -55\n" +
		"5002 onScan bb -72 -67\n" +
		"5003 stopScan\n"
	if got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestLogBuilder_EmptyReader(t *testing.T) {
	data, err := io.ReadAll(NewLogBuilder().Reader())
	AssertNoError(t, err)
	if len(data) != 0 {
		t.Errorf("expected empty log, got %q", data)
	}
}

func TestDefaultWalk_Builder(t *testing.T) {
	text := DefaultWalk().Builder().String()
	lines := strings.Split(strings.TrimSpace(text), "\n")

	// 200 samples, each with gravity, orientation and accelerometer lines.
	if len(lines) != 600 {
		t.Fatalf("expected 600 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "1450000000000 gravity") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if want := "1450000001990 accelero"; !strings.HasPrefix(lines[len(lines)-1], want) {
		t.Errorf("last line %q, want prefix %q", lines[len(lines)-1], want)
	}
}

func TestWalk_SparseChannels(t *testing.T) {
	w := DefaultWalk()
	w.GravityHz = 10
	w.HeadingHz = 50
	w.StepCounts = []int{0, 1}
	text := w.Builder().String()

	if got := strings.Count(text, " gravity "); got != 20 {
		t.Errorf("gravity lines = %d, want 20", got)
	}
	if got := strings.Count(text, " orientation "); got != 100 {
		t.Errorf("orientation lines = %d, want 100", got)
	}
	if got := strings.Count(text, " stepCount "); got != 2 {
		t.Errorf("stepCount lines = %d, want 2", got)
	}
}
