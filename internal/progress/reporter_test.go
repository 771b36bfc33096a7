package progress

import (
	"bytes"
	"testing"
)

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Out: &buf}

	r.Start(2)
	r.Update(1, "leetcode ok")
	r.Update(2, "codeforces failed")
	r.Finish()

	want := "Fetching stats from 2 sources\n[1/2] leetcode ok\n[2/2] codeforces failed\nFetch complete\n"
	if buf.String() != want {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestNewReporterCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter().(*CIReporter); !ok {
		t.Error("expected CIReporter when CI is set")
	}
}

func TestTerminalReporterBeforeStart(t *testing.T) {
	r := &TerminalReporter{}
	r.Update(1, "noop")
	r.Finish()
}
