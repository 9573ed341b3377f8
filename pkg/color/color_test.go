package color

import (
	"os"
	"testing"
)

func TestColorize(t *testing.T) {
	defer EnableColor(colorEnabled)

	EnableColor(true)
	if got := CyanText("x"); got != Cyan+"x"+Reset {
		t.Errorf("expected cyan text, got %q", got)
	}

	EnableColor(false)
	if got := BrightRedText("x"); got != "x" {
		t.Errorf("expected plain text, got %q", got)
	}
	if got := ErrorWithPosition(3, 7, "bad", "WRITE"); got != "Error at 3:7: bad\nWRITE" {
		t.Errorf("unexpected error line %q", got)
	}
}

func TestDetect(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if Detect(f) {
		t.Errorf("a regular file is not a terminal")
	}

	t.Setenv("NO_COLOR", "1")
	if Detect(os.Stderr) {
		t.Errorf("NO_COLOR should disable colors")
	}
}
