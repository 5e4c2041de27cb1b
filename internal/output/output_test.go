package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrinter_StreamsAndTags(t *testing.T) {
	var out, errOut bytes.Buffer
	p := New(&out, &errOut, true)

	p.Status("Running: docker compose ps")
	p.Success("Containers started")
	p.Warning("careful")
	p.Error("broken")
	p.Println("Aborted.")

	wantOut := "[INFO] Running: docker compose ps\n[SUCCESS] Containers started\nAborted.\n"
	if out.String() != wantOut {
		t.Errorf("stdout = %q, want %q", out.String(), wantOut)
	}
	wantErr := "[WARNING] careful\n[ERROR] broken\n"
	if errOut.String() != wantErr {
		t.Errorf("stderr = %q, want %q", errOut.String(), wantErr)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "yes\n", true},
		{"y", "y\n", true},
		{"upper case", "Y\n", true},
		{"padded", "  yes  \n", true},
		{"no", "n\n", false},
		{"empty line", "\n", false},
		{"other word", "sure\n", false},
		{"eof", "", false},
		{"no trailing newline", "y", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := Confirm(strings.NewReader(tt.input), &out, "Continue?")
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.HasPrefix(out.String(), "Continue? [y/N]: ") {
				t.Errorf("prompt = %q", out.String())
			}
		})
	}
}

func TestPrompt_ImplementsConfirm(t *testing.T) {
	p := Prompt{In: strings.NewReader("yes\n"), Out: &bytes.Buffer{}}
	if !p.Confirm("Go?") {
		t.Error("expected confirmation")
	}
}
