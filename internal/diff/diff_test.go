package diff

import (
	"strings"
	"testing"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name         string
		old          string
		new          string
		wantContains []string
		wantEmpty    bool
	}{
		{
			name:      "identical content",
			old:       "line one\nline two\n",
			new:       "line one\nline two\n",
			wantEmpty: true,
		},
		{
			name:         "changed line",
			old:          "keep\nold value\n",
			new:          "keep\nnew value\n",
			wantContains: []string{"- old", "+ new"},
		},
		{
			name:         "added line",
			old:          "first\n",
			new:          "first\nsecond\n",
			wantContains: []string{"+ second"},
		},
		{
			name:         "removed line",
			old:          "first\nsecond\n",
			new:          "first\n",
			wantContains: []string{"- second"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Compute(tt.old, tt.new, "a", "b")

			if got := r.Empty(); got != tt.wantEmpty {
				t.Errorf("Empty() = %v, want %v\ndiff:\n%s", got, tt.wantEmpty, r.Diff)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(r.Diff, want) {
					t.Errorf("diff missing %q:\n%s", want, r.Diff)
				}
			}
		})
	}
}

func TestFormatCollapsesLongEqualRuns(t *testing.T) {
	var oldLines, newLines []string
	for i := 0; i < 20; i++ {
		oldLines = append(oldLines, "same line")
		newLines = append(newLines, "same line")
	}
	oldLines = append(oldLines, "old tail")
	newLines = append(newLines, "new tail")

	r := Compute(strings.Join(oldLines, "\n"), strings.Join(newLines, "\n"), "a", "b")
	if !strings.Contains(r.Diff, "  ...\n") {
		t.Errorf("long equal run not collapsed:\n%s", r.Diff)
	}
}

func TestResultFormat(t *testing.T) {
	r := Compute("old\n", "new\n", "current", "incoming")

	plain := r.Format(false)
	if !strings.HasPrefix(plain, "--- current\n+++ incoming\n") {
		t.Errorf("missing header:\n%s", plain)
	}
	if strings.Contains(plain, "\033[") {
		t.Errorf("plain output contains ANSI codes:\n%q", plain)
	}

	coloured := r.Format(true)
	if !strings.Contains(coloured, "\033[31m") || !strings.Contains(coloured, "\033[32m") {
		t.Errorf("coloured output missing ANSI codes:\n%q", coloured)
	}
}
