package audit_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"starcuak/internal/adapters/audit"
	"starcuak/internal/domain"
)

func TestLog_AppendsTimestampedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outputs", "log.txt")
	l := audit.New(path)

	l.Event("manual analysis: Latte -> POS")
	l.Event("database cleared by the operator")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "[") || !strings.Contains(line, "] ") {
			t.Fatalf("malformed audit line: %q", line)
		}
	}
	if !strings.HasSuffix(lines[0], "manual analysis: Latte -> POS") {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
}

func TestLog_SwallowsWriteFailures(t *testing.T) {
	// a directory path cannot be opened for append; Event must not panic
	l := audit.New(t.TempDir())
	l.Event("goes nowhere")
}

func TestBackup_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outputs", "backup.dat")
	in := domain.RawTable{
		Headers: []string{"comentario", "producto"},
		Rows:    [][]string{{"rico", "Latte"}, {"malo", "Espresso"}},
	}
	if err := audit.WriteBackup(path, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := audit.ReadBackup(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(out.Rows) != 2 || out.Rows[1][0] != "malo" {
		t.Fatalf("round trip mangled the table: %+v", out)
	}
}
