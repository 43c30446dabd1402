package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/edaloom/internal/utils"
)

func TestSafeWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	if err := utils.EnsureDir(dir); err != nil {
		t.Fatalf("ensure dir: %v", err)
	}
	p := filepath.Join(dir, "report.md")
	if err := utils.SafeWriteFile(p, []byte("# report\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "# report\n" {
		t.Fatalf("unexpected content %q", b)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestRunDirName(t *testing.T) {
	cases := []struct {
		in, id, want string
	}{
		{"/data/ctg.csv", "0f8fad5b-d9cb-469f-a165-70867728950e", "ctg-0f8fad5b"},
		{"my data.xlsx", "abc", "my_data-abc"},
		{".csv", "12345678", "dataset-12345678"},
	}
	for _, c := range cases {
		if got := utils.RunDirName(c.in, c.id); got != c.want {
			t.Errorf("RunDirName(%q, %q) = %q, want %q", c.in, c.id, got, c.want)
		}
	}
}
