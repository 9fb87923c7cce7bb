package migrations

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	cases := map[string]string{
		"001_init.sql":             "001",
		"migrations/002_extra.sql": "002",
		"003.sql":                  "003",
	}
	for in, want := range cases {
		if got := Version(in); got != want {
			t.Errorf("%s: got %q want %q", in, got, want)
		}
	}
}

func TestPendingFilesSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_b.sql", "001_a.sql", "README.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "000_dir.sql"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	files, err := PendingFiles(dir)
	if err != nil {
		t.Fatalf("PendingFiles: %v", err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "001_a.sql" || filepath.Base(files[1]) != "002_b.sql" {
		t.Fatalf("unexpected files: %v", files)
	}
}

func TestInitMigrationPresent(t *testing.T) {
	files, err := PendingFiles(filepath.Join("..", "..", "..", "migrations"))
	if err != nil {
		t.Fatalf("PendingFiles: %v", err)
	}
	if len(files) == 0 || Version(files[0]) != "001" {
		t.Fatalf("expected 001 migration first, got %v", files)
	}
}

var createTable = regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS (\w+) \((.*?)\n\);`)

// initColumns maps "table.column" to the column definition in the init migration
func initColumns(t *testing.T) map[string]string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "001_init.sql"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	cols := map[string]string{}
	for _, m := range createTable.FindAllStringSubmatch(string(data), -1) {
		for _, line := range strings.Split(m[2], "\n") {
			fields := strings.Fields(line)
			if len(fields) < 2 {
				continue
			}
			cols[m[1]+"."+fields[0]] = strings.TrimSuffix(strings.TrimSpace(line), ",")
		}
	}
	return cols
}

func TestInitMigrationDeleteRules(t *testing.T) {
	cols := initColumns(t)
	cases := map[string]string{
		"sections.course_id":           "REFERENCES courses(id) ON DELETE CASCADE",
		"lessons.section_id":           "REFERENCES sections(id) ON DELETE CASCADE",
		"comments.lesson_id":           "REFERENCES lessons(id) ON DELETE CASCADE",
		"lesson_videos.lesson_id":      "REFERENCES lessons(id) ON DELETE CASCADE",
		"lesson_reactions.lesson_id":   "REFERENCES lessons(id) ON DELETE CASCADE",
		"reply_to_comments.comment_id": "REFERENCES comments(id) ON DELETE CASCADE",
		"comments.author_id":           "REFERENCES users(id) ON DELETE SET NULL",
		"reply_to_comments.author_id":  "REFERENCES users(id) ON DELETE SET NULL",
	}
	for col, want := range cases {
		def, ok := cols[col]
		if !ok {
			t.Errorf("%s: column not found", col)
			continue
		}
		if !strings.HasSuffix(def, want) {
			t.Errorf("%s: got %q, want suffix %q", col, def, want)
		}
	}
}
