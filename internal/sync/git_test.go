package sync

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// newTestClone creates a bare remote plus a clone with one commit on main and
// returns the clone path.
func newTestClone(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}

	remoteDir := t.TempDir()
	run(t, remoteDir, "git", "init", "--bare")

	workDir := t.TempDir()
	run(t, workDir, "git", "clone", remoteDir, "repo")
	repoDir := filepath.Join(workDir, "repo")

	// Git needs user identity for commits.
	run(t, repoDir, "git", "config", "user.email", "backup@reelcast.test")
	run(t, repoDir, "git", "config", "user.name", "Backup")
	run(t, repoDir, "git", "branch", "-m", "main")

	if err := os.WriteFile(filepath.Join(repoDir, ".gitkeep"), nil, 0o644); err != nil {
		t.Fatalf("write .gitkeep: %v", err)
	}
	run(t, repoDir, "git", "add", ".")
	run(t, repoDir, "git", "commit", "-m", "init")
	run(t, repoDir, "git", "push", "origin", "main")
	return repoDir
}

func commitCount(t *testing.T, repoDir string) string {
	t.Helper()
	out, err := exec.Command("git", "-C", repoDir, "rev-list", "--count", "HEAD").Output()
	if err != nil {
		t.Fatalf("rev-list: %v", err)
	}
	return strings.TrimSpace(string(out))
}

func TestGitDestination(t *testing.T) {
	repoDir := newTestClone(t)
	dest := NewGitDestination(repoDir, "reelcast.jsonl", "main")

	data1 := []byte(`{"version":"1","type":"header","record_count":0}` + "\n")
	if err := dest.Write(context.Background(), data1); err != nil {
		t.Fatalf("first write: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(repoDir, "reelcast.jsonl"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(got) != string(data1) {
		t.Fatalf("file content mismatch: got %q", string(got))
	}
	if n := commitCount(t, repoDir); n != "2" {
		t.Fatalf("expected 2 commits after first write, got %s", n)
	}

	// Unchanged data makes no commit.
	if err := dest.Write(context.Background(), data1); err != nil {
		t.Fatalf("second write (no-op): %v", err)
	}
	if n := commitCount(t, repoDir); n != "2" {
		t.Fatalf("no-op write committed: %s commits", n)
	}

	data2 := []byte(`{"version":"1","type":"header","record_count":1}` + "\n")
	if err := dest.Write(context.Background(), data2); err != nil {
		t.Fatalf("third write: %v", err)
	}
	if n := commitCount(t, repoDir); n != "3" {
		t.Fatalf("expected 3 commits, got %s", n)
	}
}

func TestGitDestination_SubDirectory(t *testing.T) {
	repoDir := newTestClone(t)
	dest := NewGitDestination(repoDir, "backups/reelcast.jsonl", "main")

	data := []byte(`{"type":"header"}` + "\n")
	if err := dest.Write(context.Background(), data); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(repoDir, "backups", "reelcast.jsonl"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(got) != string(data) {
		t.Fatalf("content mismatch: got %q", string(got))
	}
}

func TestGitDestination_MissingBranch(t *testing.T) {
	repoDir := newTestClone(t)
	dest := NewGitDestination(repoDir, "reelcast.jsonl", "does-not-exist")
	if err := dest.Write(context.Background(), []byte("{}\n")); err == nil {
		t.Fatal("expected checkout error")
	}
}

func run(t *testing.T, dir string, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("%s %v failed: %v", name, args, err)
	}
}

func TestGitDestination_RejectsEscapingPath(t *testing.T) {
	dest := NewGitDestination(t.TempDir(), "../outside.jsonl", "main")
	if err := dest.Write(context.Background(), []byte("{}\n")); err == nil {
		t.Fatal("expected error for a path outside the clone")
	}
}

func TestCommitMessage(t *testing.T) {
	data := []byte(`{"version":"1","type":"header","timestamp":"2024-05-01T00:00:00Z","record_count":3}` + "\n" +
		`{"type":"record","key":"schedules","data":[]}` + "\n")
	if got := commitMessage(data); got != "backup: 3 reelcast records" {
		t.Errorf("commitMessage = %q", got)
	}
	if got := commitMessage([]byte("not json\n")); got != "backup: reelcast records" {
		t.Errorf("commitMessage(garbage) = %q", got)
	}
}
