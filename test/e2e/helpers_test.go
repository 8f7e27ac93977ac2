package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func repoRoot(t *testing.T) string {
	t.Helper()
	root, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		t.Fatalf("resolve repo root failed: %v", err)
	}
	return root
}

func buildCLI(t *testing.T, home string) (string, []string) {
	t.Helper()
	if testing.Short() {
		t.Skip("builds the r2r binary")
	}
	root := repoRoot(t)
	goModCache := filepath.Join(os.TempDir(), "r2r-gomodcache")
	goCache := filepath.Join(os.TempDir(), "r2r-gocache")
	for _, dir := range []string{goModCache, goCache} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("create cache dir failed: %v", err)
		}
	}

	env := append(os.Environ(),
		"HOME="+home,
		"GOMODCACHE="+goModCache,
		"GOCACHE="+goCache,
	)
	bin := filepath.Join(home, "bin", "r2r")
	cmd := exec.Command("go", "build", "-o", bin, "./cmd/r2r")
	cmd.Dir = root
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("build cli failed: %v\n%s", err, string(out))
	}
	return bin, env
}

func runCLI(t *testing.T, bin string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("command failed: %s\nargs=%v\noutput=%s", err, args, string(out))
	}
	return string(out)
}

// runCLIExpectFail runs the binary and returns its output and exit code,
// failing the test if it exits zero.
func runCLIExpectFail(t *testing.T, bin string, env []string, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected command to exit non-zero, got err=%v\nargs=%v\noutput=%s", err, args, string(out))
	}
	return string(out), exitErr.ExitCode()
}

func fixturePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(repoRoot(t), "internal", "r2rconfig", "testdata", "r2r.json")
}
