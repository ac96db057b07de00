package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ghodss/yaml"

	"github.com/0k/chlog/vcs/gitcli"
)

// goldenEnv is read before any test clears the environment.
var goldenEnv = os.Getenv("GOLDEN")

type testOperation struct {
	Commit    string   `json:"commit,omitempty"`
	Tag       string   `json:"tag,omitempty"`
	GitArgs   []string `json:"git,omitempty"`
	ChlogArgs []string `json:"chlog,omitempty"`
}

func TestChlog(t *testing.T) {
	if testing.Short() {
		t.Skip("-short")
	}
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not in PATH")
	}
	t.Setenv("CI", "")

	ctx := context.Background()

	validRoot := Path("testdata/valid")
	validDirs, err := os.ReadDir(validRoot)
	die(err)

	currDir, err := os.Getwd()
	die(err)

	for _, dir := range validDirs {
		name := dir.Name()
		sourceDir := filepath.Join(validRoot, name)
		t.Run(name, func(t *testing.T) {
			defer os.Chdir(currDir)
			tmpDir, err := os.MkdirTemp("", fmt.Sprintf("chlog-%s", name))
			die(err)
			defer func() {
				if t.Failed() {
					t.Logf("Test failed. Leaving temp dir: %s", tmpDir)
					return
				}
				t.Logf("Removing temp dir: %s", tmpDir)
				os.RemoveAll(tmpDir)
			}()

			die(os.Chdir(tmpDir))

			chlogYAML, err := os.ReadFile(filepath.Join(sourceDir, "chlog.yaml"))
			if err == nil {
				die(os.WriteFile(filepath.Join(tmpDir, "chlog.yaml"), chlogYAML, 0644))
			}
			call(ctx, t, "git", "init", "-b", "main")
			call(ctx, t, "git", "config", "--local", "user.email", "chlog-test@example.com")
			call(ctx, t, "git", "config", "--local", "user.name", "chlog-test")

			for _, testop := range readOps(filepath.Join(sourceDir, "test.yaml")) {
				runOp(ctx, t, testop)
			}

			logOut, err := exec.CommandContext(ctx,
				"git", "log", "--graph",
				"--pretty=format:%d %s",
				"--abbrev-commit",
			).Output()
			if err != nil {
				t.Fatal(err)
			}

			checkGolden(t, filepath.Join(sourceDir, "expect"), logOut)
		})
	}
}

func readOps(p string) []testOperation {
	testOpData, err := os.ReadFile(p)
	die(err)

	var testops []testOperation
	for _, testopPart := range bytes.Split(testOpData, []byte("---\n")) {
		testopPart = bytes.TrimSpace(testopPart)
		if len(testopPart) == 0 {
			continue
		}
		testop := testOperation{}
		die(yaml.Unmarshal(testopPart, &testop))
		testops = append(testops, testop)
	}
	return testops
}

func runOp(ctx context.Context, t *testing.T, op testOperation) {
	t.Helper()
	if op.Commit != "" {
		call(ctx, t, "git", "commit", "--allow-empty", "-am", op.Commit)
	}
	if op.Tag != "" {
		call(ctx, t, "git", "tag", "-a", op.Tag, "-m", op.Tag)
	}
	if op.GitArgs != nil {
		call(ctx, t, "git", op.GitArgs...)
	}
	if op.ChlogArgs != nil {
		callChlog(t, op.ChlogArgs...)
	}
}

func checkGolden(t *testing.T, goldenPath string, got []byte) {
	t.Helper()
	if goldenEnv != "" {
		t.Logf("Writing golden file at %s", goldenPath)
		dir, _ := filepath.Split(filepath.Clean(goldenPath))
		die(os.MkdirAll(dir, 0755))
		die(os.WriteFile(goldenPath, got, 0644))
		return
	}

	expectb, err := os.ReadFile(goldenPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			t.Fatalf("No goldenfile at %s. Create one by rerunning with GOLDEN=1", goldenPath)
		}
		die(err)
	}

	if !bytes.Equal(expectb, got) {
		t.Fatalf("golden file didn't match. Either fix, or run: GOLDEN=1 go test on this test\n\nexpected:\n\n%s\n\ngot:\n\n%s", string(expectb), string(got))
	}
}

func Path(p string) string {
	dir, err := findGoMod()
	die(err)
	return filepath.Join(dir, p)
}

var gomodPath string

func findGoMod() (string, error) {
	if gomodPath != "" {
		return gomodPath, nil
	}

	_, file, _, ok := runtime.Caller(1)
	if !ok {
		return "", errors.New("failed to get path of caller's file")
	}
	dir, _ := filepath.Split(file)

	for d := dir; d != "/"; d, _ = filepath.Split(filepath.Clean(d)) {
		if _, err := os.Stat(filepath.Join(d, "go.mod")); err != nil {
			continue
		}
		gomodPath = d
		return d, nil
	}
	return "", errors.New("failed to find project root")
}

func call(ctx context.Context, t *testing.T, arg string, args ...string) {
	t.Helper()
	t.Logf("+ %s %s", arg, gitcli.ArgsString(args))
	cmd := exec.CommandContext(ctx, arg, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if arg == "git" {
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=chlog-test",
			"GIT_AUTHOR_EMAIL=chlog-test@example.com",
			"GIT_COMMITTER_NAME=chlog-test",
			"GIT_COMMITTER_EMAIL=chlog-test@example.com",
		)
	}
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
}

func callChlog(t *testing.T, args ...string) {
	t.Helper()
	t.Logf("chlog(%s)", gitcli.ArgsString(args))
	if err := run(append([]string{"chlog"}, args...)); err != nil {
		t.Fatal(err)
	}
}

func die(err error) {
	if err != nil {
		panic(err)
	}
}
