package gitcli

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

var CommandContext = exec.CommandContext

// call runs git with args in the repository directory and returns its
// stdout. On failure, whatever git printed to stderr is folded into the
// returned error.
func (g *Git) call(ctx context.Context, args []string) ([]byte, error) {
	cmd := CommandContext(ctx, "git", args...)
	cmd.Dir = g.wd

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("gitcli: git %s: %s (%w)", ArgsString(args), strings.TrimSpace(stderr.String()), err)
	}
	return stdout.Bytes(), nil
}

// ArgsString renders an argument list the way it would be typed into a
// shell, quoting arguments that contain spaces.
func ArgsString(args []string) string {
	var b strings.Builder
	for i, arg := range args {
		if i > 0 {
			b.WriteByte(' ')
		}
		if strings.Contains(arg, " ") {
			b.WriteByte('"')
			b.WriteString(arg)
			b.WriteByte('"')
			continue
		}
		b.WriteString(arg)
	}
	return b.String()
}
