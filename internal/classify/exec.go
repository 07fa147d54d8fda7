package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"razor/pkg/api"
)

// Exec runs an external command once per sequence. The command reads one
// api.RequestV1 JSON document on stdin and writes one api.BundleV1 on stdout.
type Exec struct {
	Path    string
	Args    []string
	Env     []string      // appended to the parent environment
	Timeout time.Duration // 0 = no limit
}

// NewExec splits command on whitespace into program and arguments.
func NewExec(command string, timeout time.Duration) (*Exec, error) {
	f := strings.Fields(command)
	if len(f) == 0 {
		return nil, errors.New("empty classifier command")
	}
	return &Exec{Path: f[0], Args: f[1:], Timeout: timeout}, nil
}

func (e *Exec) Classify(ctx context.Context, seq string, maxScan int) (Bundle, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}
	req, err := json.Marshal(api.RequestV1{Sequence: seq, MaxScan: maxScan})
	if err != nil {
		return Bundle{}, &Error{Op: "exec", Err: err}
	}

	cmd := exec.CommandContext(ctx, e.Path, e.Args...)
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(req)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, firstLine(msg))
		}
		return Bundle{}, &Error{Op: "exec", Err: err}
	}
	return Decode(stdout.Bytes())
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
