package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

const maxCLIOutputBytes = 4 << 20

// CLI shells out to the tesseract binary, reading the image from stdin and
// text from stdout. Unlike Tesseract it is killed when ctx ends.
type CLI struct {
	binary string
	opts   Options
}

func NewCLI(binary string, opts Options) *CLI {
	if strings.TrimSpace(binary) == "" {
		binary = "tesseract"
	}
	return &CLI{binary: binary, opts: opts.withDefaults()}
}

func (c *CLI) args() []string {
	args := []string{"stdin", "stdout", "-l", c.opts.Language, "--psm", strconv.Itoa(c.opts.PageSegMode)}
	if c.opts.PreserveInterwordSpaces {
		args = append(args, "-c", "preserve_interword_spaces=1")
	}
	return args
}

func (c *CLI) Recognize(ctx context.Context, img []byte) (string, error) {
	cmd := exec.CommandContext(ctx, c.binary, c.args()...)
	cmd.Stdin = bytes.NewReader(img)

	stdout, stderr, err := runCommandCaptureLimited(cmd, maxCLIOutputBytes)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("tesseract: %w", ctxErr)
		}
		if stderr != "" {
			return "", fmt.Errorf("tesseract failed: %s", truncate(stderr, 200))
		}
		return "", fmt.Errorf("tesseract failed: %w", err)
	}
	return stdout, nil
}

// runCommandCaptureLimited runs cmd and captures stdout up to maxBytes.
// stderr is captured fully for error reporting.
func runCommandCaptureLimited(cmd *exec.Cmd, maxBytes int64) (stdoutText string, stderrText string, err error) {
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return "", "", fmt.Errorf("stdout pipe: %w", err)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return "", "", fmt.Errorf("start: %w", err)
	}

	outBytes, readErr := io.ReadAll(io.LimitReader(stdoutPipe, maxBytes))
	if readErr != nil || int64(len(outBytes)) >= maxBytes {
		_ = cmd.Process.Kill()
	}

	waitErr := cmd.Wait()
	stderrStr := strings.TrimSpace(stderr.String())

	if readErr != nil {
		return "", stderrStr, fmt.Errorf("read stdout: %w", readErr)
	}
	if int64(len(outBytes)) >= maxBytes {
		return "", stderrStr, errors.New("output exceeds limit")
	}
	if waitErr != nil {
		return "", stderrStr, waitErr
	}
	return string(outBytes), stderrStr, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
