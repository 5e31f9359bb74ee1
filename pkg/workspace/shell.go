package workspace

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// commandExec runs argv in dir with env appended to the current environment.
// Tests replace it to avoid spawning git and make.
var commandExec = func(ctx context.Context, dir string, env []string, argv []string) error {
	if len(argv) == 0 {
		return errors.New("empty command")
	}
	logSink.Infow("EXEC: "+strings.Join(argv, " "), "dir", dir)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	out := &lineLogger{cmd: argv[0]}
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	out.Flush()
	if err != nil {
		return errors.Wrapf(err, "command %q failed", strings.Join(argv, " "))
	}
	return nil
}

// lineLogger forwards process output to the logger one line at a time.
type lineLogger struct {
	cmd string
	mu  sync.Mutex
	buf bytes.Buffer
}

func (l *lineLogger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buf.Write(p)
	for {
		i := bytes.IndexByte(l.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := string(l.buf.Next(i + 1))
		l.emit(line)
	}
	return len(p), nil
}

// Flush logs a trailing partial line, if any.
func (l *lineLogger) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.buf.Len() > 0 {
		l.emit(l.buf.String())
		l.buf.Reset()
	}
}

func (l *lineLogger) emit(line string) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return
	}
	logSink.Infow("OUTPUT: "+line, "cmd", l.cmd)
}
