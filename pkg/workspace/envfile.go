package workspace

import (
	"bufio"
	"bytes"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// AppendEnvLine appends line to the shell startup file at path unless an
// identical line (ignoring surrounding whitespace) is already present. The
// file is created when missing. It reports whether the file was changed.
func AppendEnvLine(path, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, errors.New("append-env: empty line")
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, errors.Wrapf(err, "read %s", path)
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == line {
			return false, nil
		}
	}
	if err := sc.Err(); err != nil {
		return false, errors.Wrapf(err, "scan %s", path)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var b strings.Builder
	if len(data) > 0 && data[len(data)-1] != '\n' {
		b.WriteByte('\n')
	}
	b.WriteString(line)
	b.WriteByte('\n')
	if _, err := f.WriteString(b.String()); err != nil {
		return false, errors.Wrapf(err, "write %s", path)
	}
	return true, nil
}
