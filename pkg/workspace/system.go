package workspace

import (
	"os"
	"os/exec"
)

// System abstracts how we discover information about the environment the
// tool runs in. This allows tests to provide a fake implementation while the
// real implementation asks the local OS.
type System interface {
	HomeDir() (string, error)
	WorkDir() (string, error)
	LookPath(file string) (string, error)
}

// DefaultSystem is used when no System is given. It can be replaced in tests
// if needed.
var DefaultSystem System = NewLocalSystem()

// localSystem is a System implementation backed by the local OS.
type localSystem struct{}

// NewLocalSystem creates a System backed by the local OS.
func NewLocalSystem() System {
	return localSystem{}
}

func (localSystem) HomeDir() (string, error) {
	return os.UserHomeDir()
}

func (localSystem) WorkDir() (string, error) {
	return os.Getwd()
}

func (localSystem) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}
