package workspace

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
)

// movePath relocates src to dst. The parent of dst is created if needed.
// When dst already exists it is removed first if replace is set, otherwise
// ErrDestinationExists is returned. Moves across filesystems fall back to
// copy followed by remove.
func movePath(src, dst string, replace bool) error {
	if err := requireSource(src); err != nil {
		return err
	}
	if err := clearDestination(dst, replace); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrapf(err, "cannot create parent of %s", dst)
	}

	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return errors.Wrapf(err, "rename %s -> %s", src, dst)
	}

	logSink.Debugw("rename crosses devices, copying instead", "src", src, "dst", dst)
	if err := copyPath(src, dst); err != nil {
		_ = os.RemoveAll(dst)
		return err
	}
	if err := os.RemoveAll(src); err != nil {
		return errors.Wrapf(err, "remove %s after copy", src)
	}
	return nil
}

// copyPath copies a file or directory tree. A symlink given as src is
// followed, like cp does for its arguments; links found while walking a tree
// are copied as links. Existing files under dst are overwritten and existing
// directories are merged into.
func copyPath(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrSourceMissing, "copy %s", src)
		}
		return errors.Wrapf(err, "stat %s", src)
	}
	if !info.IsDir() {
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return errors.Wrapf(err, "cannot create parent of %s", dst)
		}
		return copyEntry(src, dst, info)
	}

	root, err := filepath.EvalSymlinks(src)
	if err != nil {
		return errors.Wrapf(err, "resolve %s", src)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, "walk %s", path)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errors.Wrapf(err, "resolve %s", path)
		}
		target := filepath.Join(dst, rel)

		fi, err := d.Info()
		if err != nil {
			return errors.Wrapf(err, "stat %s", path)
		}
		if d.IsDir() {
			if err := os.MkdirAll(target, fi.Mode().Perm()|0o700); err != nil {
				return errors.Wrapf(err, "mkdir %s", target)
			}
			return nil
		}
		return copyEntry(path, target, fi)
	})
}

func copyEntry(src, dst string, info fs.FileInfo) error {
	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		link, err := os.Readlink(src)
		if err != nil {
			return errors.Wrapf(err, "readlink %s", src)
		}
		_ = os.Remove(dst)
		if err := os.Symlink(link, dst); err != nil {
			return errors.Wrapf(err, "symlink %s", dst)
		}
		return nil
	case info.Mode().IsRegular():
		return copyFile(src, dst, info.Mode().Perm())
	default:
		return errors.Errorf("copy %s: unsupported file type %s", src, info.Mode().Type())
	}
}

func copyFile(src, dst string, mode fs.FileMode) error {
	if fi, err := os.Lstat(dst); err == nil {
		switch {
		case fi.IsDir():
			return errors.Errorf("conflict: %s is a directory", dst)
		case fi.Mode()&fs.ModeSymlink != 0:
			// Writing through a stale link would clobber its target.
			if err := os.Remove(dst); err != nil {
				return errors.Wrapf(err, "remove %s", dst)
			}
		}
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "open %s", src)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return errors.Wrapf(err, "create %s", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, "copy %s -> %s", src, dst)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, "close %s", dst)
	}
	// O_CREATE applies the umask and an existing file keeps its old mode.
	return errors.Wrapf(os.Chmod(dst, mode), "chmod %s", dst)
}

// removePath deletes path recursively. A missing path is not an error.
func removePath(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return errors.Wrapf(err, "remove %s", path)
	}
	return nil
}

func requireSource(src string) error {
	if _, err := os.Lstat(src); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrSourceMissing, "move %s", src)
		}
		return errors.Wrapf(err, "stat %s", src)
	}
	return nil
}

func clearDestination(dst string, replace bool) error {
	_, err := os.Lstat(dst)
	switch {
	case os.IsNotExist(err):
		return nil
	case err != nil:
		return errors.Wrapf(err, "stat %s", dst)
	case !replace:
		return errors.Wrapf(ErrDestinationExists, "%s (use --force to replace it)", dst)
	}
	logSink.Infow("replacing existing destination", "dst", dst)
	return removePath(dst)
}

func isCrossDevice(err error) bool {
	var le *os.LinkError
	return errors.As(err, &le) && le.Err == syscall.EXDEV
}
