//go:build unix

package fsys

import (
	"os"

	"golang.org/x/sys/unix"
)

// canWrite asks the kernel whether the real user may write to dir. This
// honours ACLs and read-only mounts that mode bits alone do not show.
func canWrite(dir string) bool {
	return unix.Access(dir, unix.W_OK|unix.X_OK) == nil
}

func replaceFile(src, dst string) error {
	return os.Rename(src, dst)
}
