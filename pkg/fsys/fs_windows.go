//go:build windows

package fsys

import (
	"os"

	"golang.org/x/sys/windows"
)

// canWrite probes dir by creating and removing a file. Windows ACLs are not
// reflected in mode bits.
func canWrite(dir string) bool {
	f, err := os.CreateTemp(dir, ".franz-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}

// replaceFile renames src over dst, replacing an existing launcher.
func replaceFile(src, dst string) error {
	from, err := windows.UTF16PtrFromString(src)
	if err != nil {
		return err
	}
	to, err := windows.UTF16PtrFromString(dst)
	if err != nil {
		return err
	}
	return windows.MoveFileEx(from, to, windows.MOVEFILE_REPLACE_EXISTING|windows.MOVEFILE_WRITE_THROUGH)
}
