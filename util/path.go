package util

import (
	"os"
	"path/filepath"
)

var (
	_ExeDir string
)

// WorkDir is the directory of the running binary unless overridden by SetExeDir.
func WorkDir() string {
	if _ExeDir != "" {
		return _ExeDir
	}
	p, err := os.Executable()
	if err != nil {
		wd, _ := os.Getwd()
		return filepath.ToSlash(wd)
	}
	_ExeDir = filepath.ToSlash(filepath.Dir(p))
	return _ExeDir
}

func SetExeDir(dir string) {
	_ExeDir = filepath.ToSlash(dir)
}
