// Package errors provides error constructors that record the caller's
// file and line, so soft failures logged at the top level still point
// at the code that produced them.
package errors

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// New builds an error from a format string, prefixed with the caller's
// source location.
func New(format string, a ...interface{}) error {
	return fmt.Errorf("[%s] %s", caller(), fmt.Sprintf(format, a...))
}

// Wrapf annotates err with a message and the caller's source location.
// Returns nil when err is nil.
func Wrapf(err error, format string, a ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("[%s] %s: %w", caller(), fmt.Sprintf(format, a...), err)
}

func caller() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "???:0"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}
