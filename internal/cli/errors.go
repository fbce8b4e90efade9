package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/dmitrijs2005/filesify/internal/common"
	"github.com/dmitrijs2005/filesify/internal/config"
)

const (
	ExitCodeSuccess  = 0
	ExitCodeGeneric  = 1
	ExitCodeUsage    = 2
	ExitCodeNotFound = 3
	ExitCodeIO       = 7
)

type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *ExitError) ExitCode() int {
	if e == nil {
		return ExitCodeGeneric
	}
	return e.Code
}

func asExitError(code int, err error) error {
	if err == nil {
		return nil
	}
	var withExit interface{ ExitCode() int }
	if errors.As(err, &withExit) {
		return err
	}
	return &ExitError{Code: code, Err: err}
}

func mapCommandError(err error) error {
	if err == nil {
		return nil
	}
	var withExit interface{ ExitCode() int }
	if errors.As(err, &withExit) {
		return err
	}

	var pathErr *fs.PathError
	switch {
	case errors.Is(err, common.ErrUsage), errors.Is(err, config.ErrInvalidConfig):
		return asExitError(ExitCodeUsage, err)
	case errors.As(err, &pathErr):
		return asExitError(ExitCodeIO, err)
	case errors.Is(err, common.ErrorNotFound):
		return asExitError(ExitCodeNotFound, err)
	}

	// cobra reports these as plain errors
	lower := strings.ToLower(err.Error())
	if strings.HasPrefix(lower, "unknown command") ||
		strings.HasPrefix(lower, "accepts ") ||
		strings.HasPrefix(lower, "requires at least") {
		return asExitError(ExitCodeUsage, err)
	}

	return asExitError(ExitCodeGeneric, err)
}

func usageErrorf(format string, args ...any) error {
	return &ExitError{
		Code: ExitCodeUsage,
		Err:  fmt.Errorf(format, args...),
	}
}

// exitCode extracts the process exit code for err.
func exitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	var withExit interface{ ExitCode() int }
	if errors.As(mapCommandError(err), &withExit) {
		return withExit.ExitCode()
	}
	return ExitCodeGeneric
}
