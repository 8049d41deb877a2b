package app

import "errors"

// ExitResult is returned by command handlers as an error and carries what
// to print and the process exit code. Successful output uses Code 0.
type ExitResult struct {
	Code     int
	Message  string
	ToStderr bool
}

func (e ExitResult) Error() string   { return e.Message }
func (e ExitResult) ExitCode() int   { return e.Code }
func (e ExitResult) UseStderr() bool { return e.ToStderr }

func exitText(code int, message string, toStderr bool) error {
	return ExitResult{Code: code, Message: message, ToStderr: toStderr}
}

// usageExit reports bad flags or arguments.
func usageExit(message string) error {
	return ExitResult{Code: 2, Message: message, ToStderr: true}
}

func okText(message string) error {
	return ExitResult{Code: 0, Message: message, ToStderr: false}
}

// ErrorExit converts err into an ExitResult. ExitResults pass through
// unchanged; typed domain errors get a hint where one helps.
func ErrorExit(err error) error {
	if err == nil {
		return nil
	}
	var exit ExitResult
	if errors.As(err, &exit) {
		return exit
	}
	msg := err.Error()
	var missing *MissingContextError
	var notFound *ModuleNotFoundError
	switch {
	case errors.As(err, &missing):
		msg += "\nhint: pass --active object:<id> to select an object"
	case errors.As(err, &notFound):
		msg += "\nhint: `ijc modules list` shows the available modules"
	}
	return exitText(1, msg, true)
}
