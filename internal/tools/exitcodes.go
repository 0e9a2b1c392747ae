package tools

// Process exit codes shared with the shell tooling around the setup binary.
const (
	ExitOK              = 0
	ExitGeneralError    = 1
	ExitMisuse          = 2
	ExitPermission      = 126
	ExitNotFound        = 127
	ExitInvalidArgument = 128
	ExitFatal           = 130
)
