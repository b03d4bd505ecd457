package utils

const (
	// standard exit codes
	ExitCodeSuccess = iota
	ExitCodeError

	// custom exit codes
	ExitCodeIncompatibleKernel = 101
	ExitCodeMissingBTF         = 102
)

const (
	ErrKernelVersion = "incompatible kernel version"
	ErrBTFSupport    = "BTF support not detected"
)
