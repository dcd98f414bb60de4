package cmd

// Exit codes for the declient CLI
const (
	// ExitSuccess indicates the command completed without failures
	ExitSuccess = 0

	// ExitCallError indicates a call returned an error-range status
	ExitCallError = 1

	// ExitContractError indicates a manifest failed to load or validate
	ExitContractError = 2

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
