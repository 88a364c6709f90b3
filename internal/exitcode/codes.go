// Package exitcode defines named exit codes for the qgisprobe CLI.
//
// Each code maps a specific probe outcome to a numeric value recognized by
// the deployment scripts and CI pipelines that wrap this tool.
package exitcode

// Exit code constants matching the probe outcome model.
const (
	Success       = 0   // Engine found and algorithm listing succeeded
	Error         = 1   // Invalid args, unreadable config, misconfiguration
	EngineMissing = 2   // No engine binary at any candidate path
	ProbeFailed   = 3   // Listing invocation failed (non-zero exit or exec error)
	Timeout       = 4   // Listing invocation exceeded its time bound
	Interrupted   = 130 // SIGINT/SIGTERM received
)

// Name returns the human-readable name for the given exit code.
// Unknown codes return "unknown".
func Name(code int) string {
	switch code {
	case Success:
		return "Success"
	case Error:
		return "Error"
	case EngineMissing:
		return "EngineMissing"
	case ProbeFailed:
		return "ProbeFailed"
	case Timeout:
		return "Timeout"
	case Interrupted:
		return "Interrupted"
	default:
		return "unknown"
	}
}
