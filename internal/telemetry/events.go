package telemetry

import (
	"time"
)

// Event names.
const (
	EventCommandExecuted = "command_executed"
	EventCommandError    = "command_error"
	EventFileBound       = "file_bound"
	EventFileConflict    = "file_conflict"
	EventImport          = "tasks_imported"
	EventExport          = "tasks_exported"
)

// CommandProperties describes one CLI invocation. errKind is the error
// kind only, never the message.
func CommandProperties(command string, elapsed time.Duration, errKind string) Properties {
	props := Properties{
		"command":     command,
		"duration_ms": elapsed.Milliseconds(),
		"success":     errKind == "",
	}
	if errKind != "" {
		props["error_kind"] = errKind
	}
	return props
}

// FileProperties describes a file operation by format and outcome.
func FileProperties(format, outcome string, tasks int) Properties {
	return Properties{
		"format":     format,
		"outcome":    outcome,
		"task_count": tasks,
	}
}
