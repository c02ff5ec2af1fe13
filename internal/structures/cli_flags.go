package structures

// CliFlags carries the process-level flags shared by every command.
type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}
