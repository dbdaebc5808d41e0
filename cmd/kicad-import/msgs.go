package kicadimport

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Import downloaded component archives into KiCad libraries"
	MsgImportShort     = "Import component archives into the libraries"
	MsgArchivesShort   = "List importable archives in the source directory"
	MsgArchivesLong    = "Archives lists every zip file in the configured source directory that import would offer."
	MsgConfigShort     = "Show or initialize the configuration"
	MsgVersionShort    = "Print version information"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgSelectArchive   = "Library zip file"
	MsgNoArchives      = "no archives found in %s"
	MsgLedgerSaved     = "Ledger saved to %s\n"
	MsgUndoPrompt      = "Attempt to undo these modifications?"
	MsgUndoDone        = "All modifications undone."
	MsgUndoProblem     = "could not undo: %v\n"
	MsgConfigWritten   = "Wrote default configuration to %s\n"
	MsgVersionFormat   = "kicad-import %s (commit %s, built %s)\n"
	MsgNoCommand       = "no command specified"
	MsgHelpCmdNotFound = "help command not found"

	// Error messages
	MsgErrInitPaths  = "failed to initialize paths: %w"
	MsgErrLoadConfig = "failed to load configuration: %w"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagYes     = "Answer every prompt with its default"
	MsgFlagFormat  = "Output format: auto, term, or text"
	MsgFlagZap     = "Delete the source archive after a successful import"
	MsgFlagSource  = "Directory to read archives from (overrides configuration)"
	MsgFlagInit    = "Write the default configuration file and exit"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/import-long.txt
	msgImportLongRaw string
	MsgImportLong    = strings.TrimSpace(msgImportLongRaw)

	//go:embed msgs/import-example.txt
	msgImportExampleRaw string
	MsgImportExample    = strings.TrimSpace(msgImportExampleRaw)

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/config-example.txt
	msgConfigExampleRaw string
	MsgConfigExample    = strings.TrimSpace(msgConfigExampleRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
