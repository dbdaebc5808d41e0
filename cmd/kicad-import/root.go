// Package kicadimport assembles the kicad-import command tree.
package kicadimport

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/internal/version"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/cobrax/topics"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/config"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/logging"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/paths"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/prompt"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/style"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/types"
)

//go:embed topics
var topicsFS embed.FS

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	var (
		verbosity int
		yes       bool
		format    string
	)

	rootCmd := &cobra.Command{
		Use:     "kicad-import",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand given. Show help but fail so scripts notice.
			_ = cmd.Help()
			return fmt.Errorf(MsgNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, MsgFlagYes)
	rootCmd.PersistentFlags().StringVar(&format, "format", "auto", MsgFlagFormat)

	// Disable automatic help command (we'll use our custom one from topics)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newArchivesCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// Topic-based help from the embedded topics directory
	if sub, err := fs.Sub(topicsFS, "topics"); err == nil {
		opts := topics.Options{
			Extensions: []string{".txt", ".md"},
			Renderer:   topics.NewGlamourRenderer(),
		}
		_ = topics.InitializeFS(rootCmd, sub, opts)
	}

	return rootCmd
}

// initPaths initializes the XDG paths instance
func initPaths() (paths.Paths, error) {
	p, err := paths.New()
	if err != nil {
		return nil, fmt.Errorf(MsgErrInitPaths, err)
	}
	return p, nil
}

// loadConfig resolves paths and the layered configuration.
func loadConfig() (*config.Config, paths.Paths, error) {
	p, err := initPaths()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(p)
	if err != nil {
		return nil, nil, fmt.Errorf(MsgErrLoadConfig, err)
	}
	return cfg, p, nil
}

// newPrompter picks the interactive prompter unless --yes was given or
// stdin is not a terminal.
func newPrompter(cmd *cobra.Command) types.Prompter {
	yes, _ := cmd.Root().PersistentFlags().GetBool("yes")
	if yes || !isatty.IsTerminal(os.Stdin.Fd()) {
		return prompt.NewAuto()
	}
	return prompt.NewTerminal()
}

// newRenderer builds the output renderer from the --format flag.
func newRenderer(cmd *cobra.Command) (style.Renderer, error) {
	name, _ := cmd.Root().PersistentFlags().GetString("format")
	format, err := style.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return style.NewRenderer(format, os.Stdout), nil
}
