package kicadimport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/internal/version"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/config"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/errors"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/importer"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/paths"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/style"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/types"
)

func newImportCmd() *cobra.Command {
	var (
		zap    bool
		source string
	)

	cmd := &cobra.Command{
		Use:     "import [archive...]",
		Short:   MsgImportShort,
		Long:    MsgImportLong,
		Example: MsgImportExample,
		GroupID: "core",
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, p, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("source") {
				normalized, err := p.NormalizePath(source)
				if err != nil {
					return err
				}
				cfg.Source = normalized
			}
			if cmd.Flags().Changed("zap") {
				cfg.Zap = zap
			}

			renderer, err := newRenderer(cmd)
			if err != nil {
				return err
			}
			prompter := newPrompter(cmd)
			ctx := cmd.Context()

			archives := args
			if len(archives) == 0 {
				archives, err = selectArchive(ctx, prompter, cfg.Source)
				if err != nil {
					return err
				}
			}

			log.Info().
				Str("source", cfg.Source).
				Int("archives", len(archives)).
				Msg("Importing archives")

			imp := importer.New(cfg, p, prompter)
			for _, zipPath := range archives {
				run, err := imp.Import(ctx, zipPath)
				if err != nil {
					offerUndo(ctx, cmd, renderer, prompter, p, run)
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderImport(run.Result))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&zap, "zap", false, MsgFlagZap)
	cmd.Flags().StringVar(&source, "source", "", MsgFlagSource)
	return cmd
}

// selectArchive lists the zips in sourceDir and asks the operator to
// pick one.
func selectArchive(ctx context.Context, prompter types.Prompter, sourceDir string) ([]string, error) {
	found, err := importer.ListArchives(sourceDir)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, errors.Newf(errors.ErrInvalidInput, MsgNoArchives, sourceDir)
	}

	names := make([]string, len(found))
	for i, path := range found {
		names[i] = filepath.Base(path)
	}

	choice, err := prompter.Select(ctx, MsgSelectArchive, names)
	if err != nil {
		return nil, err
	}
	return []string{filepath.Join(sourceDir, choice)}, nil
}

// offerUndo lists what a failed import already wrote, saves the ledger,
// and offers to roll everything back.
func offerUndo(ctx context.Context, cmd *cobra.Command, renderer style.Renderer, prompter types.Prompter, p paths.Paths, run *importer.Run) {
	if run == nil || run.Ledger == nil || run.Ledger.Empty() {
		return
	}
	errOut := cmd.ErrOrStderr()

	fmt.Fprintln(errOut, renderer.RenderLedger(run.Ledger))
	if path, err := run.Ledger.Export(p.LedgerDir()); err == nil {
		fmt.Fprintf(errOut, MsgLedgerSaved, path)
	} else {
		log.Warn().Err(err).Msg("Could not save ledger")
	}

	undo, err := prompter.Confirm(ctx, MsgUndoPrompt, false)
	if err != nil || !undo {
		return
	}

	problems := run.Ledger.Rollback()
	for _, problem := range problems {
		fmt.Fprintf(errOut, MsgUndoProblem, problem)
	}
	if len(problems) == 0 {
		fmt.Fprintln(errOut, MsgUndoDone)
	}
}

func newArchivesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "archives",
		Short:   MsgArchivesShort,
		Long:    MsgArchivesLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			renderer, err := newRenderer(cmd)
			if err != nil {
				return err
			}
			found, err := importer.ListArchives(cfg.Source)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderArchives(found))
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	var initialize bool

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		Example: MsgConfigExample,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if initialize {
				p, err := initPaths()
				if err != nil {
					return err
				}
				if err := config.WriteDefault(p.ConfigFilePath()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, p.ConfigFilePath())
				return nil
			}

			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			rendered, err := cfg.Render()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	cmd.Flags().BoolVar(&initialize, "init", false, MsgFlagInit)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat,
				version.Version, version.Commit, version.Date)
		},
	}
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Find the help command and execute it with "topics" argument
			if helpCmd, _, err := cmd.Root().Find([]string{"help"}); err == nil {
				if helpCmd.RunE != nil {
					return helpCmd.RunE(helpCmd, []string{"topics"})
				} else if helpCmd.Run != nil {
					helpCmd.Run(helpCmd, []string{"topics"})
					return nil
				}
			}
			return fmt.Errorf(MsgHelpCmdNotFound)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}
