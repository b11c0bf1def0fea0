package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dvc-tools/dvcsettings/internal/cliconfig"
	"github.com/dvc-tools/dvcsettings/internal/watch"
	"github.com/dvc-tools/dvcsettings/pkg/confirm"
	"github.com/dvc-tools/dvcsettings/pkg/container"
	"github.com/dvc-tools/dvcsettings/pkg/log"
)

const longHelp = `Build, check and store the settings of a Digital Volume Correlation analysis.

Settings come from built-in defaults, an optional TOML or YAML file (--config)
and command-line flags, in increasing order of precedence. The result is
written to a BSON container with "param" and "model" groups for the analysis
engine. An existing container is only replaced after confirmation.`

var exampleUsage = strings.TrimSpace(`
  dvcsettings write --ref-im ref.raw --def-im def.raw --image-size 512,512,512
  dvcsettings write --config settings.toml --out /data/DVC_Settings.bson --yes
  dvcsettings show --config settings.yaml
  dvcsettings read /data/DVC_Settings.bson
  dvcsettings watch --config settings.toml
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	zl := cliconfig.Logger()
	logger := log.NewZerologLogger(zl)

	root := &cobra.Command{
		Use:           "dvcsettings",
		Short:         "Build and store DVC analysis settings",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newWriteCmd(logger),
		newShowCmd(),
		newReadCmd(),
		newWatchCmd(logger),
	)

	if err := root.Execute(); err != nil {
		zl.Error().Err(err).Msg("dvcsettings")
		os.Exit(1)
	}
}

// settingsCommand binds the settings flags of cmd and resolves a Config from
// defaults, the optional --config file and flags.
type settingsCommand struct {
	cfg      cliconfig.Config
	cfgPath  string
	finalize func() error
}

func bindSettings(cmd *cobra.Command) *settingsCommand {
	s := &settingsCommand{cfg: cliconfig.DefaultConfig()}
	cmd.Flags().StringVar(&s.cfgPath, "config", "", "TOML or YAML settings file")
	s.finalize = cliconfig.RegisterFlags(cmd.Flags(), &s.cfg)
	return s
}

func (s *settingsCommand) resolve(cmd *cobra.Command) error {
	changed := cliconfig.ChangedFlags(cmd.Flags())

	if s.cfgPath != "" {
		fc, err := cliconfig.LoadFileConfig(s.cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&s.cfg, fc, changed); err != nil {
			return err
		}
	}
	if err := s.finalize(); err != nil {
		return err
	}
	return s.cfg.Validate()
}

func newWriteCmd(logger log.Logger) *cobra.Command {
	var s *settingsCommand
	cmd := &cobra.Command{
		Use:   "write",
		Short: "Validate settings and write the container file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.resolve(cmd); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, s.cfg.Params.String(), "\n", s.cfg.Model.String(), "\n")

			var c confirm.Confirmer = confirm.NewConsole(cmd.InOrStdin(), out)
			if s.cfg.Yes {
				c = confirm.Always
			}

			w, err := container.NewWriter(s.cfg.Params, s.cfg.Model, s.cfg.Out,
				container.WithConfirmer(c),
				container.WithLogger(logger),
			)
			if err != nil {
				return err
			}
			outcome, err := w.Write(cmd.Context())
			if err != nil {
				return err
			}

			switch outcome {
			case container.OutcomeWritten:
				fmt.Fprintf(out, "Settings written to %s\n", s.cfg.Out)
			case container.OutcomeDeclined:
				fmt.Fprintf(out, "Kept existing %s, nothing written\n", s.cfg.Out)
			}
			return nil
		},
	}
	s = bindSettings(cmd)
	return cmd
}

func newShowCmd() *cobra.Command {
	var s *settingsCommand
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Validate settings and print them without writing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.resolve(cmd); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), s.cfg.Params.String(), "\n", s.cfg.Model.String())
			return nil
		},
	}
	s = bindSettings(cmd)
	return cmd
}

func newReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read FILE",
		Short: "Print the settings stored in a container file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, model, err := container.Read(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), params.String(), "\n", model.String())
			return nil
		},
	}
}

func newWatchCmd(logger log.Logger) *cobra.Command {
	cfg := watch.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rewrite the container whenever the settings file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Logger = logger
			w, err := watch.New(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return w.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&cfg.SettingsPath, "config", "", "TOML or YAML settings file to watch")
	cmd.Flags().StringVar(&cfg.OutPath, "out", "", "container file (defaults to the file's out key)")
	cmd.Flags().DurationVar(&cfg.DebounceDelay, "debounce", cfg.DebounceDelay, "delay after a change before writing")
	if err := cmd.MarkFlagRequired("config"); err != nil {
		panic(err)
	}
	return cmd
}
