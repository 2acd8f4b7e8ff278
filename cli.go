package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	// "CONNECT" and "connect" are the same command.
	cobra.EnableCaseInsensitive = true
}

type openFunc func(context.Context, Config) (Collaborator, error)

// app carries what the commands share for one invocation.
type app struct {
	open  openFunc
	level *slog.LevelVar

	configPath string
	timeout    time.Duration
}

// newRootCommand builds the command tree. Every failure is returned as an
// error for run to map onto an exit code.
func (a *app) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "sidecarctl <command>",
		Short: "List and connect to screen sharing capable devices",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageErrorf("Command not specified")
			}
			return usageErrorf("Invalid command specified: %s", args[0])
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/sidecarctl/config.yaml)")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageErrorf("Invalid option: %v", err)
	})

	root.AddCommand(a.newDevicesCmd())
	root.AddCommand(a.newConnectCmd())
	root.AddCommand(a.newDisconnectCmd())
	return root
}

func (a *app) newDevicesCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:     "devices",
		Aliases: []string{"list"},
		Short:   "List names of reachable screen sharing capable devices",
		Long: "List names of reachable screen sharing capable devices, one per line.\n" +
			"Takes no arguments; extra arguments are rejected.",
		Example: "  sidecarctl devices\n  sidecarctl devices --json",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageErrorf("Invalid option: %s", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDevices(cmd, func(_ Config, _ Collaborator, devices []Device) error {
				out := cmd.OutOrStdout()
				if jsonOut {
					enc := json.NewEncoder(out)
					for _, d := range devices {
						if err := enc.Encode(struct {
							Name string `json:"name"`
						}{d.Name}); err != nil {
							return err
						}
					}
					return nil
				}
				for _, d := range devices {
					fmt.Fprintln(out, d.Name)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output one JSON object per device")
	return cmd
}

func (a *app) newConnectCmd() *cobra.Command {
	var wired bool
	cmd := &cobra.Command{
		Use:   "connect <device_name> [-wired]",
		Short: "Connect to the device with the specified name",
		Long: "Connect to the device with the specified name. Use quotes.\n" +
			"The name is matched case-insensitively but otherwise exactly.\n" +
			"-wired (or --wired) requests the wired connection path.",
		Example: "  sidecarctl connect \"Joe‘s iPad\"\n  sidecarctl connect \"Joe‘s iPad\" -wired",
		Args:    targetArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := TransportDefault
			if wired {
				t = TransportWired
			}
			return a.operate(cmd, CmdConnect, args[0], t)
		},
	}
	cmd.Flags().BoolVar(&wired, "wired", false, "prefer the wired connection path")
	cmd.Flags().DurationVar(&a.timeout, "timeout", 0, "give up waiting for completion after this long (0 waits forever)")
	return cmd
}

func (a *app) newDisconnectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "disconnect <device_name>",
		Short:   "Disconnect from the device with the specified name",
		Long:    "Disconnect from the device with the specified name. Use quotes.\nNo transport option is accepted.",
		Example: "  sidecarctl disconnect \"Joe‘s iPad\"",
		Args:    targetArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.operate(cmd, CmdDisconnect, args[0], TransportDefault)
		},
	}
	cmd.Flags().DurationVar(&a.timeout, "timeout", 0, "give up waiting for completion after this long (0 waits forever)")
	return cmd
}

func targetArgs(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) == 0:
		return usageErrorf("Device name not specified")
	case len(args) > 1:
		return usageErrorf("Invalid option: %s", args[1])
	}
	return nil
}

// normalizeArgs rewrites the single dash -wired into the --wired flag.
func normalizeArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i, arg := range out {
		if arg == "--" {
			break
		}
		if strings.EqualFold(arg, "-wired") {
			out[i] = "--wired"
		}
	}
	return out
}

// withDevices loads the config, opens the backend and enumerates devices,
// then hands a non-empty directory to fn. The backend is closed on return.
func (a *app) withDevices(cmd *cobra.Command, fn func(Config, Collaborator, []Device) error) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	if lvl, err := parseLogLevel(cfg.LogLevel); err == nil {
		a.level.Set(lvl)
	}

	c, err := a.open(ctx, cfg)
	if err != nil {
		return err
	}
	slog.Debug("backend opened", "backend", cfg.Backend)
	defer func() {
		if err := c.Close(); err != nil {
			slog.Warn("close backend", "error", err)
		}
	}()

	devices, err := listDevices(ctx, c)
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		return ErrNoDevices
	}
	return fn(cfg, c, devices)
}

func (a *app) operate(cmd *cobra.Command, op Command, name string, t Transport) error {
	if a.timeout < 0 {
		return usageErrorf("Invalid option: --timeout must not be negative")
	}
	return a.withDevices(cmd, func(cfg Config, c Collaborator, devices []Device) error {
		o := &operator{c: c, timeout: cfg.Timeout}
		if cmd.Flags().Changed("timeout") {
			o.timeout = a.timeout
		}
		if err := o.operate(cmd.Context(), op, name, t, devices); err != nil {
			return err
		}
		if op == CmdConnect {
			fmt.Fprintln(cmd.OutOrStdout(), "connected")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "disconnected")
		}
		return nil
	})
}
