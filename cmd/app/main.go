// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/allisson/llm-config/cmd/app/commands"
	"github.com/allisson/llm-config/internal/app"
)

// storageFlag and keyFlag are shared by every command that touches the
// configuration store directly.
func storageFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "storage",
		Aliases: []string{"s"},
		Value:   ".llm-config",
		Usage:   "Storage directory for configuration and version files",
		Sources: cli.EnvVars("LLM_CONFIG_STORAGE"),
	}
}

func keyFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "encryption-key",
		Aliases: []string{"k"},
		Value:   "",
		Usage:   "Base64-encoded 32-byte AES key for secret values",
		Sources: cli.EnvVars("LLM_CONFIG_KEY"),
	}
}

func envFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "env",
		Aliases: []string{"e"},
		Value:   "base",
		Usage:   "Environment: base, development, staging, production or edge (aliases: dev, stage, prod)",
	}
}

func userFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "user",
		Aliases: []string{"u"},
		Value:   "cli",
		Usage:   "User recorded in entry metadata and version history",
	}
}

func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "llm-config",
		Usage:   "Versioned configuration and secrets manager",
		Version: app.Version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP API server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, app.Version)
				},
			},
			{
				Name:      "get",
				Usage:     "Get a configuration value (secrets are decrypted)",
				ArgsUsage: "<namespace> <key>",
				Flags: []cli.Flag{
					storageFlag(),
					keyFlag(),
					envFlag(),
					formatFlag(),
					&cli.BoolFlag{
						Name:    "with-overrides",
						Aliases: []string{"o"},
						Value:   false,
						Usage:   "Resolve the value through the environment override chain",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					namespace, key, err := requireArgs(cmd, "namespace", "key")
					if err != nil {
						return err
					}
					return commands.RunGet(
						ctx,
						cmd.String("storage"),
						cmd.String("encryption-key"),
						namespace,
						key,
						cmd.String("env"),
						cmd.Bool("with-overrides"),
						cmd.String("format"),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:      "set",
				Usage:     "Set a configuration value (JSON or plain string)",
				ArgsUsage: "<namespace> <key> <value>",
				Flags: []cli.Flag{
					storageFlag(),
					keyFlag(),
					envFlag(),
					userFlag(),
					&cli.BoolFlag{
						Name:  "secret",
						Value: false,
						Usage: "Encrypt the value before storing it",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					namespace, key, err := requireArgs(cmd, "namespace", "key")
					if err != nil {
						return err
					}
					value := cmd.Args().Get(2)
					if value == "" {
						return fmt.Errorf("missing required argument: value")
					}
					return commands.RunSet(
						ctx,
						cmd.String("storage"),
						cmd.String("encryption-key"),
						namespace,
						key,
						value,
						cmd.String("env"),
						cmd.String("user"),
						cmd.Bool("secret"),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:      "list",
				Usage:     "List the keys of a namespace",
				ArgsUsage: "<namespace>",
				Flags:     []cli.Flag{storageFlag(), keyFlag(), envFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					namespace := cmd.Args().Get(0)
					if namespace == "" {
						return fmt.Errorf("missing required argument: namespace")
					}
					return commands.RunList(
						ctx,
						cmd.String("storage"),
						cmd.String("encryption-key"),
						namespace,
						cmd.String("env"),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a configuration entry (history is kept)",
				ArgsUsage: "<namespace> <key>",
				Flags:     []cli.Flag{storageFlag(), keyFlag(), envFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					namespace, key, err := requireArgs(cmd, "namespace", "key")
					if err != nil {
						return err
					}
					return commands.RunDelete(
						ctx,
						cmd.String("storage"),
						cmd.String("encryption-key"),
						namespace,
						key,
						cmd.String("env"),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:      "history",
				Usage:     "Show the version history of an entry, newest first",
				ArgsUsage: "<namespace> <key>",
				Flags:     []cli.Flag{storageFlag(), keyFlag(), envFlag(), formatFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					namespace, key, err := requireArgs(cmd, "namespace", "key")
					if err != nil {
						return err
					}
					return commands.RunHistory(
						ctx,
						cmd.String("storage"),
						cmd.String("encryption-key"),
						namespace,
						key,
						cmd.String("env"),
						cmd.String("format"),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:      "rollback",
				Usage:     "Restore a past version as a new head version",
				ArgsUsage: "<namespace> <key> <version>",
				Flags:     []cli.Flag{storageFlag(), keyFlag(), envFlag(), userFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					namespace, key, err := requireArgs(cmd, "namespace", "key")
					if err != nil {
						return err
					}
					targetVersion, err := strconv.ParseUint(cmd.Args().Get(2), 10, 64)
					if err != nil || targetVersion == 0 {
						return fmt.Errorf("invalid version argument: must be a positive integer")
					}
					return commands.RunRollback(
						ctx,
						cmd.String("storage"),
						cmd.String("encryption-key"),
						namespace,
						key,
						cmd.String("env"),
						targetVersion,
						cmd.String("user"),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:      "export",
				Usage:     "Export all current entries to a directory",
				ArgsUsage: "<dest-dir>",
				Flags:     []cli.Flag{storageFlag(), keyFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					destDir := cmd.Args().Get(0)
					if destDir == "" {
						return fmt.Errorf("missing required argument: dest-dir")
					}
					return commands.RunExport(
						ctx,
						cmd.String("storage"),
						cmd.String("encryption-key"),
						destDir,
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:  "keygen",
				Usage: "Generate a new base64-encoded AES-256 encryption key",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunKeygen(commands.DefaultIO())
				},
			},
			{
				Name:  "derive-key",
				Usage: "Derive an encryption key from a passphrase (Argon2id)",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunDeriveKey(commands.DefaultIO())
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

// requireArgs extracts the first two positional arguments, erroring on the
// first missing one.
func requireArgs(cmd *cli.Command, names ...string) (string, string, error) {
	values := make([]string, 2)
	for i, name := range names[:2] {
		values[i] = cmd.Args().Get(i)
		if values[i] == "" {
			return "", "", fmt.Errorf("missing required argument: %s", name)
		}
	}
	return values[0], values[1], nil
}
