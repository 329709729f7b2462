// Package main provides the entry point for vaultctl, a CLI driver for
// the SecureVault core (C1-C5): every subcommand loads configuration,
// assembles the DI container, and performs one vault operation before
// exiting — there is no long-lived daemon, so the session key never
// outlives a single process invocation.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

func getCommands() []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getCredentialCommands()...)
	cmds = append(cmds, getItemCommands()...)
	cmds = append(cmds, getSettingsCommands()...)
	return cmds
}

func main() {
	cmd := &cli.Command{
		Name:     "vaultctl",
		Usage:    "SecureVault encrypted file locker",
		Version:  "1.0.0",
		Commands: getCommands(),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("vaultctl error", slog.Any("error", err))
		os.Exit(1)
	}
}
