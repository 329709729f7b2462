package main

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rajnish8869/SecureVault-Manager/internal/vault/domain"
	vaultService "github.com/rajnish8869/SecureVault-Manager/internal/vault/service"
)

// getSettingsCommands exposes the C4 registry's biometric/intruder
// pass-through settings, routed through the manager like every other
// operation rather than reached directly.
func getSettingsCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "biometric-status",
			Usage: "Print whether biometric unlock is enrolled",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return runBiometricStatus(ctx)
			},
		},
		{
			Name:      "biometric-set",
			Usage:     "Enable or disable biometric unlock enrollment",
			ArgsUsage: "<true|false>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				if cmd.Args().Len() != 1 {
					return fmt.Errorf("biometric-set requires exactly one argument: true or false")
				}
				return runBiometricSet(ctx, cmd.Args().First())
			},
		},
		{
			Name:  "intruder-settings",
			Usage: "Print the intruder-capture settings blob, hex-encoded",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return runIntruderSettingsGet(ctx)
			},
		},
		{
			Name:      "intruder-settings-set",
			Usage:     "Replace the intruder-capture settings blob from hex-encoded input",
			ArgsUsage: "<hex>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				if cmd.Args().Len() != 1 {
					return fmt.Errorf("intruder-settings-set requires exactly one hex-encoded argument")
				}
				return runIntruderSettingsSet(ctx, cmd.Args().First())
			},
		},
	}
}

func runBiometricStatus(ctx context.Context) error {
	return unlockedSessionWithVault(ctx, func(ctx context.Context, vaultOps *vaultService.Manager) error {
		enabled, err := vaultOps.GetBiometricEnabled(ctx)
		if err != nil {
			return fmt.Errorf("biometric-status failed: %w", err)
		}
		fmt.Println(enabled)
		return nil
	})
}

func runBiometricSet(ctx context.Context, raw string) error {
	var enabled bool
	switch raw {
	case "true":
		enabled = true
	case "false":
		enabled = false
	default:
		return fmt.Errorf("invalid value %q (valid options: true, false)", raw)
	}
	return unlockedSessionWithVault(ctx, func(ctx context.Context, vaultOps *vaultService.Manager) error {
		if err := vaultOps.SetBiometricEnabled(ctx, enabled); err != nil {
			return fmt.Errorf("biometric-set failed: %w", err)
		}
		fmt.Printf("biometric enrollment set to %v\n", enabled)
		return nil
	})
}

func runIntruderSettingsGet(ctx context.Context) error {
	return unlockedSessionWithVault(ctx, func(ctx context.Context, vaultOps *vaultService.Manager) error {
		settings, err := vaultOps.GetIntruderSettings(ctx)
		if err != nil {
			return fmt.Errorf("intruder-settings failed: %w", err)
		}
		fmt.Println(hex.EncodeToString(settings))
		return nil
	})
}

func runIntruderSettingsSet(ctx context.Context, rawHex string) error {
	settings, err := hex.DecodeString(rawHex)
	if err != nil {
		return fmt.Errorf("invalid hex input: %w", err)
	}
	defer domain.Zero(settings)
	return unlockedSessionWithVault(ctx, func(ctx context.Context, vaultOps *vaultService.Manager) error {
		if err := vaultOps.SetIntruderSettings(ctx, settings); err != nil {
			return fmt.Errorf("intruder-settings-set failed: %w", err)
		}
		fmt.Println("intruder settings updated")
		return nil
	})
}
