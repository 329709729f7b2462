package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/rajnish8869/SecureVault-Manager/internal/vault/domain"
)

func getCredentialCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "init",
			Usage: "Initialize a vault with a real credential",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "lock-type", Value: "password", Usage: "pin or password"},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return runInit(ctx, cmd.String("lock-type"))
			},
		},
		{
			Name:  "status",
			Usage: "Print the vault manager's current state",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return runStatus(ctx)
			},
		},
		{
			Name:  "set-decoy",
			Usage: "Set a decoy credential sharing the vault's salt",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return runSetDecoy(ctx)
			},
		},
		{
			Name:  "remove-decoy",
			Usage: "Remove the decoy credential and its corpus",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return runRemoveDecoy(ctx)
			},
		},
		{
			Name:  "rotate",
			Usage: "Rotate the master secret, re-encrypting the whole corpus",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "lock-type", Value: "password", Usage: "pin or password for the new secret"},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return runRotate(ctx, cmd.String("lock-type"))
			},
		},
		{
			Name:  "reset",
			Usage: "Wipe the vault back to UNINITIALIZED (spec §4.5 reset)",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return runReset(ctx)
			},
		},
	}
}

func runInit(ctx context.Context, lockTypeStr string) error {
	lockType, err := parseLockType(lockTypeStr)
	if err != nil {
		return err
	}

	container, vault, err := newContainerAndVault(ctx)
	if err != nil {
		return err
	}
	logger := container.Logger()
	defer closeContainer(container, logger)

	secret, err := readSecret("Set a new vault secret: ")
	if err != nil {
		return err
	}
	defer domain.Zero(secret)

	if err := vault.Init(ctx, secret, lockType); err != nil {
		return fmt.Errorf("init failed: %w", err)
	}
	logger.Info("vault initialized", slog.String("lock_type", lockTypeStr))
	return nil
}

func runStatus(ctx context.Context) error {
	container, vault, err := newContainerAndVault(ctx)
	if err != nil {
		return err
	}
	defer closeContainer(container, container.Logger())

	fmt.Println(vault.State().String())
	return nil
}

func runSetDecoy(ctx context.Context) error {
	container, vault, err := newContainerAndVault(ctx)
	if err != nil {
		return err
	}
	logger := container.Logger()
	defer closeContainer(container, logger)

	realSecret, err := readSecret("Real vault secret: ")
	if err != nil {
		return err
	}
	defer domain.Zero(realSecret)

	if _, err := vault.Unlock(ctx, realSecret); err != nil {
		return fmt.Errorf("unlock failed: %w", err)
	}
	defer vault.Lock(ctx)

	decoySecret, err := readSecret("Decoy vault secret: ")
	if err != nil {
		return err
	}
	defer domain.Zero(decoySecret)

	if err := vault.SetDecoy(ctx, decoySecret); err != nil {
		return fmt.Errorf("set-decoy failed: %w", err)
	}
	logger.Info("decoy credential set")
	return nil
}

func runRemoveDecoy(ctx context.Context) error {
	container, vault, err := newContainerAndVault(ctx)
	if err != nil {
		return err
	}
	logger := container.Logger()
	defer closeContainer(container, logger)

	realSecret, err := readSecret("Real vault secret: ")
	if err != nil {
		return err
	}
	defer domain.Zero(realSecret)

	if _, err := vault.Unlock(ctx, realSecret); err != nil {
		return fmt.Errorf("unlock failed: %w", err)
	}
	defer vault.Lock(ctx)

	if err := vault.RemoveDecoy(ctx); err != nil {
		return fmt.Errorf("remove-decoy failed: %w", err)
	}
	logger.Info("decoy credential removed")
	return nil
}

func runRotate(ctx context.Context, newLockTypeStr string) error {
	newLockType, err := parseLockType(newLockTypeStr)
	if err != nil {
		return err
	}

	container, vault, err := newContainerAndVault(ctx)
	if err != nil {
		return err
	}
	logger := container.Logger()
	defer closeContainer(container, logger)

	oldSecret, err := readSecret("Current vault secret: ")
	if err != nil {
		return err
	}
	defer domain.Zero(oldSecret)

	// Rotate only runs from an UNLOCKED_REAL session, so the vault is
	// unlocked first; Rotate then re-verifies the old secret itself
	// (spec §4.5 step 1).
	if _, err := vault.Unlock(ctx, oldSecret); err != nil {
		return fmt.Errorf("unlock failed: %w", err)
	}
	defer vault.Lock(ctx)

	newSecret, err := readSecret("New vault secret: ")
	if err != nil {
		return err
	}
	defer domain.Zero(newSecret)

	logger.Info("rotation starting")
	if err := vault.Rotate(ctx, oldSecret, newSecret, newLockType); err != nil {
		return fmt.Errorf("rotate failed: %w", err)
	}
	logger.Info("rotation complete")
	return nil
}

func runReset(ctx context.Context) error {
	container, vault, err := newContainerAndVault(ctx)
	if err != nil {
		return err
	}
	logger := container.Logger()
	defer closeContainer(container, logger)

	secret, err := readSecret("Real vault secret (required to reset): ")
	if err != nil {
		return err
	}
	defer domain.Zero(secret)

	if err := vault.Reset(ctx, secret); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	logger.Info("vault reset to UNINITIALIZED")
	return nil
}
