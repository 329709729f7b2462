package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/rajnish8869/SecureVault-Manager/internal/app"
	"github.com/rajnish8869/SecureVault-Manager/internal/config"
	vaultDomain "github.com/rajnish8869/SecureVault-Manager/internal/vault/domain"
	vaultService "github.com/rajnish8869/SecureVault-Manager/internal/vault/service"
)

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// newContainerAndVault loads configuration and builds a vault manager in
// one step, the entry point shared by every subcommand.
func newContainerAndVault(ctx context.Context) (*app.Container, *vaultService.Manager, error) {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	vault, err := container.Vault(ctx)
	if err != nil {
		return container, nil, fmt.Errorf("failed to initialize vault manager: %w", err)
	}
	return container, vault, nil
}

// readSecret prompts for a secret on the controlling terminal without
// echoing it, falling back to a plain stdin read when stdin isn't a
// terminal (e.g. piped input in scripts/tests).
func readSecret(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("failed to read secret: %w", err)
		}
		return secret, nil
	}

	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}
	return []byte(line), nil
}

// parseLockType maps the --lock-type flag onto the vault domain's enum.
func parseLockType(raw string) (vaultDomain.LockType, error) {
	switch raw {
	case "pin":
		return vaultDomain.LockTypePIN, nil
	case "password":
		return vaultDomain.LockTypePassword, nil
	default:
		return 0, fmt.Errorf("invalid lock type %q (valid options: pin, password)", raw)
	}
}
