package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/rajnish8869/SecureVault-Manager/internal/mimesniff"
	"github.com/rajnish8869/SecureVault-Manager/internal/vault/domain"
	vaultService "github.com/rajnish8869/SecureVault-Manager/internal/vault/service"
)

func getItemCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "import",
			Usage:     "Encrypt and import a file into the vault",
			ArgsUsage: "<path>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				if cmd.Args().Len() != 1 {
					return fmt.Errorf("import requires exactly one file path")
				}
				return runImport(ctx, cmd.Args().First())
			},
		},
		{
			Name:  "list",
			Usage: "List items visible to the unlocked identity",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return runList(ctx)
			},
		},
		{
			Name:      "preview",
			Usage:     "Decrypt an item to stdout under the screen-guard/release contract",
			ArgsUsage: "<id>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				if cmd.Args().Len() != 1 {
					return fmt.Errorf("preview requires exactly one item id")
				}
				return runPreview(ctx, cmd.Args().First())
			},
		},
		{
			Name:      "export",
			Usage:     "Decrypt an item to a destination path",
			ArgsUsage: "<id> <dest>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				if cmd.Args().Len() != 2 {
					return fmt.Errorf("export requires an item id and a destination path")
				}
				return runExport(ctx, cmd.Args().Get(0), cmd.Args().Get(1))
			},
		},
		{
			Name:      "delete",
			Usage:     "Delete an item",
			ArgsUsage: "<id>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				if cmd.Args().Len() != 1 {
					return fmt.Errorf("delete requires exactly one item id")
				}
				return runDelete(ctx, cmd.Args().First())
			},
		},
	}
}

// unlockedSessionWithVault runs fn against an unlocked vault manager for
// the duration of one command invocation, locking it again on the way
// out regardless of outcome — a CLI process has no long-lived session
// of its own, so every item operation folds unlock/operate/lock into
// one call.
func unlockedSessionWithVault(ctx context.Context, fn func(ctx context.Context, vault *vaultService.Manager) error) error {
	container, vault, err := newContainerAndVault(ctx)
	if err != nil {
		return err
	}
	logger := container.Logger()
	defer closeContainer(container, logger)

	secret, err := readSecret("Vault secret: ")
	if err != nil {
		return err
	}
	defer domain.Zero(secret)

	if _, err := vault.Unlock(ctx, secret); err != nil {
		return fmt.Errorf("unlock failed: %w", err)
	}
	defer vault.Lock(ctx)

	return fn(ctx, vault)
}

func runImport(ctx context.Context, path string) error {
	return unlockedSessionWithVault(ctx, func(ctx context.Context, vaultOps *vaultService.Manager) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %q: %w", path, err)
		}
		item, err := vaultOps.Import(ctx, data, filepath.Base(path), mimesniff.Detect(data))
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		fmt.Printf("imported %s as %s (%d bytes)\n", path, item.ID, item.Size)
		return nil
	})
}

func runList(ctx context.Context) error {
	return unlockedSessionWithVault(ctx, func(ctx context.Context, vaultOps *vaultService.Manager) error {
		items, err := vaultOps.List(ctx)
		if err != nil {
			return fmt.Errorf("list failed: %w", err)
		}
		for _, item := range items {
			fmt.Printf("%s\t%s\t%s\t%d\t%s\n", item.ID, item.OriginalName, item.MimeType, item.Size, item.ImportedAt.Format("2006-01-02T15:04:05Z07:00"))
		}
		return nil
	})
}

func runPreview(ctx context.Context, id string) error {
	return unlockedSessionWithVault(ctx, func(ctx context.Context, vaultOps *vaultService.Manager) error {
		plaintext, token, err := vaultOps.Preview(ctx, id)
		if err != nil {
			return fmt.Errorf("preview failed: %w", err)
		}
		defer vaultOps.ReleasePreview(ctx, token, plaintext)
		os.Stdout.Write(plaintext)
		return nil
	})
}

func runExport(ctx context.Context, id, dest string) error {
	return unlockedSessionWithVault(ctx, func(ctx context.Context, vaultOps *vaultService.Manager) error {
		plaintext, err := vaultOps.Export(ctx, id)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		defer domain.Zero(plaintext)
		if err := os.WriteFile(dest, plaintext, 0o600); err != nil {
			return fmt.Errorf("failed to write %q: %w", dest, err)
		}
		fmt.Printf("exported %s to %s\n", id, dest)
		return nil
	})
}

func runDelete(ctx context.Context, id string) error {
	return unlockedSessionWithVault(ctx, func(ctx context.Context, vaultOps *vaultService.Manager) error {
		if err := vaultOps.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete failed: %w", err)
		}
		fmt.Printf("deleted %s\n", id)
		return nil
	})
}
