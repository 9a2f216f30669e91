package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"umbrella-customizer/app"
	"umbrella-customizer/service"
)

type renderFlags struct {
	color  string
	logo   string
	size   int
	outDir string
}

func newRenderCmd(root *rootFlags) *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a customized umbrella to a PNG file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			path, err := runRender(ctx, root, flags)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.color, "color", "blue", "Umbrella color (blue, yellow, pink)")
	cmd.Flags().StringVar(&flags.logo, "logo", "", "Logo image to place on the umbrella")
	cmd.Flags().IntVar(&flags.size, "size", service.DefaultLogoSize, "Logo size in percent (50-150)")
	cmd.Flags().StringVarP(&flags.outDir, "out", "o", ".", "Directory the PNG is written to")

	return cmd
}

func runRender(ctx context.Context, root *rootFlags, flags *renderFlags) (string, error) {
	cfg, log, err := setup(root)
	if err != nil {
		return "", err
	}

	renderer, err := app.NewRenderer(ctx, cfg, log)
	if err != nil {
		return "", err
	}

	session := service.NewCustomizer("cli", renderer, app.SessionOptions(cfg, log))
	defer session.Close()

	if err := session.SelectColor(ctx, flags.color); err != nil {
		return "", err
	}

	if flags.logo != "" {
		data, err := os.ReadFile(flags.logo)
		if err != nil {
			return "", fmt.Errorf("failed to read logo: %w", err)
		}
		// the type is sniffed from the content
		upload := service.Upload{
			Data:      data,
			SizeBytes: int64(len(data)),
			FileName:  filepath.Base(flags.logo),
		}
		if err := session.UploadLogo(ctx, upload); err != nil {
			return "", err
		}
	}

	if _, err := session.SetLogoSize(ctx, flags.size); err != nil {
		return "", err
	}

	export, err := session.Export(ctx)
	if err != nil {
		return "", err
	}

	return service.NewExportWriter(flags.outDir, log).Save(export)
}
