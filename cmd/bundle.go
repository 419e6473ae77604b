package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/abhisek/glucoguard/internal/bundle"
)

const pullTimeout = 2 * time.Minute

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Inspect or install model bundles",
}

var bundleInspectCmd = &cobra.Command{
	Use:   "inspect [path]",
	Short: "Validate a bundle and print its metadata",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Bundle
		if len(args) == 1 {
			path = args[0]
		}

		b, err := bundle.Load(path)
		if err != nil {
			var mismatch *bundle.ErrSchemaMismatch
			if errors.As(err, &mismatch) {
				return fmt.Errorf("%w\nmissing: %v\nunexpected: %v\nRetrain and save the bundle again.",
					err, mismatch.Missing(), mismatch.Unexpected())
			}
			return err
		}

		meta := b.Metadata()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(meta)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Path:        %s\n", path)
		if meta.Version != "" {
			fmt.Fprintf(out, "Version:     %s\n", meta.Version)
		}
		if meta.Description != "" {
			fmt.Fprintf(out, "Description: %s\n", meta.Description)
		}
		fmt.Fprintf(out, "Features:    %s\n", strings.Join(meta.Features, ", "))
		fmt.Fprintf(out, "Threshold:   %.2f\n", meta.Threshold)
		return nil
	},
}

var bundlePullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download, verify and install a bundle release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, _ := cmd.Flags().GetString("version")
		force, _ := cmd.Flags().GetBool("force")
		dest, _ := cmd.Flags().GetString("dest")
		if dest == "" {
			dest = cfg.Bundle
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("create bundle directory: %w", err)
		}

		fetcher := bundle.NewFetcher(
			bundle.WithTimeout(pullTimeout),
			bundle.WithBaseURL(cfg.ReleaseBaseURL),
			bundle.WithRelease(cfg.ReleaseOwner, cfg.ReleaseRepo),
		)

		ctx, cancel := context.WithTimeout(cmd.Context(), pullTimeout)
		defer cancel()

		out := cmd.OutOrStdout()
		b, err := fetcher.Pull(ctx, &bundle.PullInput{
			Version: tag,
			Dest:    dest,
			Force:   force,
		}, func(p bundle.PullProgress) {
			log.Debug().Str("stage", p.Stage).Msg(p.Message)
			fmt.Fprintln(out, p.Message)
		})

		if bundle.IsAlreadyInstalled(err) {
			fmt.Fprintf(out, "Bundle %s already installed at %s. Use --force to reinstall.\n", b.Version(), dest)
			return nil
		}
		if os.IsPermission(err) {
			return fmt.Errorf("%w\n\nChoose a writable --dest or set GLUCOGUARD_BUNDLE", err)
		}
		return err
	},
}

func init() {
	bundleInspectCmd.Flags().Bool("json", false, "Print metadata as JSON")

	f := bundlePullCmd.Flags()
	f.String("version", "", "Release tag to install, e.g. v1.0.0")
	f.Bool("force", false, "Reinstall even if the same or a newer version is installed")
	f.String("dest", "", "Install path (default: the configured bundle path)")
	f.String("base-url", "", "Release host (default https://github.com)")
	f.String("owner", "", "Release owner")
	f.String("repo", "", "Release repository")
	_ = bundlePullCmd.MarkFlagRequired("version")

	for key, flag := range map[string]string{
		"release_base_url": "base-url",
		"release_owner":    "owner",
		"release_repo":     "repo",
	} {
		if err := v.BindPFlag(key, f.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	bundleCmd.AddCommand(bundleInspectCmd)
	bundleCmd.AddCommand(bundlePullCmd)
}
