package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"igprofile/pkg/extract"
	"igprofile/pkg/logger"
)

func newParseCmd(root *rootOptions) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "parse --kind html|json <file>...",
		Short: "Extract a profile from saved responses",
		Long: `Run the extraction pipeline over response bodies saved to disk, without
any network access. All files are read as the given content kind and passed to
the pipeline together; "-" reads standard input.`,
		Example: `  curl -s https://www.instagram.com/cristiano/ > page.html
  igprofile parse --kind html page.html`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contentKind, err := extract.ParseKind(kind)
			if err != nil {
				return err
			}

			cfg, err := root.setup(cmd, nil)
			if err != nil {
				return err
			}

			opts, err := extract.OptionsFromConfig(cfg.Pipeline, logger.GetLogger())
			if err != nil {
				return err
			}
			pipeline, err := extract.New(opts)
			if err != nil {
				return err
			}

			sources := make([]extract.RawContent, 0, len(args))
			for _, name := range args {
				body, err := readSource(cmd, name)
				if err != nil {
					return err
				}
				sources = append(sources, extract.RawContent{Kind: contentKind, Body: body, Origin: name})
			}

			result := pipeline.Run(sources)
			if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("extraction failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "content kind of the files (html or json)")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func readSource(cmd *cobra.Command, name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read standard input: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(data), nil
}
