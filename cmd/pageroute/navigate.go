package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/pageroute/pkg/router"
)

func navigateCmd(flags *globalFlags) *cobra.Command {
	var (
		format string
		src    string
	)

	cmd := &cobra.Command{
		Use:   "navigate <url>...",
		Short: "Run navigations and print the visited pages",
		Long: `Navigate to each URL in order and print the visited-page cache.

Each distinct path keeps one entry; webview pages keep one entry per
embedded source URL.

Examples:
  pageroute navigate /user /role /user?tab=2
  pageroute navigate "/webview?src=https://example.com"
  pageroute navigate /webview --src https://example.com`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			r := p.newRouter()

			var opts []router.NavigateOption
			if src != "" {
				opts = append(opts, router.WithWebviewSource(src))
			}
			for _, target := range args {
				if _, err := r.Navigate(cmd.Context(), target, opts...); err != nil {
					return err
				}
			}

			return encode(cmd.OutOrStdout(), format, r.Cache().ToArray())
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVar(&src, "src", "", "Embedded source URL added to every navigation")

	return cmd
}
