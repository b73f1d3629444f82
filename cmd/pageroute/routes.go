package main

import (
	"github.com/spf13/cobra"
)

func routesCmd(flags *globalFlags) *cobra.Command {
	var (
		format    string
		filesOnly bool
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		Long: `Scan the page source and print the route configuration.

The full configuration includes the fixed home, webview and NotFound
routes. Use --files to print only the routes discovered from page files.

Examples:
  pageroute routes
  pageroute routes --format yaml
  pageroute routes --files`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			routes := p.routes
			if !filesOnly {
				routes = p.newRouter().Routes()
			}
			return encode(cmd.OutOrStdout(), format, routes)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().BoolVar(&filesOnly, "files", false, "Print only routes discovered from page files")

	return cmd
}
