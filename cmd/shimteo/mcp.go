package main

import (
	"github.com/spf13/cobra"

	"github.com/shimteo/shimteo/internal/mcpserver"
)

func mcpCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve shelter, hospital and guide lookups as MCP tools on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap(*flags)
			if err != nil {
				return err
			}
			defer e.close()

			stopMetrics := e.serveMetrics()
			defer stopMetrics()

			return mcpserver.New(e.apiClient(), e.prefs, version, e.logger).ServeStdio()
		},
	}
}
