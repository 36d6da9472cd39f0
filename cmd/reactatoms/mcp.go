package main

import (
	"github.com/spf13/cobra"

	"github.com/gnana997/reactatoms/pkg/bundle"
	mcpserver "github.com/gnana997/reactatoms/pkg/mcp"
	"github.com/gnana997/reactatoms/pkg/mcplog"
	"github.com/gnana997/reactatoms/pkg/site"
)

func newMCPCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the component registry to coding agents over MCP (stdio)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, cleanup, err := a.loadOnce(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			holder := bundle.Static(b)
			pages, err := site.New(holder, site.DefaultConfig(), site.WithLogger(a.logger))
			if err != nil {
				return err
			}

			callLog, err := mcplog.NewLogger(a.cfg.MCP.LogFile)
			if err != nil {
				return err
			}
			defer callLog.Close()

			srv := mcpserver.NewServer(holder, pages,
				mcpserver.WithCallLog(callLog),
				mcpserver.WithLogger(a.logger),
				mcpserver.WithVersion(version))
			return srv.ServeStdio()
		},
	}
	cmd.Flags().String("log-file", "", "append a JSONL line per tool call to this file")
	return cmd
}
