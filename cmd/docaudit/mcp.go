package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/docaudit/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes docaudit as tools
that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "docaudit": {
        "command": "docaudit",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - list_code_blocks    Functions, methods and classes with docstring presence
  - audit_docstrings    Model critique of each docstring, with optional auto-fix`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"DOCAUDIT_CONFIG"},
			},
		},
		Action: runMCPCmd,
		Subcommands: []*cli.Command{
			{
				Name:   "manifest",
				Usage:  "Print the MCP registry manifest (server.json)",
				Action: runMCPManifestCmd,
			},
		},
	}
}

func runMCPCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	server := mcpserver.NewServer(version,
		mcpserver.WithConfig(cfg),
		mcpserver.WithCriticFactory(criticFactory),
	)
	return server.Run(c.Context)
}

func runMCPManifestCmd(c *cli.Context) error {
	data, err := mcpserver.GenerateManifest(version)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(data))
	return nil
}
