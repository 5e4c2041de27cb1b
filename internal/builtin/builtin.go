package builtin

import (
	"github.com/dshills/manage/internal/registry"
)

// statsFormat is the table layout used by "stats --no-stream".
const statsFormat = "table {{.Container}}\t{{.CPUPerc}}\t{{.MemUsage}}\t{{.NetIO}}"

func services(help string) registry.Arg {
	return registry.Arg{Flags: []string{"service"}, Nargs: registry.NargsZeroOrMore, Help: help}
}

func flag(help string, tokens ...string) registry.Arg {
	return registry.Arg{Flags: tokens, Action: registry.ActionStoreTrue, Help: help}
}

// Entries returns the built-in commands in help order. version is reported
// by the version command.
func Entries(version string) []registry.Entry {
	return []registry.Entry{
		{
			Name:      "build",
			Help:      "Build images",
			Arguments: []registry.Arg{services("Service(s) to build")},
			Handler:   Build,
		},
		{
			Name:      "rebuild",
			Help:      "Full rebuild with --pull --no-cache",
			Arguments: []registry.Arg{services("Service(s) to rebuild")},
			Handler:   Rebuild,
		},
		{
			Name:      "up",
			Help:      "Start containers (detached)",
			Arguments: []registry.Arg{services("Service(s) to start")},
			Handler:   Up,
		},
		{
			Name: "down",
			Help: "Stop containers",
			Arguments: []registry.Arg{
				flag("Remove named volumes", "-v", "--volumes"),
				flag("Remove orphan containers", "--remove-orphans"),
			},
			Handler: Down,
		},
		{
			Name:      "restart",
			Help:      "Restart containers",
			Arguments: []registry.Arg{services("Service(s) to restart")},
			Handler:   Restart,
		},
		{
			Name:    "status",
			Help:    "Show container status",
			Handler: Status,
		},
		{
			Name: "logs",
			Help: "Show container logs",
			Arguments: []registry.Arg{
				services("Service(s) to show logs for"),
				flag("Follow log output", "-f", "--follow"),
				flag("Show timestamps", "--timestamps"),
				{Flags: []string{"--tail"}, Help: "Number of lines to show (e.g., '100')"},
				{Flags: []string{"--since"}, Help: "Show logs since timestamp (e.g., '5m', '2021-01-02T13:23:00')"},
			},
			Handler: Logs,
		},
		{
			Name: "shell",
			Help: "Open shell in a container",
			Arguments: []registry.Arg{
				{Flags: []string{"--service", "-s"}, Required: true, Help: "Service to open shell in (required)"},
			},
			Handler: Shell,
		},
		{
			Name: "clean",
			Help: "Clean up Docker resources",
			Arguments: []registry.Arg{
				flag("Skip confirmation prompt", "-y", "--yes"),
				flag("Also prune unused volumes", "--volumes"),
				flag("Remove everything including project volumes (destructive)", "--all"),
			},
			Handler: Clean,
		},
		{
			Name: "stats",
			Help: "Show container resource usage",
			Arguments: []registry.Arg{
				flag("Print a single snapshot instead of streaming", "--no-stream"),
			},
			Handler: Stats,
		},
		{
			Name:    "version",
			Help:    "Print version",
			Handler: Version(version),
		},
	}
}
