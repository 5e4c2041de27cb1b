package builtin

import (
	"fmt"

	"github.com/dshills/manage/internal/cmdctx"
)

// composeThen runs compose with args and prints done on success.
func composeThen(ctx *cmdctx.Context, done string, args ...string) error {
	if _, err := ctx.Compose(args); err != nil {
		return err
	}
	ctx.Out().Success(done)
	return nil
}

// Build builds images.
func Build(ctx *cmdctx.Context) error {
	return composeThen(ctx, "Build completed", append([]string{"build"}, ctx.Args.Strings("service")...)...)
}

// Rebuild builds images, pulling bases and bypassing the cache.
func Rebuild(ctx *cmdctx.Context) error {
	args := append([]string{"build", "--pull", "--no-cache"}, ctx.Args.Strings("service")...)
	return composeThen(ctx, "Rebuild completed", args...)
}

// Up starts containers detached.
func Up(ctx *cmdctx.Context) error {
	return composeThen(ctx, "Containers started", append([]string{"up", "-d"}, ctx.Args.Strings("service")...)...)
}

// Down stops containers, optionally removing volumes and orphans.
func Down(ctx *cmdctx.Context) error {
	args := []string{"down"}
	if ctx.Args.Bool("volumes") {
		args = append(args, "-v")
	}
	if ctx.Args.Bool("remove-orphans") {
		args = append(args, "--remove-orphans")
	}
	return composeThen(ctx, "Containers stopped", args...)
}

// Restart restarts containers.
func Restart(ctx *cmdctx.Context) error {
	return composeThen(ctx, "Containers restarted", append([]string{"restart"}, ctx.Args.Strings("service")...)...)
}

// Status shows container status.
func Status(ctx *cmdctx.Context) error {
	_, err := ctx.Compose([]string{"ps"})
	return err
}

// Logs shows container logs.
func Logs(ctx *cmdctx.Context) error {
	args := []string{"logs"}
	if ctx.Args.Bool("follow") {
		args = append(args, "--follow")
	}
	if ctx.Args.Bool("timestamps") {
		args = append(args, "--timestamps")
	}
	if v := ctx.Args.String("tail"); v != "" {
		args = append(args, "--tail", v)
	}
	if v := ctx.Args.String("since"); v != "" {
		args = append(args, "--since", v)
	}
	args = append(args, ctx.Args.Strings("service")...)
	_, err := ctx.Compose(args)
	return err
}

// Shell replaces the process with an interactive shell in a service
// container: bash when the container has it, sh otherwise.
func Shell(ctx *cmdctx.Context) error {
	service := ctx.Args.String("service")
	if service == "" {
		return cmdctx.Fatalf("--service is required. Specify which container to open a shell in.")
	}

	shell := "sh"
	res, err := ctx.Compose([]string{"exec", "-T", service, "sh", "-c", "command -v bash"}, cmdctx.NoCheck(), cmdctx.Capture())
	if err != nil {
		return err
	}
	if res.Code == 0 {
		shell = "bash"
	}
	ctx.Logger().WithField("service", service).Debugf("opening %s", shell)

	if err := ctx.ExecCompose([]string{"exec", "-it", service, shell}); err != nil {
		return fmt.Errorf("starting shell in %s: %w", service, err)
	}
	return nil
}

// Clean prunes Docker resources after confirmation. With --all it also
// removes the project's containers, networks and volumes.
func Clean(ctx *cmdctx.Context) error {
	all := ctx.Args.Bool("all")
	volumes := ctx.Args.Bool("volumes")

	var msg string
	switch {
	case all:
		msg = "This will remove ALL containers, networks, images, and volumes for this project!"
	case volumes:
		msg = "This will prune unused containers, networks, images, and volumes."
	default:
		msg = "This will prune unused containers, networks, and images."
	}

	if !ctx.Args.Bool("yes") && !ctx.Confirm(msg+" Continue?") {
		ctx.Out().Println("Aborted.")
		return nil
	}

	if all {
		if _, err := ctx.Compose([]string{"down", "-v", "--remove-orphans"}); err != nil {
			return err
		}
	}
	if _, err := ctx.Run(ctx.Docker(), []string{"system", "prune", "-f"}); err != nil {
		return err
	}
	if volumes || all {
		if _, err := ctx.Run(ctx.Docker(), []string{"volume", "prune", "-f"}); err != nil {
			return err
		}
	}
	ctx.Out().Success("Cleanup completed")
	return nil
}

// Stats shows container resource usage.
func Stats(ctx *cmdctx.Context) error {
	args := []string{"stats"}
	if ctx.Args.Bool("no-stream") {
		args = append(args, "--no-stream", "--format", statsFormat)
	}
	_, err := ctx.Run(ctx.Docker(), args)
	return err
}

// Version returns a handler printing the program version.
func Version(version string) func(*cmdctx.Context) error {
	return func(ctx *cmdctx.Context) error {
		ctx.Out().Println(fmt.Sprintf("%s version %s", ctx.Program, version))
		return nil
	}
}
