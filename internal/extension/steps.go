package extension

import (
	"fmt"
	"strings"

	"github.com/dshills/manage/internal/cmdctx"
	"github.com/dshills/manage/internal/project"
	"github.com/dshills/manage/internal/registry"
)

// templateData is the value step templates are evaluated against.
type templateData struct {
	Args       map[string]any
	Env        string
	Project    project.Config
	ProjectDir string
}

// handler returns the registry handler running c's steps, or nil when c
// has none.
func (c Command) handler() registry.Handler {
	if len(c.Steps) == 0 {
		return nil
	}
	steps := c.Steps
	return func(ctx *cmdctx.Context) error {
		data := templateData{
			Args:       ctx.Args.Map(),
			Env:        ctx.Environment,
			Project:    ctx.Config,
			ProjectDir: ctx.ProjectDir,
		}
		for i, s := range steps {
			if !s.enabled(ctx.Args) {
				ctx.Logger().WithField("step", i+1).Debugf("skipping: %s is not set", s.When)
				continue
			}
			stop, err := s.exec(ctx, data)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
		}
		return nil
	}
}

func (s Step) enabled(args *cmdctx.Args) bool {
	if s.When == "" {
		return true
	}
	if name, ok := strings.CutPrefix(s.When, "!"); ok {
		return !args.Truthy(name)
	}
	return args.Truthy(s.When)
}

// exec runs one step. stop reports that the command should end
// successfully without running later steps.
func (s Step) exec(ctx *cmdctx.Context, data templateData) (stop bool, err error) {
	argv, err := s.render(ctx.Args, data)
	if err != nil {
		return false, err
	}
	switch {
	case len(s.Compose) > 0:
		_, err = ctx.Compose(argv)
	case len(s.Run) > 0:
		if len(argv) == 0 {
			return false, fmt.Errorf("run step rendered no program")
		}
		_, err = ctx.Run(argv[0], argv[1:])
	case s.RequireRunning != "":
		err = ctx.RequireServiceActive(strings.Join(argv, " "))
	case s.Print != "":
		ctx.Out().Status(strings.Join(argv, " "))
	case s.Confirm != "":
		if !ctx.Confirm(strings.Join(argv, " ")) {
			ctx.Out().Println("Aborted.")
			return true, nil
		}
	}
	return false, err
}

// render evaluates the step's tokens, expanding splats and dropping tokens
// that render empty.
func (s Step) render(args *cmdctx.Args, data templateData) ([]string, error) {
	out := make([]string, 0, len(s.tokens))
	for _, t := range s.tokens {
		if t.splat != "" {
			if _, ok := args.Value(t.splat); !ok {
				return nil, fmt.Errorf("expanding ...%s: no such argument", t.splat)
			}
			out = append(out, args.Strings(t.splat)...)
			continue
		}
		var b strings.Builder
		if err := t.tmpl.Execute(&b, data); err != nil {
			return nil, fmt.Errorf("rendering step: %w", err)
		}
		if b.Len() > 0 {
			out = append(out, b.String())
		}
	}
	return out, nil
}
