package cmdctx

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/dshills/manage/internal/project"
	"github.com/dshills/manage/internal/runner"
	"github.com/dshills/manage/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newContext(t *testing.T, cfg project.Config, env string, r runner.Runner) (*Context, *testutil.Printer) {
	t.Helper()
	p := &testutil.Printer{}
	return New(context.Background(), Params{
		Config:      cfg,
		Environment: env,
		ProjectDir:  t.TempDir(),
		Runner:      r,
		Printer:     p,
		Tool:        Tool{Docker: "docker", Compose: "compose", Redact: true},
	}), p
}

func TestComposePrefix_BaseFilesAlwaysIncluded(t *testing.T) {
	cfg := project.Config{Name: "x", ComposeFiles: []string{"a.yml", "b.yml"}, EnvComposePattern: "c.{env}.yml"}
	c, _ := newContext(t, cfg, "dev", &testutil.FakeRunner{})

	assert.Equal(t, []string{"docker", "compose", "-f", "a.yml", "-f", "b.yml"}, c.ComposePrefix())
}

func TestComposePrefix_EnvFileIncludedWhenPresent(t *testing.T) {
	cfg := project.Config{Name: "x", ComposeFiles: []string{"a.yml"}, EnvComposePattern: "a.{env}.yml"}
	c, _ := newContext(t, cfg, "prod", &testutil.FakeRunner{})
	testutil.WriteFile(t, c.ProjectDir, "a.prod.yml", "services: {}\n")

	assert.Equal(t, []string{"docker", "compose", "-f", "a.yml", "-f", "a.prod.yml"}, c.ComposePrefix())
}

func TestComposePrefix_EnvFileNamingBaseFile(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{"plain base name", "docker-compose.yml", []string{"-f", "docker-compose.yml", "-f", "docker-compose.yml"}},
		{"missing other file", "other.yml", []string{"-f", "docker-compose.yml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := project.Config{Name: "x", ComposeFiles: []string{"docker-compose.yml"}, EnvComposePattern: tt.pattern}
			c, _ := newContext(t, cfg, "dev", &testutil.FakeRunner{})
			assert.Equal(t, tt.want, c.ComposeFileArgs())
		})
	}
}

func TestComposePrefix_ExistenceProperty(t *testing.T) {
	dir := t.TempDir()
	iteration := 0
	rapid.Check(t, func(rt *rapid.T) {
		iteration++
		n := rapid.IntRange(1, 4).Draw(rt, "baseCount")
		base := make([]string, n)
		for i := range base {
			base[i] = rapid.SampledFrom([]string{"a.yml", "b.yml", "c.yml", "missing.yml"}).Draw(rt, "base")
		}
		env := rapid.SampledFrom([]string{"dev", "prod", "ci"}).Draw(rt, "env")
		envExists := rapid.Bool().Draw(rt, "envExists")

		root := filepath.Join(dir, strconv.Itoa(iteration))
		envFile := "compose." + env + ".yml"
		if envExists {
			testutil.WriteFile(t, root, envFile, "")
		} else {
			testutil.WriteFile(t, root, ".keep", "")
		}

		c := New(context.Background(), Params{
			Config:      project.Config{Name: "p", ComposeFiles: base, EnvComposePattern: "compose.{env}.yml"},
			Environment: env,
			ProjectDir:  root,
		})
		got := c.ComposeFileArgs()

		want := []string{}
		for _, f := range base {
			want = append(want, "-f", f)
		}
		if envExists {
			want = append(want, "-f", envFile)
		}
		if len(got) != len(want) {
			rt.Fatalf("ComposeFileArgs() = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				rt.Fatalf("ComposeFileArgs() = %v, want %v", got, want)
			}
		}
	})
}

func TestCompose_RunsInProjectDirAndEchoes(t *testing.T) {
	fr := &testutil.FakeRunner{}
	c, p := newContext(t, project.New("x"), "dev", fr)

	_, err := c.Compose([]string{"up", "-d", "web"})
	require.NoError(t, err)

	require.Len(t, fr.Calls, 1)
	call := fr.Calls[0]
	assert.Equal(t, "docker compose -f docker-compose.yml up -d web", call.String())
	assert.Equal(t, c.ProjectDir, call.Dir)
	assert.False(t, call.Capture)
	assert.Equal(t, []string{"[INFO] Running: docker compose -f docker-compose.yml up -d web"}, p.Lines)
}

func TestCompose_NonZeroExitIsError(t *testing.T) {
	fr := &testutil.FakeRunner{Respond: func(runner.Cmd) (runner.Result, error) {
		return runner.Result{Code: 17, Stderr: "no such service"}, nil
	}}
	c, _ := newContext(t, project.New("x"), "dev", fr)

	_, err := c.Compose([]string{"up"})
	var exitErr *runner.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 17, exitErr.Code)
	assert.Equal(t, "no such service", exitErr.Stderr)
}

func TestCompose_NoCheckReturnsResult(t *testing.T) {
	fr := &testutil.FakeRunner{Respond: func(runner.Cmd) (runner.Result, error) {
		return runner.Result{Code: 2}, nil
	}}
	c, _ := newContext(t, project.New("x"), "dev", fr)

	res, err := c.Compose([]string{"ps"}, NoCheck(), Capture())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Code)
	assert.True(t, fr.Last().Capture)
}

func TestRun_EchoIsRedacted(t *testing.T) {
	fr := &testutil.FakeRunner{}
	c, p := newContext(t, project.New("x"), "dev", fr)

	_, err := c.Run("docker", []string{"login", "--password", "hunter2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"[INFO] Running: docker login --password [REDACTED]"}, p.Lines)
	assert.Equal(t, "docker login --password hunter2", fr.Last().String(), "real invocation is not redacted")
}

func TestActiveServices(t *testing.T) {
	fr := &testutil.FakeRunner{Respond: func(c runner.Cmd) (runner.Result, error) {
		return runner.Result{Stdout: "web\n  db \n\n"}, nil
	}}
	c, _ := newContext(t, project.New("x"), "dev", fr)

	assert.Equal(t, []string{"web", "db"}, c.ActiveServices())
	assert.True(t, c.IsServiceActive("db"))
	assert.False(t, c.IsServiceActive("cache"))
	assert.True(t, testutil.Contains(fr.Last(), "ps --services --status running"))
	assert.True(t, fr.Last().Capture)
}

func TestBestEffortQueriesNeverFail(t *testing.T) {
	failures := map[string]func(runner.Cmd) (runner.Result, error){
		"non-zero exit": func(runner.Cmd) (runner.Result, error) {
			return runner.Result{Code: 1, Stdout: "web\n"}, nil
		},
		"start failure": func(runner.Cmd) (runner.Result, error) {
			return runner.Result{}, errors.New("exec: docker: not found")
		},
	}
	for name, respond := range failures {
		t.Run(name, func(t *testing.T) {
			c, _ := newContext(t, project.New("x"), "dev", &testutil.FakeRunner{Respond: respond})
			assert.False(t, c.IsServiceActive("web"))
			assert.Empty(t, c.ActiveServices())
		})
	}
}

func TestRequireServiceActive(t *testing.T) {
	fr := &testutil.FakeRunner{Respond: func(runner.Cmd) (runner.Result, error) {
		return runner.Result{Stdout: "web\n"}, nil
	}}
	c, _ := newContext(t, project.New("x"), "dev", fr)
	c.Program = "./manage"

	require.NoError(t, c.RequireServiceActive("web"))

	err := c.RequireServiceActive("db")
	var exit *ExitCode
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 1, exit.Code)
	assert.Equal(t, "Service 'db' is not running. Start with: ./manage up", exit.Message)
}

func TestExecCompose(t *testing.T) {
	fr := &testutil.FakeRunner{}
	c, _ := newContext(t, project.New("x"), "dev", fr)

	require.NoError(t, c.ExecCompose([]string{"exec", "-it", "web", "bash"}))
	require.Len(t, fr.Replaced, 1)
	assert.Equal(t, "docker compose -f docker-compose.yml exec -it web bash", fr.Replaced[0].String())
	assert.Equal(t, c.ProjectDir, fr.Replaced[0].Dir)
	assert.Empty(t, fr.Calls)
}

func TestConfirm_WithoutPrompterDeclines(t *testing.T) {
	c, _ := newContext(t, project.New("x"), "dev", &testutil.FakeRunner{})
	assert.False(t, c.Confirm("Continue?"))

	a := &testutil.Answer{Yes: true}
	c.prompt = a
	assert.True(t, c.Confirm("Continue?"))
	assert.Equal(t, []string{"Continue?"}, a.Asked)
}
