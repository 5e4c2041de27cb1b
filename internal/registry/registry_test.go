package registry

import (
	"errors"
	"testing"

	"github.com/dshills/manage/internal/cmdctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLookup(t *testing.T) {
	r := New()
	hit := false
	r.RegisterCommand("sample", "Sample command", nil, func(*cmdctx.Context) error {
		hit = true
		return nil
	})

	e, ok := r.Lookup("sample")
	require.True(t, ok, "handler not found")
	assert.Equal(t, "Sample command", e.Help)
	require.NoError(t, e.Handler(nil))
	assert.True(t, hit, "handler was not invoked")

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegisterCommand_LastWins(t *testing.T) {
	r := New()
	var replaced []string
	r.OnReplace = func(parent, name string) { replaced = append(replaced, parent+"/"+name) }

	first := errors.New("first")
	second := errors.New("second")
	r.RegisterCommand("a", "first help", []Arg{{Flags: []string{"--old"}}}, func(*cmdctx.Context) error { return first })
	r.RegisterCommand("b", "b help", nil, func(*cmdctx.Context) error { return nil })
	r.RegisterCommand("a", "second help", []Arg{{Flags: []string{"--new"}}}, func(*cmdctx.Context) error { return second })

	cmds := r.Commands()
	require.Len(t, cmds, 2)
	assert.Equal(t, "a", cmds[0].Name, "replacement keeps original position")
	assert.Equal(t, "second help", cmds[0].Help)
	assert.Equal(t, []string{"--new"}, cmds[0].Arguments[0].Flags)
	assert.ErrorIs(t, cmds[0].Handler(nil), second)
	assert.Equal(t, []string{"/a"}, replaced)
}

func TestRegisterSubcommand_CreatesBucketAndLastWins(t *testing.T) {
	r := New()
	assert.False(t, r.HasSubcommands("db"))

	r.RegisterSubcommand("db", "migrate", "old", nil, nil)
	r.RegisterSubcommand("db", "seed", "seed", nil, nil)
	r.RegisterSubcommand("db", "migrate", "new", []Arg{{Flags: []string{"--step"}}}, nil)

	assert.True(t, r.HasSubcommands("db"))
	subs := r.Subcommands("db")
	require.Len(t, subs, 2)
	assert.Equal(t, "migrate", subs[0].Name)
	assert.Equal(t, "new", subs[0].Help)
	assert.Equal(t, "seed", subs[1].Name)

	e, ok := r.LookupSubcommand("db", "migrate")
	require.True(t, ok)
	assert.Equal(t, "new", e.Help)
}

func TestSubcommandScopesAreIndependent(t *testing.T) {
	r := New()
	r.RegisterSubcommand("db", "status", "db status", nil, nil)
	r.RegisterSubcommand("cache", "status", "cache status", nil, nil)
	r.RegisterCommand("status", "top status", nil, nil)

	dbStatus, _ := r.LookupSubcommand("db", "status")
	cacheStatus, _ := r.LookupSubcommand("cache", "status")
	top, _ := r.Lookup("status")
	assert.Equal(t, "db status", dbStatus.Help)
	assert.Equal(t, "cache status", cacheStatus.Help)
	assert.Equal(t, "top status", top.Help)
}

func TestOrphanParents(t *testing.T) {
	r := New()
	r.RegisterCommand("db", "", nil, nil)
	r.RegisterSubcommand("db", "seed", "", nil, nil)
	r.RegisterSubcommand("queue", "purge", "", nil, nil)
	assert.Equal(t, []string{"queue"}, r.OrphanParents())
}

func TestRegisterCopiesArguments(t *testing.T) {
	r := New()
	args := []Arg{{Flags: []string{"--email"}, Choices: []string{"a"}}}
	r.RegisterCommand("x", "", args, nil)
	args[0].Flags[0] = "--mutated"
	args[0].Choices[0] = "b"

	e, _ := r.Lookup("x")
	assert.Equal(t, "--email", e.Arguments[0].Flags[0])
	assert.Equal(t, "a", e.Arguments[0].Choices[0])
}
