package cmdctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgs_Accessors(t *testing.T) {
	a := NewArgs("logs", "")
	a.Set("service", []string{"web", "db"}, true)
	a.Set("follow", true, true)
	a.Set("remove_orphans", false, false)
	a.Set("--tail", "100", true)

	assert.Equal(t, "logs", a.Command())
	assert.Empty(t, a.Subcommand())
	assert.Equal(t, []string{"web", "db"}, a.Strings("service"))
	assert.True(t, a.Bool("follow"))
	assert.False(t, a.Bool("remove-orphans"))
	assert.False(t, a.Changed("remove-orphans"))
	assert.True(t, a.Changed("tail"))
	assert.Equal(t, "100", a.String("tail"))
	assert.Equal(t, []string{"100"}, a.Strings("tail"))
	assert.Empty(t, a.String("missing"))
	assert.Nil(t, a.Strings("missing"))
	assert.Equal(t, []string{"follow", "remove-orphans", "service", "tail"}, a.Names())
}

func TestArgs_Truthy(t *testing.T) {
	a := NewArgs("x", "")
	a.Set("on", true, true)
	a.Set("off", false, false)
	a.Set("name", "web", true)
	a.Set("blank", "", false)
	a.Set("list", []string{"a"}, true)
	a.Set("empty", []string{}, false)

	for _, name := range []string{"on", "name", "list"} {
		assert.True(t, a.Truthy(name), name)
	}
	for _, name := range []string{"off", "blank", "empty", "missing"} {
		assert.False(t, a.Truthy(name), name)
	}
}

func TestArgs_MapHasBothSpellings(t *testing.T) {
	a := NewArgs("down", "")
	a.Set("remove-orphans", true, true)
	m := a.Map()
	assert.Equal(t, true, m["remove-orphans"])
	assert.Equal(t, true, m["remove_orphans"])
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, "exit status 3", Exit(3).Error())
	err := Fatalf("service %q missing", "db")
	assert.Equal(t, `service "db" missing`, err.Error())
	assert.Equal(t, 1, err.(*ExitCode).Code)
}
