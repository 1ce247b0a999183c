package interpreter

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvApplyDoesNotMutateBase(t *testing.T) {
	base := []string{"PATH=/usr/bin", "HOME=/home/u"}
	e := Env{
		Vars:        map[string]string{"XUI_HOME": "/home/u/.xui", "HOME": "/override"},
		PathPrepend: []string{"/home/u/.local/bin"},
	}
	got := e.Apply(base)

	require.Equal(t, []string{"PATH=/usr/bin", "HOME=/home/u"}, base)
	path, ok := GetEnv(got, "PATH")
	require.True(t, ok)
	require.Equal(t, "/home/u/.local/bin"+string(os.PathListSeparator)+"/usr/bin", path)
	home, _ := GetEnv(got, "HOME")
	require.Equal(t, "/override", home)
	xui, _ := GetEnv(got, "XUI_HOME")
	require.Equal(t, "/home/u/.xui", xui)
}

func TestEnvApplyWithoutExistingPath(t *testing.T) {
	got := Env{PathPrepend: []string{"/a", "/b"}}.Apply(nil)
	path, ok := GetEnv(got, "PATH")
	require.True(t, ok)
	require.Equal(t, strings.Join([]string{"/a", "/b"}, string(os.PathListSeparator)), path)
}

func TestEnvMerge(t *testing.T) {
	a := Env{Vars: map[string]string{"A": "1", "B": "1"}, PathPrepend: []string{"/a"}}
	b := Env{Vars: map[string]string{"B": "2"}, PathPrepend: []string{"/b", "/a"}}
	m := a.Merge(b)
	require.Equal(t, map[string]string{"A": "1", "B": "2"}, m.Vars)
	require.Equal(t, []string{"/b", "/a"}, m.PathPrepend)
	require.False(t, m.IsZero())
	require.True(t, Env{}.IsZero())
	require.True(t, Env{}.Merge(Env{}).IsZero())
}

func TestSetEnvReplacesExisting(t *testing.T) {
	env := []string{"A=1", "B=2"}
	env = SetEnv(env, "A", "3")
	require.Equal(t, []string{"A=3", "B=2"}, env)
	env = SetEnv(env, "C", "4")
	require.Equal(t, []string{"A=3", "B=2", "C=4"}, env)
	_, ok := GetEnv(env, "D")
	require.False(t, ok)
}
