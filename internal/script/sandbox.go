package script

import (
	lua "github.com/yuin/gopher-lua"
)

// newSandboxedState builds a fresh Lua state with only the safe
// standard libraries: base, table, string, and math. io, os, and debug
// never get opened, and the code-loading escape hatches in base are
// stripped out.
func newSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:  true,
		CallStackSize: 120,
		RegistrySize:  20 * 1024,
	})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	return L
}
