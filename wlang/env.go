package wlang

import (
	"maps"
	"slices"
)

// Function is a stored func body, run by call against the same Env.
type Function struct {
	Name string
	Body []Statement
	Line int
}

// Env holds the single flat set of variables and functions of a session.
type Env struct {
	values    map[string]Value
	functions map[string]*Function
}

func newEnv() *Env {
	return &Env{values: make(map[string]Value), functions: make(map[string]*Function)}
}

func (e *Env) Get(name string) (Value, bool) {
	val, ok := e.values[name]
	return val, ok
}

// Set binds name to a copy of val.
func (e *Env) Set(name string, val Value) {
	e.values[name] = val.Copy()
}

func (e *Env) Function(name string) (*Function, bool) {
	fn, ok := e.functions[name]
	return fn, ok
}

func (e *Env) Define(fn *Function) {
	e.functions[fn.Name] = fn
}

// ClearValues drops every variable and keeps functions.
func (e *Env) ClearValues() {
	clear(e.values)
}

func (e *Env) Names() []string {
	return slices.Sorted(maps.Keys(e.values))
}

func (e *Env) FunctionNames() []string {
	return slices.Sorted(maps.Keys(e.functions))
}

// Snapshot returns copies of every variable.
func (e *Env) Snapshot() map[string]Value {
	out := make(map[string]Value, len(e.values))
	for name, val := range e.values {
		out[name] = val.Copy()
	}
	return out
}
