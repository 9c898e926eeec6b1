// Package evalctx is the EvalContext façade of spec §2 component K: the
// single process-wide object owning every other component (A-J plus the
// three supplemented packages) and exposing the public API surface
// consumed by verifiers (spec §6). Modeled on go-dws's pkg/dwscript,
// which plays the same role for its own Interpreter.
package evalctx

import (
	"log/slog"

	"github.com/evalcore/agent/internal/abort"
	"github.com/evalcore/agent/internal/chroot"
	"github.com/evalcore/agent/internal/classes"
	"github.com/evalcore/agent/internal/funccache"
	"github.com/evalcore/agent/internal/identity"
	"github.com/evalcore/agent/internal/locks"
	"github.com/evalcore/agent/internal/netfacts"
	"github.com/evalcore/agent/internal/outcome"
	"github.com/evalcore/agent/internal/persist"
	"github.com/evalcore/agent/internal/stack"
	"github.com/evalcore/agent/internal/variables"
	"github.com/google/uuid"
)

// EvalContext is the evaluation core's single process-wide object (spec
// §5: "There is exactly one EvalContext per process"). It is not safe
// for concurrent mutation, matching the single-writer discipline every
// owned table already assumes.
type EvalContext struct {
	Config Config
	Logger *slog.Logger
	RunID  uuid.UUID

	GlobalClasses *classes.Table // namespace-global classes, component B

	// Variable tables, one per routing target of spec §4.3 step 1.
	DefVars   *variables.Table
	SysVars   *variables.Table
	MonVars   *variables.Table
	ConstVars *variables.Table
	MatchVars *variables.Table

	Stack *stack.Stack // component E

	PersistStore   persist.Store
	PersistManager *persist.Manager
	NegatedClasses map[string]struct{}

	FuncCache *funccache.Cache // component G

	Outcome    *outcome.Protocol // component H
	Watchlists *abort.Watchlists // component I
	Handles    *abort.Handles

	Chroot chroot.Projector // component J

	NetFacts *netfacts.Set // supplemented
	Locks    *locks.Cache  // supplemented

	Identity identity.Info

	EvalAborted bool
	RunMode     outcome.Mode
}

// New allocates an empty EvalContext: empty tables, process-identity hard
// classes, default evaluation options, an empty promise-lock cache and
// dependency-handle set (spec §5 "new()").
func New(cfg Config, store persist.Store) *EvalContext {
	logger := slog.Default()
	ctx := &EvalContext{
		Config:         cfg,
		Logger:         logger,
		RunID:          uuid.New(),
		GlobalClasses:  classes.NewTable(),
		DefVars:        variables.NewTable(),
		SysVars:        variables.NewTable(),
		MonVars:        variables.NewTable(),
		ConstVars:      variables.NewTable(),
		MatchVars:      variables.NewTable(),
		Stack:          stack.New(),
		PersistStore:   store,
		NegatedClasses: make(map[string]struct{}),
		FuncCache:      funccache.New(),
		Handles:        abort.NewHandles(),
		NetFacts:       netfacts.NewSet(),
		Locks:          locks.NewCache(),
		Identity:       identity.Probe(),
	}
	ctx.PersistManager = persist.NewManager(store)
	ctx.Watchlists = abort.New(ctx.classTokenResolver)
	ctx.Outcome = outcome.New(nil, ctx.Handles, logger)
	ctx.Identity.PublishHardClasses(ctx)
	return ctx
}

// classTokenResolver implements classexpr.TokenResolver in terms of the
// global class table, used by the abort watchlists' immediate re-check
// (spec §4.9).
func (c *EvalContext) classTokenResolver(token string) bool {
	_, ok := c.GlobalClasses.GetScoped("", token, classes.ScopeNamespace)
	if ok {
		return true
	}
	_, ok = c.GlobalClasses.Get("", token)
	return ok
}

// Clear drops all classes, all variables, all IP-address records, all
// promise locks, empties the stack, and clears the function cache (spec
// §5 "clear()").
func (c *EvalContext) Clear() {
	c.GlobalClasses.Clear()
	c.DefVars.Clear()
	c.SysVars.Clear()
	c.MonVars.Clear()
	c.ConstVars.Clear()
	c.MatchVars.Clear()
	c.NetFacts.Clear()
	c.Locks.Clear()
	c.Stack = stack.New()
	c.FuncCache.Clear()
}

// Destroy runs Clear, then frees the launch directory, entry point, and
// restrict-keys list (standing in for the original's remote-var-promises
// map, which has no counterpart in this core's scope) per spec §5
// "destroy()".
func (c *EvalContext) Destroy() {
	c.Clear()
	c.Config.LaunchDirectory = ""
	c.Config.EntryPoint = ""
	c.Config.RestrictKeys = nil
}
