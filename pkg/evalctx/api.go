package evalctx

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/evalcore/agent/internal/abort"
	"github.com/evalcore/agent/internal/classes"
	"github.com/evalcore/agent/internal/classexpr"
	"github.com/evalcore/agent/internal/evalerr"
	"github.com/evalcore/agent/internal/funccache"
	"github.com/evalcore/agent/internal/outcome"
	"github.com/evalcore/agent/internal/persist"
	"github.com/evalcore/agent/internal/stack"
	"github.com/evalcore/agent/internal/values"
	"github.com/evalcore/agent/internal/variables"
)

// --- Configuration (spec §6 "Configuration") ---

func (c *EvalContext) SetConfig(cfg Config) { c.Config = cfg }
func (c *EvalContext) GetConfig() Config    { return c.Config }

func (c *EvalContext) SetEvalOption(option string, value bool) error {
	switch option {
	case "full-expansion":
		c.Config.FullExpansion = value
	case "cache-system-functions":
		c.Config.CacheSystemFunctions = value
	default:
		return fmt.Errorf("unknown eval option %q", option)
	}
	return nil
}

func (c *EvalContext) SetLaunchDirectory(path string) { c.Config.LaunchDirectory = path }
func (c *EvalContext) SetEntryPoint(path string)      { c.Config.EntryPoint = path }
func (c *EvalContext) SetIgnoreLocks(b bool)          { c.Config.IgnoreLocks = b }
func (c *EvalContext) IsIgnoringLocks() bool          { return c.Config.IgnoreLocks }
func (c *EvalContext) SetDumpReports(b bool)          { c.Config.DumpReports = b }
func (c *EvalContext) GetDumpReports() bool           { return c.Config.DumpReports }
func (c *EvalContext) SetSelectEndMatchEOF(b bool)    { c.Config.SelectEndMatchEOF = b }
func (c *EvalContext) GetSelectEndMatchEOF() bool     { return c.Config.SelectEndMatchEOF }
func (c *EvalContext) SetRestrictKeys(keys []string)  { c.Config.RestrictKeys = keys }
func (c *EvalContext) GetRestrictKeys() []string      { return c.Config.RestrictKeys }
func (c *EvalContext) SetChecksumUpdatesDefault(b bool) {
	c.Config.ChecksumUpdatesDefault = b
}

// --- Classes (spec §6 "Classes", §4.2) ---

// ClassPutHard inserts a hard (process-provided) class. Hard classes
// always live in the namespace-global table under the default namespace
// (spec §3: "A hard class has empty namespace equivalent and is never
// stored bundle-local").
func (c *EvalContext) ClassPutHard(name string, tags []string) {
	cls, inserted := c.GlobalClasses.Put("", name, false, classes.ScopeNamespace, tags, "")
	if inserted {
		c.Watchlists.CheckDefine(cls.Qualified())
	}
}

// ClassPutSoft inserts a soft (policy-derived) class under the default
// namespace, in either the current bundle-local table or the
// namespace-global table depending on scope.
func (c *EvalContext) ClassPutSoft(name string, scope classes.Scope, tags []string, comment string) bool {
	return c.ClassPutSoftNS("", name, scope, tags, comment)
}

func (c *EvalContext) ClassPutSoftNS(ns, name string, scope classes.Scope, tags []string, comment string) bool {
	target := c.GlobalClasses
	if scope == classes.ScopeBundle {
		if b := c.Stack.CurrentBundle(); b != nil {
			target = b.LocalClasses
		}
	}
	cls, inserted := target.Put(ns, name, true, scope, tags, comment)
	if inserted {
		c.Watchlists.CheckDefine(cls.Qualified())
	}
	return inserted
}

// ClassGet looks in the current bundle's local table first, then the
// global table.
func (c *EvalContext) ClassGet(ns, name string) (*classes.Class, bool) {
	if b := c.Stack.CurrentBundle(); b != nil {
		if cls, ok := b.LocalClasses.Get(ns, name); ok {
			return cls, true
		}
	}
	return c.GlobalClasses.Get(ns, name)
}

func (c *EvalContext) ClassMatch(pattern string) (*classes.Class, error) {
	if b := c.Stack.CurrentBundle(); b != nil {
		if cls, err := b.LocalClasses.Match(pattern); err != nil || cls != nil {
			return cls, err
		}
	}
	return c.GlobalClasses.Match(pattern)
}

// ClassRemove deletes a class from both the current bundle's local table
// (if any) and the global table.
func (c *EvalContext) ClassRemove(ns, name string) bool {
	removed := false
	if b := c.Stack.CurrentBundle(); b != nil {
		removed = b.LocalClasses.Remove(ns, name) || removed
	}
	return c.GlobalClasses.Remove(ns, name) || removed
}

func (c *EvalContext) ClassTags(ns, name string) []string {
	cls, ok := c.ClassGet(ns, name)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(cls.Tags))
	for t := range cls.Tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (c *EvalContext) ClassIteratorGlobal(filter classes.Filter) []*classes.Class {
	return c.GlobalClasses.Iterator(filter)
}

func (c *EvalContext) ClassIteratorLocal(filter classes.Filter) []*classes.Class {
	b := c.Stack.CurrentBundle()
	if b == nil {
		return nil
	}
	return b.LocalClasses.Iterator(filter)
}

func (c *EvalContext) ClassesMatchingGlobal(pattern string, tagFilter []string, firstOnly bool) ([]*classes.Class, error) {
	return c.GlobalClasses.MatchingRegex(pattern, tagFilter, firstOnly)
}

func (c *EvalContext) ClassesMatchingLocal(pattern string, tagFilter []string, firstOnly bool) ([]*classes.Class, error) {
	b := c.Stack.CurrentBundle()
	if b == nil {
		return nil, nil
	}
	return b.LocalClasses.MatchingRegex(pattern, tagFilter, firstOnly)
}

// --- Abort watchlists (spec §6, §4.9) ---

// AbortWatchlistRegisterBulk registers many global abort-class entries at
// once — e.g. loading a policy's full abort-class list at startup — and
// aggregates any per-entry failure with go-multierror instead of letting
// one malformed entry drop the rest of the batch (see abort.Watchlists.RegisterBulk).
func (c *EvalContext) AbortWatchlistRegisterBulk(entries []abort.Entry) error {
	return c.Watchlists.RegisterBulk(entries)
}

func (c *EvalContext) IsEvalAborted() bool { return c.Watchlists.EvalAborted }

// classExpressionResolver implements the token-resolution rule of spec
// §4.4: true if the token is a hard class in the default namespace, a
// soft class in the expression's namespace, or a soft class in any
// bundle frame reachable via inherits_previous.
func (c *EvalContext) classExpressionResolver(ns string) classexpr.TokenResolver {
	return func(token string) bool {
		if cls, ok := c.GlobalClasses.GetScoped("", token, classes.ScopeNamespace); ok && !cls.Soft {
			return true
		}
		if cls, ok := c.GlobalClasses.Get(ns, token); ok && cls.Soft {
			return true
		}
		for _, bf := range c.Stack.InheritedBundles() {
			if bf.LocalClasses == nil {
				continue
			}
			if cls, ok := bf.LocalClasses.Get(ns, token); ok && cls.Soft {
				return true
			}
		}
		return false
	}
}

// IsDefinedClass evaluates a class expression against the current
// context, defaulting ns to the empty (default) namespace if omitted.
func (c *EvalContext) IsDefinedClass(expression string, ns ...string) bool {
	namespace := ""
	if len(ns) > 0 {
		namespace = ns[0]
	}
	return classexpr.Evaluate(expression, c.classExpressionResolver(namespace)) == classexpr.True
}

func (c *EvalContext) CheckClassExpression(expr string) classexpr.Result {
	return classexpr.Evaluate(expr, c.classExpressionResolver(""))
}

// --- Variables (spec §6 "Variables", §4.3) ---

func (c *EvalContext) tableForScope(scope variables.Scope) *variables.Table {
	switch scope {
	case variables.ScopeDef:
		return c.DefVars
	case variables.ScopeSys:
		return c.SysVars
	case variables.ScopeMon:
		return c.MonVars
	case variables.ScopeConst:
		return c.ConstVars
	case variables.ScopeMatch:
		return c.MatchVars
	case variables.ScopeEdit:
		if b := c.Stack.CurrentBundle(); b != nil {
			return b.LocalVariables
		}
		return nil
	case variables.ScopeBody:
		if b := c.Stack.CurrentBody(); b != nil {
			return b.BodyVariables
		}
		return nil
	case variables.ScopeThis:
		if p := c.Stack.CurrentPromise(); p != nil {
			return p.PromiseVariables
		}
		return nil
	default:
		return c.DefVars
	}
}

// resolveOnce performs steps 1-2 only: route to the right table, strip
// the namespace for special scopes, and look up directly. Used both for
// the top-level lookup and for the single retries in steps 5-6, so those
// retries cannot recurse back through the whole algorithm.
func (c *EvalContext) resolveOnce(ref variables.Reference) (values.Value, values.DataType) {
	lookup := ref
	if ref.Scope.IsSpecial() {
		lookup.Namespace = ""
	}
	table := c.tableForScope(ref.Scope)
	if table == nil {
		return values.None{}, values.TNone
	}
	if v, ok := table.Get(lookup.Namespace, lookup.Name); ok {
		return v.Value, v.Type
	}
	return values.None{}, values.TNone
}

// indexInto applies an ordered index path to a resolved value, per spec
// §4.3 step 4 ("if it returns a container, index into the container by
// the path of indices").
func indexInto(v values.Value, indices []string) (values.Value, values.DataType) {
	cur, ok := v.(values.Container)
	if !ok {
		return v, v.DataType()
	}
	for _, idx := range indices {
		switch {
		case cur.IsObject:
			child, found := cur.Object[idx]
			if !found {
				return values.None{}, values.TNone
			}
			cur = child
		case cur.IsArray:
			n, err := strconv.Atoi(idx)
			if err != nil || n < 0 || n >= len(cur.Array) {
				return values.None{}, values.TNone
			}
			cur = cur.Array[n]
		default:
			return values.None{}, values.TNone
		}
	}
	return cur, cur.DataType()
}

// ResolveVariable implements the six-step reference-resolution algorithm
// of spec §4.3. Indices, when present, are applied only at the step that
// produces them (never at step 1's plain direct lookup) so that a
// container stored under the unindexed name is still indexed rather than
// returned whole.
func (c *EvalContext) ResolveVariable(ref variables.Reference) (values.Value, values.DataType) {
	// Steps 1-2: route, strip namespace for special scopes, direct lookup.
	if len(ref.Indices) == 0 {
		if v, dt := c.resolveOnce(ref); dt != values.TNone {
			return v, dt
		}
	}

	// Step 3: mangled lookup in the `this` table.
	if len(ref.Indices) > 0 && ref.Scope != variables.ScopeUnspecified {
		if p := c.Stack.CurrentPromise(); p != nil {
			if v, ok := p.PromiseVariables.GetMangled(ref); ok {
				return indexInto(v.Value, ref.Indices)
			}
		}
	}

	// Step 4: indexless lookup, then index into a container result.
	if len(ref.Indices) > 0 {
		if v, dt := c.resolveOnce(ref); dt != values.TNone {
			return indexInto(v, ref.Indices)
		}
	}

	// Step 5: qualify an unqualified reference to the current frame, retry once.
	if ref.Namespace == "" {
		if retry, changed := c.qualifyToCurrentFrame(ref); changed {
			if v, dt := c.resolveRetry(retry); dt != values.TNone {
				return v, dt
			}
		}
	}

	// Step 6: for this/body scopes, retry once more qualifying to the last bundle.
	if ref.Scope == variables.ScopeThis || ref.Scope == variables.ScopeBody {
		if b := c.Stack.CurrentBundle(); b != nil {
			retry := ref
			retry.Namespace = b.BundleNamespace
			retry.Name = b.BundleName + "." + ref.Name
			if v, dt := c.resolveRetry(retry); dt != values.TNone {
				return v, dt
			}
		}
	}

	return values.None{}, values.TNone
}

// resolveRetry performs the direct lookup of the steps 5/6 retries,
// indexing the result when the reference carries indices.
func (c *EvalContext) resolveRetry(ref variables.Reference) (values.Value, values.DataType) {
	v, dt := c.resolveOnce(ref)
	if dt == values.TNone {
		return v, dt
	}
	if len(ref.Indices) > 0 {
		return indexInto(v, ref.Indices)
	}
	return v, dt
}

func (c *EvalContext) qualifyToCurrentFrame(ref variables.Reference) (variables.Reference, bool) {
	top := c.Stack.Top()
	if top == nil {
		return ref, false
	}
	switch top.Kind {
	case stack.KindPromise, stack.KindPromiseIteration:
		retry := ref
		retry.Scope = variables.ScopeThis
		return retry, true
	case stack.KindBody:
		retry := ref
		retry.Scope = variables.ScopeBody
		return retry, true
	case stack.KindBundle, stack.KindBundleSection:
		if b := c.Stack.CurrentBundle(); b != nil {
			retry := ref
			retry.Namespace = b.BundleNamespace
			retry.Name = b.BundleName + "." + ref.Name
			return retry, true
		}
	}
	return ref, false
}

// VariablePut canonicalizes and stores a variable under its routed
// table. comment is accepted for API-surface parity with spec §6 but not
// persisted; the variable data model (spec §3) carries no comment field
// for variables, unlike classes.
func (c *EvalContext) VariablePut(ref variables.Reference, v values.Value, dtype values.DataType, tags []string, comment string) (*variables.Variable, *evalerr.Error) {
	lookup := ref
	if ref.Scope.IsSpecial() {
		lookup.Namespace = ""
	}
	table := c.tableForScope(ref.Scope)
	if table == nil {
		return nil, evalerr.New(evalerr.UnknownReference, "no active frame backs scope %q", ref.Scope.String()).WithReference(ref.String())
	}
	owningPromise := ""
	if p := c.Stack.CurrentPromise(); p != nil {
		owningPromise = p.PromiseHandle
	}
	return table.Put(lookup, v, dtype, tags, owningPromise)
}

func (c *EvalContext) VariablePutSpecial(scope variables.Scope, lval string, value values.Value, dtype values.DataType, tags []string, comment string) (*variables.Variable, *evalerr.Error) {
	return c.VariablePut(variables.Reference{Scope: scope, Name: lval}, value, dtype, tags, comment)
}

func (c *EvalContext) VariableGet(ref variables.Reference) (values.Value, values.DataType) {
	return c.ResolveVariable(ref)
}

func (c *EvalContext) VariableGetSpecial(scope variables.Scope, name string) (values.Value, values.DataType) {
	return c.ResolveVariable(variables.Reference{Scope: scope, Name: name})
}

func (c *EvalContext) VariableRemove(ref variables.Reference) bool {
	lookup := ref
	if ref.Scope.IsSpecial() {
		lookup.Namespace = ""
	}
	table := c.tableForScope(ref.Scope)
	if table == nil {
		return false
	}
	return table.Remove(lookup.Namespace, lookup.Name)
}

func (c *EvalContext) VariableRemoveSpecial(scope variables.Scope, lval string) bool {
	return c.VariableRemove(variables.Reference{Scope: scope, Name: lval})
}

func (c *EvalContext) VariableTags(ref variables.Reference) []string {
	lookup := ref
	if ref.Scope.IsSpecial() {
		lookup.Namespace = ""
	}
	table := c.tableForScope(ref.Scope)
	if table == nil {
		return nil
	}
	v, ok := table.Get(lookup.Namespace, lookup.Name)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(v.Tags))
	for t := range v.Tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (c *EvalContext) VariableIteratorPrefix(scope variables.Scope, ns string) []*variables.Variable {
	table := c.tableForScope(scope)
	if table == nil {
		return nil
	}
	return table.IteratePrefix(ns)
}

// --- Stack (spec §6 "Stack", §4.5) ---

// StackPushBundle pushes a bundle frame. When Config.FullExpansion is set
// (spec §4.5 "on bundle push with arguments, all previously set variables
// in the bundle's namespace/name are re-expanded in place through the
// current context"), every def-scoped variable already qualified under
// this bundle's namespace+name is re-interpolated against the context
// that exists right after the push, so that a variable an outer bundle
// defined becomes visible, freshly expanded, under this bundle's
// qualifier.
func (c *EvalContext) StackPushBundle(namespace, name string, params, args []string, inherit bool) (*stack.Frame, *evalerr.Error) {
	f, err := c.Stack.PushBundle(namespace, name, params, args, inherit)
	if f != nil && c.Config.FullExpansion {
		c.reExpandBundleVariables(namespace, name)
	}
	return f, err
}

// reExpandBundleVariables implements the re-expansion pass StackPushBundle
// gates on Config.FullExpansion. Unresolved tokens (ResolveVariable returns
// TNone) are left as-is, matching ExpandString's general rule.
func (c *EvalContext) reExpandBundleVariables(namespace, name string) {
	resolve := func(ref string) (string, bool) {
		parsed, perr := variables.ParseReference(ref)
		if perr != nil {
			return "", false
		}
		v, dt := c.ResolveVariable(parsed)
		if dt == values.TNone {
			return "", false
		}
		return v.String(), true
	}
	c.DefVars.ReExpandQualified(namespace, name, func(v values.Value) values.Value {
		return values.ExpandValue(v, resolve)
	})
}

// StackPushBody pushes a body frame and publishes its positional
// arguments; spec §6 names body args but the distilled spec never
// defines body parameter names, so arguments are published as arg1..argN
// the way go-dws's teacher publishes unnamed binder slots.
func (c *EvalContext) StackPushBody(caller, bodyName string, args []string) *stack.Frame {
	f := c.Stack.PushBody()
	for i, a := range args {
		f.BodyVariables.Put(variables.Reference{Name: fmt.Sprintf("arg%d", i+1)}, values.NewString(a), values.TString, nil, "")
	}
	return f
}

func (c *EvalContext) StackPushBundleSection(section string) *stack.Frame {
	return c.Stack.PushBundleSection(section)
}

// PromiseAttrs carries the special this.* variables published on
// promise push (spec §3 "Promise frame").
type PromiseAttrs struct {
	Promiser          string
	Bundle            string
	Handle            string
	PromiseFilename   string
	PromiseDirname    string
	PromiseLineNumber int
	PromiserUID       int
	PromiserGID       int
	PromiserPID       int
	PromiserPPID      int
	With              values.Value // nil if not fully evaluable
}

func (a PromiseAttrs) publish(t *variables.Table) {
	put := func(name string, v values.Value, dt values.DataType) {
		t.Put(variables.Reference{Name: name}, v, dt, nil, "")
	}
	put("promiser", values.NewString(a.Promiser), values.TString)
	put("bundle", values.NewString(a.Bundle), values.TString)
	put("handle", values.NewString(a.Handle), values.TString)
	put("promise_filename", values.NewString(a.PromiseFilename), values.TString)
	put("promise_dirname", values.NewString(a.PromiseDirname), values.TString)
	put("promise_linenumber", values.NewInt(int64(a.PromiseLineNumber)), values.TInt)
	put("promiser_uid", values.NewInt(int64(a.PromiserUID)), values.TInt)
	put("promiser_gid", values.NewInt(int64(a.PromiserGID)), values.TInt)
	put("promiser_pid", values.NewInt(int64(a.PromiserPID)), values.TInt)
	put("promiser_ppid", values.NewInt(int64(a.PromiserPPID)), values.TInt)
	if a.With != nil {
		t.Put(variables.Reference{Name: "with"}, a.With, a.With.DataType(), nil, "")
	}
}

// StackPushPromise pushes a promise frame and publishes its this.*
// special variables (spec §4.5 "On promise push").
func (c *EvalContext) StackPushPromise(handle string, attrs PromiseAttrs) *stack.Frame {
	f := c.Stack.PushPromise(handle)
	attrs.publish(f.PromiseVariables)
	return f
}

// StackPushPromiseIteration pushes a promise-iteration frame. excluded
// communicates that the promise's class context was false at push time
// (spec §4.5); the frame is still pushed so stack discipline is never
// skipped, per DESIGN.md's resolution of that Open Question.
func (c *EvalContext) StackPushPromiseIteration(index int, excluded bool) *stack.Frame {
	return c.Stack.PushPromiseIteration(index, excluded, stack.DefaultMessageRingSize)
}

// StackPop pops the top frame, consuming the per-bundle abort flag if a
// bundle frame was popped (spec §5: "consumed (cleared) when queried";
// spec §4.5: "On pop, the frame's tables are destroyed").
func (c *EvalContext) StackPop() *stack.Frame {
	f := c.Stack.Pop()
	if f.Kind == stack.KindBundle {
		c.Watchlists.ConsumeBundleAborted()
	}
	return f
}

func (c *EvalContext) StackPath() string                 { return c.Stack.Path() }
func (c *EvalContext) StackToString() string             { return c.Stack.String() }
func (c *EvalContext) StackCurrentBundle() *stack.Frame  { return c.Stack.CurrentBundle() }
func (c *EvalContext) StackCurrentPromise() *stack.Frame { return c.Stack.CurrentPromise() }
func (c *EvalContext) StackCurrentMessages() []string    { return c.Stack.CurrentMessages() }

// --- Persistence (spec §6 "Persistence", §4.6) ---

func (c *EvalContext) PersistentSave(name string, ttlMinutes int, policy persist.Policy, tags string) error {
	return c.PersistManager.Save(name, ttlMinutes, policy, tags)
}

func (c *EvalContext) PersistentRemove(name string) error {
	return c.PersistManager.Remove(name)
}

// PersistentLoadAll loads every valid persistent-class record into the
// global class table as a soft, namespace-scoped class tagged
// source=persistent (spec §4.6). Errors are returned for the caller's
// own logging; per spec §7 the caller is expected to treat a failure the
// same as an empty store rather than abort.
func (c *EvalContext) PersistentLoadAll() error {
	loaded, err := c.PersistManager.LoadAll(c.NegatedClasses)
	for _, lc := range loaded {
		cls, inserted := c.GlobalClasses.Put(lc.Namespace, lc.Name, true, classes.ScopeNamespace, lc.Tags, "")
		if inserted {
			c.Watchlists.CheckDefine(cls.Qualified())
		}
	}
	return err
}

// --- Outcome protocol (spec §6 "Outcome protocol", §4.7) ---

func (c *EvalContext) currentClassSink() outcome.ClassSink {
	sink := outcome.ClassSink{Global: c.GlobalClasses}
	if b := c.Stack.CurrentBundle(); b != nil {
		sink.Local = b.LocalClasses
	}
	return sink
}

// Apply runs the full five-step outcome protocol for one promise
// iteration result (spec §4.7).
func (c *EvalContext) Apply(promise outcome.Promise, status outcome.Status) {
	c.Outcome.Apply(promise, status, c.currentClassSink(), func(name string, ttl int, tags []string) {
		c.PersistManager.Save(name, ttl, persist.PolicyPreserve, "")
	})
}

func (c *EvalContext) RecordChange(promise outcome.Promise, format string, args ...any) {
	c.Outcome.RecordChange(promise, c.currentClassSink(), format, args...)
}

func (c *EvalContext) RecordNoChange(promise outcome.Promise, format string, args ...any) {
	c.Outcome.RecordNoChange(promise, c.currentClassSink(), format, args...)
}

func (c *EvalContext) RecordFailure(promise outcome.Promise, format string, args ...any) {
	c.Outcome.RecordFailure(promise, c.currentClassSink(), format, args...)
}

func (c *EvalContext) RecordWarning(promise outcome.Promise, format string, args ...any) {
	c.Outcome.RecordWarning(promise, c.currentClassSink(), format, args...)
}

func (c *EvalContext) RecordDenial(promise outcome.Promise, format string, args ...any) {
	c.Outcome.RecordDenial(promise, c.currentClassSink(), format, args...)
}

func (c *EvalContext) RecordInterruption(promise outcome.Promise, format string, args ...any) {
	c.Outcome.RecordInterruption(promise, c.currentClassSink(), format, args...)
}

// MakingChanges implements the making-changes dry-run gate (spec §4.7):
// false in dry-run or warn-only mode, recording a warn outcome with the
// "should have ..., only warning promised" message via RecordWarning.
func (c *EvalContext) MakingChanges(promise outcome.Promise, action outcome.Action, reason string) bool {
	gate := outcome.Gate{Mode: c.RunMode}
	would, status, msg := gate.WouldMakeChanges(action, reason)
	if !would && status != nil {
		c.RecordWarning(promise, "%s", msg)
	}
	return would
}

func (c *EvalContext) MakingInternalChanges(promise outcome.Promise, action outcome.Action, reason string) bool {
	gate := outcome.Gate{Mode: c.RunMode}
	would, status, msg := gate.WouldMakeInternalChanges(action, reason)
	if !would && status != nil {
		c.RecordWarning(promise, "%s", msg)
	}
	return would
}

// --- Dependencies and locks (spec §6, §4.9) ---

func (c *EvalContext) MissingDependencies(handles []string, scalarOK []bool) bool {
	return c.Handles.MissingDependencies(handles, scalarOK)
}

func (c *EvalContext) PromiseLockCachePut(key string) {
	c.Locks.Put(key)
}

func (c *EvalContext) PromiseLockCacheContains(key string) bool {
	return c.Locks.Contains(key)
}

// --- Function cache (spec §6, §4.8) ---

func (c *EvalContext) FunctionCacheGet(fn string, args []string) (values.Value, bool) {
	if !c.Config.CacheSystemFunctions {
		return nil, false
	}
	return c.FuncCache.Get(funccache.NewKey(fn, args))
}

func (c *EvalContext) FunctionCachePut(fn string, args []string, v values.Value) {
	if !c.Config.CacheSystemFunctions {
		return
	}
	c.FuncCache.Put(funccache.NewKey(fn, args), v)
}
