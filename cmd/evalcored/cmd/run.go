package cmd

import (
	"fmt"
	"os"

	"github.com/evalcore/agent/internal/abort"
	"github.com/evalcore/agent/internal/classes"
	"github.com/evalcore/agent/internal/outcome"
	"github.com/evalcore/agent/internal/persist"
	"github.com/evalcore/agent/pkg/evalctx"
	"github.com/spf13/cobra"
)

var (
	policyPath  string
	dryRun      bool
	dumpReports string
)

var runCmd = &cobra.Command{
	Use:   "run [policy.yaml]",
	Short: "Evaluate a sample policy against the evaluation core",
	Long: `Push one bundle/promise frame per policy entry onto the EvalContext
stack, apply the outcome protocol for each, and report the resulting
class table.

Examples:
  # Run the built-in sample policy
  evalcored run

  # Run a policy file in dry-run mode, writing a JSON report
  evalcored run policy.yaml --dry-run --dump-reports report.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPolicy,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "evaluate in dry-run mode (no promise is actually kept as enforced)")
	runCmd.Flags().StringVar(&dumpReports, "dump-reports", "", "write a JSON report of every promise outcome to this path")
}

func runPolicy(_ *cobra.Command, args []string) error {
	if len(args) == 1 {
		policyPath = args[0]
	}
	pf, err := loadPolicy(policyPath)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := evalctx.New(evalctx.DefaultConfig(), store)
	if dryRun {
		ctx.RunMode = outcome.ModeDryRun
	}
	if err := ctx.PersistentLoadAll(); err != nil && verbose {
		fmt.Fprintf(os.Stderr, "warning: persistent-class load: %v\n", err)
	}

	if len(pf.AbortClasses) > 0 {
		entries := make([]abort.Entry, len(pf.AbortClasses))
		for i, a := range pf.AbortClasses {
			entries[i] = abort.Entry{ClassExpr: a.ClassExpr, ActivatedOn: a.ActivatedOn}
		}
		if err := ctx.AbortWatchlistRegisterBulk(entries); err != nil && verbose {
			fmt.Fprintf(os.Stderr, "warning: abort-class registration: %v\n", err)
		}
		if ctx.IsEvalAborted() {
			return fmt.Errorf("evaluation aborted: an abort-class expression already matched at startup")
		}
	}

	report := newReportSink()

	for _, b := range pf.Bundles {
		if err := evalBundle(ctx, b, report); err != nil {
			return err
		}
	}

	printClassReport(ctx)

	if dumpReports != "" {
		if err := report.writeJSON(dumpReports); err != nil {
			return fmt.Errorf("dump reports: %w", err)
		}
		fmt.Printf("\nWrote outcome report to %s\n", dumpReports)
	}
	return nil
}

func openStore() (persist.Store, func(), error) {
	if storePath == "" {
		s := persist.NewMemoryStore()
		return s, func() {}, nil
	}
	s, err := persist.OpenBoltStore(storePath)
	if err != nil {
		return nil, nil, err
	}
	return s, func() { s.Close() }, nil
}

func evalBundle(ctx *evalctx.EvalContext, b bundleSpec, report *reportSink) error {
	if _, err := ctx.StackPushBundle(b.Namespace, b.Name, nil, nil, false); err != nil {
		return fmt.Errorf("push bundle %s: %w", b.Name, err)
	}
	defer ctx.StackPop()

	ctx.StackPushBundleSection("methods")
	defer ctx.StackPop()

	for _, p := range b.Promises {
		evalPromise(ctx, b, p, report)
	}
	return nil
}

func evalPromise(ctx *evalctx.EvalContext, b bundleSpec, p promiseSpec, report *reportSink) {
	action := outcome.ActionFix
	if p.Action == "warn" {
		action = outcome.ActionWarn
	}

	ctx.StackPushPromise(p.Handle, evalctx.PromiseAttrs{
		Promiser: p.Promiser,
		Bundle:   b.Name,
		Handle:   p.Handle,
	})
	defer ctx.StackPop()

	frame := ctx.StackPushPromiseIteration(0, false)
	defer ctx.StackPop()

	promise := outcome.Promise{
		Type:      outcome.PromiseType(p.Type),
		Handle:    p.Handle,
		Namespace: b.Namespace,
		Classes: outcome.ClassActions{
			Repaired: nonEmpty(p.RepairedClass),
		},
		PersistTTL: p.PersistTTL,
	}

	status := outcome.NoOp
	if ctx.MakingChanges(promise, action, fmt.Sprintf("edit %s", p.Promiser)) {
		status = outcome.Change
		frame.PushMessage(fmt.Sprintf("repaired %s", p.Promiser))
	}
	ctx.Apply(promise, status)

	report.record(b.Name, p.Handle, p.Promiser, status)
	if verbose {
		fmt.Printf("%s/%s: %s -> %s\n", b.Name, p.Handle, p.Promiser, status)
	}
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

func printClassReport(ctx *evalctx.EvalContext) {
	fmt.Println("\nGlobal classes:")
	for _, cls := range ctx.ClassIteratorGlobal(classes.Filter{}) {
		fmt.Printf("  %s (soft=%v, scope=%s)\n", cls.Qualified(), cls.Soft, cls.Scope)
	}
}
