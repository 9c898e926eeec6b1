package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// promiseSpec and bundleSpec describe a sample policy loaded from YAML,
// the demo CLI's stand-in for the policy surface grammar that spec.md
// §1 names as out of scope ("not a parser... does not define the policy
// surface grammar").
type promiseSpec struct {
	Handle        string `yaml:"handle"`
	Promiser      string `yaml:"promiser"`
	Type          string `yaml:"type"`
	Action        string `yaml:"action"` // "fix" or "warn"
	RepairedClass string `yaml:"repaired_class"`
	PersistTTL    int    `yaml:"persist_ttl"`
}

type bundleSpec struct {
	Namespace string        `yaml:"namespace"`
	Name      string        `yaml:"name"`
	Promises  []promiseSpec `yaml:"promises"`
}

// abortClassSpec is one entry of a policy's startup abort-class list
// (spec §4.9 "Abort watchlists"): a class expression which, once true,
// aborts the whole evaluation.
type abortClassSpec struct {
	ClassExpr   string `yaml:"class_expr"`
	ActivatedOn string `yaml:"activated_on"`
}

type policyFile struct {
	Bundles      []bundleSpec     `yaml:"bundles"`
	AbortClasses []abortClassSpec `yaml:"abort_classes"`
}

// samplePolicy is used when the run command is invoked without a
// policy file argument, mirroring go-dws run's "-e" inline-expression
// fallback with a canned example instead of requiring a script on disk.
var samplePolicy = policyFile{
	Bundles: []bundleSpec{
		{
			Namespace: "default",
			Name:      "update_motd",
			Promises: []promiseSpec{
				{Handle: "motd", Promiser: "/etc/motd", Type: "files", Action: "fix", RepairedClass: "motd_updated", PersistTTL: 60},
			},
		},
	},
}

func loadPolicy(path string) (policyFile, error) {
	if path == "" {
		return samplePolicy, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return policyFile{}, fmt.Errorf("read policy %s: %w", path, err)
	}
	var pf policyFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return policyFile{}, fmt.Errorf("parse policy %s: %w", path, err)
	}
	return pf, nil
}
