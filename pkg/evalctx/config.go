package evalctx

import "github.com/caarlos0/env/v6"

// Config is the data half of the teacher's Options/Interpreter split
// (go-dws's internal/interp.Options interface is data, Interpreter is
// the consumer; here Config is data, EvalContext is the consumer). Every
// set-config/set-eval-option knob from spec §6 has a field here, with
// env tags so a process can seed defaults from the environment via
// caarlos0/env/v6 before EvalContext.New applies them.
type Config struct {
	FullExpansion          bool     `env:"EVALCORE_FULL_EXPANSION" envDefault:"true"`
	CacheSystemFunctions   bool     `env:"EVALCORE_CACHE_SYSTEM_FUNCTIONS" envDefault:"true"`
	LaunchDirectory        string   `env:"EVALCORE_LAUNCH_DIRECTORY"`
	EntryPoint             string   `env:"EVALCORE_ENTRY_POINT"`
	IgnoreLocks            bool     `env:"EVALCORE_IGNORE_LOCKS" envDefault:"false"`
	DumpReports            bool     `env:"EVALCORE_DUMP_REPORTS" envDefault:"false"`
	SelectEndMatchEOF      bool     `env:"EVALCORE_SELECT_END_MATCH_EOF" envDefault:"false"`
	RestrictKeys           []string `env:"EVALCORE_RESTRICT_KEYS" envSeparator:","`
	ChecksumUpdatesDefault bool     `env:"EVALCORE_CHECKSUM_UPDATES_DEFAULT" envDefault:"false"`
}

// DefaultConfig returns the baseline configuration spec §5's new()
// describes ("default evaluation options (full expansion, system-function
// caching on)"), without touching the process environment.
func DefaultConfig() Config {
	return Config{FullExpansion: true, CacheSystemFunctions: true}
}

// LoadConfigFromEnv overlays process-environment overrides onto
// DefaultConfig using caarlos0/env/v6, mirroring mna-nenuphar's mainer
// runner's use of the same library for its own CLI configuration.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
