// Command staticlint is the project's multichecker.
//
// It combines:
//
//	the standard golang.org/x/tools/go/analysis/passes analyzers;
//	every SA analyzer of staticcheck.io plus the S, ST and QF checks named in config.json;
//	public analyzers: bodyclose, errcheck and go-critic;
//	envelopecheck, which keeps handlers answering with JSON envelopes.
//
// config.json is read from the directory of the executable. When it is
// missing the default staticcheck selection is used.
//
// Usage:
//
//	go build -o cmd/staticlint/staticlint ./cmd/staticlint
//	cmd/staticlint/staticlint ./...
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-critic/go-critic/checkers/analyzer"
	"github.com/kisielk/errcheck/errcheck"
	"github.com/timakin/bodyclose/passes/bodyclose"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/appends"
	"golang.org/x/tools/go/analysis/passes/assign"
	"golang.org/x/tools/go/analysis/passes/atomic"
	"golang.org/x/tools/go/analysis/passes/bools"
	"golang.org/x/tools/go/analysis/passes/composite"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/deepequalerrors"
	"golang.org/x/tools/go/analysis/passes/defers"
	"golang.org/x/tools/go/analysis/passes/directive"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/ifaceassert"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilfunc"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/shift"
	"golang.org/x/tools/go/analysis/passes/sigchanyzer"
	"golang.org/x/tools/go/analysis/passes/sortslice"
	"golang.org/x/tools/go/analysis/passes/stdmethods"
	"golang.org/x/tools/go/analysis/passes/stringintconv"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/testinggoroutine"
	"golang.org/x/tools/go/analysis/passes/tests"
	"golang.org/x/tools/go/analysis/passes/timeformat"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"golang.org/x/tools/go/analysis/passes/unusedresult"
	"golang.org/x/tools/go/analysis/passes/waitgroup"
	"honnef.co/go/tools/analysis/lint"
	"honnef.co/go/tools/quickfix"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"
)

// Config is the name of the file that selects the non-SA staticcheck checks.
const Config = `config.json`

// ConfigData - contents of config.json.
type ConfigData struct {
	Staticcheck []string `json:"staticcheck"`
}

var defaultConfig = ConfigData{
	Staticcheck: []string{"ST1000", "ST1005", "ST1013", "ST1020", "S1008", "S1021", "QF1003"},
}

func passesChecks() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		appends.Analyzer,
		assign.Analyzer,
		atomic.Analyzer,
		bools.Analyzer,
		composite.Analyzer,
		copylock.Analyzer,
		deepequalerrors.Analyzer,
		defers.Analyzer,
		directive.Analyzer,
		errorsas.Analyzer,
		httpresponse.Analyzer,
		ifaceassert.Analyzer,
		loopclosure.Analyzer,
		lostcancel.Analyzer,
		nilfunc.Analyzer,
		printf.Analyzer,
		shadow.Analyzer,
		shift.Analyzer,
		sigchanyzer.Analyzer,
		sortslice.Analyzer,
		stdmethods.Analyzer,
		stringintconv.Analyzer,
		structtag.Analyzer,
		testinggoroutine.Analyzer,
		tests.Analyzer,
		timeformat.Analyzer,
		unmarshal.Analyzer,
		unreachable.Analyzer,
		unusedresult.Analyzer,
		waitgroup.Analyzer,
	}
}

// staticcheckChecks keeps every SA analyzer and the ones named in checks.
func staticcheckChecks(checks map[string]bool) []*analysis.Analyzer {
	var out []*analysis.Analyzer
	for _, set := range [][]*lint.Analyzer{
		staticcheck.Analyzers,
		stylecheck.Analyzers,
		simple.Analyzers,
		quickfix.Analyzers,
	} {
		for _, v := range set {
			if strings.HasPrefix(v.Analyzer.Name, "SA") || checks[v.Analyzer.Name] {
				out = append(out, v.Analyzer)
			}
		}
	}
	return out
}

func publicChecks() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		bodyclose.Analyzer,
		errcheck.Analyzer,
		analyzer.Analyzer,
	}
}

// analyzers builds the full analyzer list for cfg.
func analyzers(cfg ConfigData) []*analysis.Analyzer {
	checks := make(map[string]bool, len(cfg.Staticcheck))
	for _, v := range cfg.Staticcheck {
		checks[v] = true
	}

	var out []*analysis.Analyzer
	out = append(out, passesChecks()...)
	out = append(out, staticcheckChecks(checks)...)
	out = append(out, publicChecks()...)
	out = append(out, EnvelopeCheckAnalyzer)
	return out
}

// readConfig loads config.json from dir, falling back to defaultConfig when
// the file does not exist.
func readConfig(dir string) (ConfigData, error) {
	data, err := os.ReadFile(filepath.Join(dir, Config))
	if errors.Is(err, fs.ErrNotExist) {
		return defaultConfig, nil
	}
	if err != nil {
		return ConfigData{}, err
	}

	var cfg ConfigData
	if err := json.Unmarshal(data, &cfg); err != nil {
		return ConfigData{}, fmt.Errorf("parse %s: %w", Config, err)
	}
	return cfg, nil
}

func main() {
	appfile, err := os.Executable()
	if err != nil {
		fmt.Fprintln(os.Stderr, "staticlint:", err)
		return
	}
	cfg, err := readConfig(filepath.Dir(appfile))
	if err != nil {
		fmt.Fprintln(os.Stderr, "staticlint:", err)
		return
	}

	multichecker.Main(analyzers(cfg)...)
}
