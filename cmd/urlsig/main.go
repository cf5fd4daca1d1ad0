package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/okpulse/urlsig/internal/config"
	"github.com/okpulse/urlsig/internal/core"
	"github.com/okpulse/urlsig/internal/logging"
	"github.com/okpulse/urlsig/internal/rules"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	url        string
	sign       bool
	rules      string
	checkRules bool
	stdin      bool
	html       string
	logLevel   string
}

func run(args []string, in io.Reader, out, errOut io.Writer) int {
	var opt options
	fs := flag.NewFlagSet("urlsig", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&opt.url, "url", "", "URL to canonicalize (required; base URL with --html)")
	fs.BoolVar(&opt.sign, "sign", false, "print the SHA-256 signature instead of the canonical URL")
	fs.StringVar(&opt.rules, "rules", "", `site rules YAML file, or "default" for the built-in set (env URLSIG_RULES)`)
	fs.BoolVar(&opt.checkRules, "check-rules", false, "run the test cases of the rule set and exit")
	fs.BoolVar(&opt.stdin, "stdin", false, "read one URL per line from stdin, answer one line each")
	fs.StringVar(&opt.html, "html", "", "HTML file whose links are canonicalized, resolved against --url")
	fs.StringVar(&opt.logLevel, "log-level", "", "log level override (env URLSIG_LOG_LEVEL)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(errOut, "unknown argument: %s\n", fs.Arg(0))
		fs.Usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if opt.logLevel != "" {
		cfg.LogLevel = opt.logLevel
	}
	if opt.rules != "" {
		cfg.RulesPath = opt.rules
	}
	log, err := logging.New(loggerConfig(cfg, errOut))
	if err != nil {
		fmt.Fprintf(errOut, "logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	set, err := loadRules(cfg.RulesPath, opt.checkRules)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	p := core.NewPipeline(nil, log)
	if set != nil {
		p.Rewriter = set
		log.Debug("rules loaded", zap.String("source", cfg.RulesPath), zap.Int("sites", len(set.Sites)))
	}

	mode := core.ModeNormalize
	if opt.sign {
		mode = core.ModeSign
	}

	switch {
	case opt.checkRules:
		return checkRules(set, out, errOut)
	case opt.stdin:
		return stream(p, in, out, errOut, mode, cfg.MaxLine)
	case opt.url == "":
		fmt.Fprintln(errOut, "--url is required")
		fs.Usage()
		return 2
	case opt.html != "":
		return links(p, opt.url, opt.html, out, errOut, mode)
	}

	result, err := p.Process(opt.url, mode)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, result)
	return 0
}

func loggerConfig(cfg *config.Config, errOut io.Writer) logging.Config {
	lc := logging.DefaultConfig()
	if cfg.LogDev {
		lc = logging.DevelopmentConfig()
	}
	if cfg.LogLevel != "" {
		lc.Level = cfg.LogLevel
	}
	lc.File = cfg.LogFile
	lc.Output = errOut
	return lc
}

// loadRules resolves the rule source. The built-in set is used when asked for
// by name, or when checking rules without an explicit source.
func loadRules(source string, fallbackDefault bool) (*rules.Set, error) {
	switch {
	case source == "default", source == "" && fallbackDefault:
		return rules.Default()
	case source == "":
		return nil, nil
	default:
		return rules.Load(source)
	}
}

func checkRules(set *rules.Set, out, errOut io.Writer) int {
	failures := set.Verify()
	for _, f := range failures {
		fmt.Fprintln(errOut, "FAIL", f)
	}
	total := set.Count()
	fmt.Fprintf(out, "%d/%d rule tests passed\n", total-len(failures), total)
	if len(failures) > 0 {
		return 1
	}
	return 0
}

func stream(p *core.Pipeline, in io.Reader, out, errOut io.Writer, mode core.Mode, maxLine int) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := p.Stream(ctx, in, out, mode, maxLine)
	p.Logger.Info("stream finished", zap.Int("lines", st.Lines), zap.Int("failed", st.Failed))
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 1
	}
	return 0
}

func links(p *core.Pipeline, rawBase, path string, out, errOut io.Writer, mode core.Mode) int {
	if _, err := core.NormalizeURL(rawBase); err != nil {
		fmt.Fprintf(errOut, "error: base URL: %v\n", err)
		return 1
	}
	base, err := url.Parse(rawBase)
	if err != nil {
		fmt.Fprintf(errOut, "error: base URL: %v\n", err)
		return 1
	}
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 1
	}
	defer f.Close()

	found, err := core.ExtractLinks(f, base)
	if err != nil {
		fmt.Fprintf(errOut, "error: parsing %s: %v\n", path, err)
		return 1
	}
	inputs := make([]string, 0, len(found))
	for _, u := range found {
		inputs = append(inputs, u.String())
	}
	for _, r := range p.Batch(inputs, mode) {
		if !r.OK() {
			p.Logger.Warn("link skipped", zap.String("url", r.Input), zap.String("error", r.Err))
			continue
		}
		fmt.Fprintln(out, r.Output)
	}
	return 0
}
