package core

import (
	"go.uber.org/zap"
)

// Rewriter maps a normalized URL to a site-specific canonical URL. ok is false
// when no rule applies.
type Rewriter interface {
	Rewrite(normalized string) (rewritten string, ok bool, err error)
}

// Pipeline chains normalization, an optional rewrite and signing. The zero
// value normalizes and signs without rewriting and without logging.
type Pipeline struct {
	Rewriter Rewriter
	Logger   *zap.Logger
}

func NewPipeline(rw Rewriter, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{Rewriter: rw, Logger: log}
}

func (p *Pipeline) log() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

// Canonical normalizes raw and, when a rewriter is set, applies it.
func (p *Pipeline) Canonical(raw string) (string, error) {
	normalized, err := NormalizeURL(raw)
	if err != nil {
		p.log().Debug("normalize failed", zap.String("url", raw), zap.Error(err))
		return "", err
	}
	if p.Rewriter == nil {
		return normalized, nil
	}
	rewritten, ok, err := p.Rewriter.Rewrite(normalized)
	if err != nil {
		p.log().Warn("rewrite failed", zap.String("url", normalized), zap.Error(err))
		return "", err
	}
	if !ok {
		p.log().Debug("no rule matched", zap.String("url", normalized))
		return normalized, nil
	}
	p.log().Debug("rule applied", zap.String("url", normalized), zap.String("canonical", rewritten))
	return rewritten, nil
}

// Sign returns the signature of the canonical form of raw.
func (p *Pipeline) Sign(raw string) (string, error) {
	canonical, err := p.Canonical(raw)
	if err != nil {
		return "", err
	}
	return Sign(canonical), nil
}

func (p *Pipeline) Process(raw string, mode Mode) (string, error) {
	if mode == ModeSign {
		return p.Sign(raw)
	}
	return p.Canonical(raw)
}

// Batch processes inputs in order, emitting each distinct output once.
func (p *Pipeline) Batch(inputs []string, mode Mode) []Result {
	seen := make(map[string]struct{}, len(inputs))
	results := make([]Result, 0, len(inputs))
	for _, in := range inputs {
		out, err := p.Process(in, mode)
		if err != nil {
			results = append(results, Result{Input: in, Code: CodeOf(err), Err: err.Error()})
			continue
		}
		if _, dup := seen[out]; dup {
			continue
		}
		seen[out] = struct{}{}
		results = append(results, Result{Input: in, Output: out, Code: CodeOK})
	}
	return results
}
