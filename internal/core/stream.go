package core

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// DefaultMaxLine bounds a single input line in Stream.
const DefaultMaxLine = 64 * 1024

// Stream reads one URL per line from r and writes exactly one line per input
// to w: the result, or "error: <reason>". Output is flushed after every line so
// a host driving the process over pipes can read answers as they come.
//
// When ctx is canceled and r is an io.Closer, r is closed so that a read
// blocked on a quiet pipe returns. Stream then reports ctx.Err().
func (p *Pipeline) Stream(ctx context.Context, r io.Reader, w io.Writer, mode Mode, maxLine int) (Stats, error) {
	if maxLine <= 0 {
		maxLine = DefaultMaxLine
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, min(4096, maxLine)), maxLine)
	bw := bufio.NewWriter(w)

	if c, ok := r.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() { _ = c.Close() })
		defer stop()
	}

	var st Stats
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		st.Lines++
		line := strings.TrimSpace(sc.Text())
		out, err := p.Process(line, mode)
		if err != nil {
			st.Failed++
			p.log().Info("line rejected", zap.Int("line", st.Lines), zap.Stringer("code", CodeOf(err)))
			out = "error: " + err.Error()
		}
		if _, err := fmt.Fprintln(bw, out); err != nil {
			return st, err
		}
		if err := bw.Flush(); err != nil {
			return st, err
		}
	}
	if err := ctx.Err(); err != nil {
		return st, err
	}
	if err := sc.Err(); err != nil {
		return st, fmt.Errorf("read line %d: %w", st.Lines+1, err)
	}
	return st, nil
}
