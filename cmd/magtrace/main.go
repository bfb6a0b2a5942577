// Command magtrace dumps a file's Token_Cache check-point trace: every
// (position, tokenizer-state) pair the cache took while tokenizing the
// whole file, plus the resulting token stream. It exists as a
// diagnostic for pkg/tokencache's incremental re-tokenization, grounded
// on the same atomic-write discipline the teacher uses for every
// durable write (github.com/natefinch/atomic), so a trace file is never
// left half-written if the dump is interrupted.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/calvinalkan/mag/internal/editorcfg"
	"github.com/calvinalkan/mag/pkg/buffer"
	"github.com/calvinalkan/mag/pkg/content"
)

func main() {
	language := flag.String("language", "", "tokenizer language: cpp, markdown, buffer-name")
	interval := flag.Int("interval", 0, "check-point interval in bytes (default: mode's configured interval)")
	out := flag.String("out", "", "write the trace to this file instead of stdout")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: magtrace [--language L] [--interval N] [--out FILE] <file>")
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *language, *interval, *out); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(path, language string, interval int, out string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	cfg := editorcfg.Config{Language: language, CheckPointInterval: interval}

	mode, err := editorcfg.ResolveMode(cfg, nil)
	if err != nil {
		return err
	}

	buf, err := buffer.New(path, content.NewFromBytes(data, content.DefaultBucketCapacity), mode)
	if err != nil {
		return err
	}

	if err := buf.Retokenize(); err != nil {
		return err
	}

	trace := formatTrace(buf)

	if out == "" {
		fmt.Print(trace)

		return nil
	}

	return atomic.WriteFile(out, strings.NewReader(trace))
}

func formatTrace(buf *buffer.Buffer) string {
	var b strings.Builder

	cache := buf.TokenCache()

	fmt.Fprintf(&b, "# %d bytes, ran to %d\n", buf.Contents().Len(), cache.RanTo())

	for _, cp := range cache.CheckPoints() {
		fmt.Fprintf(&b, "checkpoint\t%d\t%#x\n", cp.Position, cp.State)
	}

	pos := 0
	for pos < buf.Contents().Len() {
		tok, ok, err := cache.GetTokenAt(buf.Contents(), buf.Log(), pos)
		if err != nil || !ok {
			break
		}

		fmt.Fprintf(&b, "token\t%d\t%d\t%#x\n", tok.Start, tok.End, uint64(tok.Type))

		if tok.End <= pos {
			break
		}

		pos = tok.End
	}

	return b.String()
}
