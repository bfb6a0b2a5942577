// Command magcore is a non-interactive demonstration CLI over the mag
// editor core: it loads a file into a Buffer, applies a small edit
// script, and reports the result, so the core's Transaction/Commit,
// token cache, and search primitives can be exercised by hand without
// a full terminal frontend.
//
// Grounded on cmd/tk/main.go's entry-point shape (flatten os.Environ
// into a map, delegate to a Run function that returns an exit code).
package main

import (
	"os"
	"strings"

	"github.com/calvinalkan/mag/internal/magcli"
)

func main() {
	environ := os.Environ()
	env := make(map[string]string, len(environ))

	for _, e := range environ {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}

	os.Exit(magcli.Run(os.Stdout, os.Stderr, os.Args, env))
}
