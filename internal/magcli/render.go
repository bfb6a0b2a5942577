package magcli

import (
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/mag/internal/editorcfg"
)

// renderCommand tokenizes a file under cfg's resolved Mode and prints
// one line per token: its byte range and its Type.
func renderCommand(cfg editorcfg.Config) *Command {
	flags := flag.NewFlagSet("render", flag.ContinueOnError)

	return &Command{
		Flags: flags,
		Usage: "render <file>",
		Short: "tokenize a file and print its token stream",
		Exec: func(o *IO, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("render: expected exactly one file argument")
			}

			buf, err := loadBuffer(args[0], cfg)
			if err != nil {
				return err
			}

			if err := buf.Retokenize(); err != nil {
				return err
			}

			cache := buf.TokenCache()

			for _, cp := range cache.CheckPoints() {
				o.Printf("checkpoint @%d state=%#x\n", cp.Position, cp.State)
			}

			pos := 0
			for pos < buf.Contents().Len() {
				tok, ok, err := cache.GetTokenAt(buf.Contents(), buf.Log(), pos)
				if err != nil {
					return err
				}

				if !ok {
					break
				}

				o.Printf("token [%d,%d) type=%#x\n", tok.Start, tok.End, uint64(tok.Type))

				if tok.End <= pos {
					break
				}

				pos = tok.End
			}

			return nil
		},
	}
}
