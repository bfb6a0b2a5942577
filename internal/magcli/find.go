package magcli

import (
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/mag/internal/editorcfg"
	"github.com/calvinalkan/mag/pkg/search"
)

// findCommand reports every non-overlapping forward match of a query in
// a file, under the Mode's configured search case policy (or an
// explicit --case override).
func findCommand(cfg editorcfg.Config) *Command {
	flags := flag.NewFlagSet("find", flag.ContinueOnError)
	caseFlag := flags.String("case", "", "case handling: sensitive, insensitive, uppercase_sticky, smart (default: mode's configured policy)")

	return &Command{
		Flags: flags,
		Usage: "find <file> <query>",
		Short: "print every match of query in file",
		Exec: func(o *IO, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("find: expected <file> and <query>")
			}

			buf, err := loadBuffer(args[0], cfg)
			if err != nil {
				return err
			}

			handling := buf.Mode().SearchPromptCaseHandling

			if *caseFlag != "" {
				handling, err = parseCaseHandling(*caseFlag)
				if err != nil {
					return err
				}
			}

			query := []byte(args[1])

			it, err := buf.Contents().IteratorAt(0)
			if err != nil {
				return err
			}

			count := 0
			step := len(query)

			if step == 0 {
				step = 1
			}

			for {
				found, err := search.FindCased(&it, query, handling)
				if err != nil {
					return err
				}

				if !found {
					break
				}

				o.Printf("match @%d\n", it.Position())
				count++

				if it.Position()+step > it.Len() {
					break
				}

				if err := it.AdvanceN(step); err != nil {
					return err
				}
			}

			if count == 0 {
				o.Warn("no matches found")
			}

			return nil
		},
	}
}

func parseCaseHandling(name string) (search.CaseHandling, error) {
	switch name {
	case "sensitive":
		return search.CaseSensitive, nil
	case "insensitive":
		return search.CaseInsensitive, nil
	case "uppercase_sticky":
		return search.UppercaseSticky, nil
	case "smart":
		return search.SmartCase, nil
	default:
		return 0, fmt.Errorf("unknown case handling %q", name)
	}
}
