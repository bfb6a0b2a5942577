// Command magrepl is an interactive line-editor REPL over one mag
// Buffer: type a command per line to insert, remove, search, undo/redo,
// or ask for identifier completions against the buffer's own text. It
// exists to exercise pkg/buffer, pkg/edit, pkg/search, and
// pkg/completion end to end from a terminal; the completion prompt UI
// itself stays out of scope.
//
// Grounded on github.com/peterh/liner's line-reading + tab-completion
// API, which nothing in the teacher's own cmd/ uses but which the
// corpus makes available for exactly this kind of interactive tool.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/calvinalkan/mag/internal/editorcfg"
	"github.com/calvinalkan/mag/pkg/buffer"
	"github.com/calvinalkan/mag/pkg/completion"
	"github.com/calvinalkan/mag/pkg/content"
	"github.com/calvinalkan/mag/pkg/edit"
	"github.com/calvinalkan/mag/pkg/search"
	"github.com/calvinalkan/mag/pkg/ssostr"
)

const helpText = `commands:
  :insert <pos> <text...>   insert text at pos
  :remove <pos> <count>     remove count bytes starting at pos
  :undo                     undo the last commit
  :redo                     redo the last undone commit
  :find <query>             print every match of query
  :complete <prefix>        list identifiers starting with prefix
  :print                    print the current buffer content
  :quit                     exit
`

func main() {
	path := ""
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	buf, err := openBuffer(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	line := liner.NewLiner()
	defer line.Close()

	line.SetCompleter(func(prefix string) []string {
		ids, err := completion.AllIdentifiersStartingWith(buf.Contents(), prefix)
		if err != nil {
			return nil
		}

		return ids
	})

	fmt.Print(helpText)

	for {
		input, err := line.Prompt("mag> ")
		if err != nil {
			break
		}

		line.AppendHistory(input)

		if strings.TrimSpace(input) == "" {
			continue
		}

		if err := dispatch(buf, input); err != nil {
			if isQuit(err) {
				break
			}

			fmt.Fprintln(os.Stderr, "error:", err)
		}
	}
}

type quitErr struct{}

func (quitErr) Error() string { return "quit" }

func isQuit(err error) bool {
	_, ok := err.(quitErr)

	return ok
}

func openBuffer(path string) (*buffer.Buffer, error) {
	var data []byte

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		data = b
	}

	cfg, err := editorcfg.LoadConfig(editorcfg.LoadConfigInput{Env: envMap()})
	if err != nil {
		return nil, err
	}

	mode, err := editorcfg.ResolveMode(cfg, nil)
	if err != nil {
		return nil, err
	}

	name := path
	if name == "" {
		name = "scratch"
	}

	return buffer.New(name, content.NewFromBytes(data, content.DefaultBucketCapacity), mode)
}

func envMap() map[string]string {
	environ := os.Environ()
	env := make(map[string]string, len(environ))

	for _, e := range environ {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}

	return env
}

func dispatch(buf *buffer.Buffer, input string) error {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(input), " ")

	switch cmd {
	case ":quit":
		return quitErr{}
	case ":print":
		s, err := buf.Contents().Slice(0, buf.Contents().Len())
		if err != nil {
			return err
		}

		fmt.Println(s.AsString())
	case ":undo":
		ok, err := buf.Log().Undo(buf.Contents())
		if err != nil {
			return err
		}

		if !ok {
			fmt.Println("nothing to undo")
		}
	case ":redo":
		ok, err := buf.Log().Redo(buf.Contents())
		if err != nil {
			return err
		}

		if !ok {
			fmt.Println("nothing to redo")
		}
	case ":insert":
		return cmdInsert(buf, rest)
	case ":remove":
		return cmdRemove(buf, rest)
	case ":find":
		return cmdFind(buf, rest)
	case ":complete":
		return cmdComplete(buf, rest)
	default:
		fmt.Print(helpText)
	}

	return nil
}

func cmdInsert(buf *buffer.Buffer, rest string) error {
	posStr, text, ok := strings.Cut(rest, " ")
	if !ok {
		return fmt.Errorf("usage: :insert <pos> <text...>")
	}

	pos, err := strconv.Atoi(posStr)
	if err != nil {
		return fmt.Errorf("invalid position: %w", err)
	}

	tx := edit.NewTransaction()
	tx.Push(edit.Edit{Value: ssostr.FromConstant([]byte(text)), Position: pos})

	_, err = tx.Commit(buf.Contents(), buf.Log(), "")

	return err
}

func cmdRemove(buf *buffer.Buffer, rest string) error {
	fields := strings.Fields(rest)
	if len(fields) != 2 {
		return fmt.Errorf("usage: :remove <pos> <count>")
	}

	pos, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("invalid position: %w", err)
	}

	count, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("invalid count: %w", err)
	}

	removed, err := buf.Contents().Slice(pos, pos+count)
	if err != nil {
		return err
	}

	tx := edit.NewTransaction()
	tx.Push(edit.Edit{
		Value:    ssostr.FromConstant([]byte(removed.AsString())),
		Position: pos,
		Flags:    edit.DirectionRemove,
	})

	_, err = tx.Commit(buf.Contents(), buf.Log(), "")

	return err
}

func cmdFind(buf *buffer.Buffer, query string) error {
	if query == "" {
		return fmt.Errorf("usage: :find <query>")
	}

	it, err := buf.Contents().IteratorAt(0)
	if err != nil {
		return err
	}

	handling := buf.Mode().SearchPromptCaseHandling

	found := 0

	for {
		ok, err := search.FindCased(&it, []byte(query), handling)
		if err != nil {
			return err
		}

		if !ok {
			break
		}

		fmt.Printf("match @%d\n", it.Position())
		found++

		if it.Position()+len(query) > it.Len() {
			break
		}

		if err := it.AdvanceN(len(query)); err != nil {
			return err
		}
	}

	if found == 0 {
		fmt.Println("no matches")
	}

	return nil
}

func cmdComplete(buf *buffer.Buffer, prefix string) error {
	if prefix == "" {
		return fmt.Errorf("usage: :complete <prefix>")
	}

	ids, err := completion.AllIdentifiersStartingWith(buf.Contents(), prefix)
	if err != nil {
		return err
	}

	if len(ids) == 0 {
		fmt.Println("no matches")

		return nil
	}

	for _, id := range ids {
		fmt.Println(id)
	}

	return nil
}
