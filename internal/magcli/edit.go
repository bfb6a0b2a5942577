package magcli

import (
	"fmt"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/mag/internal/editorcfg"
	"github.com/calvinalkan/mag/pkg/buffer"
	"github.com/calvinalkan/mag/pkg/edit"
	"github.com/calvinalkan/mag/pkg/ssostr"
)

// editCommand applies a small scripted Transaction to a file (repeated
// --insert pos:text and --remove pos:count flags, applied in the order
// given), then demonstrates the resulting content plus one undo/redo
// round trip.
func editCommand(cfg editorcfg.Config) *Command {
	flags := flag.NewFlagSet("edit", flag.ContinueOnError)
	inserts := flags.StringArray("insert", nil, "insert `pos:text` (repeatable)")
	removes := flags.StringArray("remove", nil, "remove `pos:count` bytes (repeatable)")
	tag := flags.String("tag", "", "commit tag, for merging with an adjacent same-tag edit")

	return &Command{
		Flags: flags,
		Usage: "edit <file> [--insert pos:text]... [--remove pos:count]...",
		Short: "apply a scripted transaction and show the undo/redo round trip",
		Exec: func(o *IO, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("edit: expected exactly one file argument")
			}

			buf, err := loadBuffer(args[0], cfg)
			if err != nil {
				return err
			}

			tx := edit.NewTransaction()

			for _, spec := range *inserts {
				pos, text, err := splitPosSpec(spec)
				if err != nil {
					return fmt.Errorf("--insert %s: %w", spec, err)
				}

				tx.Push(edit.Edit{Value: ssostr.FromConstant([]byte(text)), Position: pos})
			}

			for _, spec := range *removes {
				pos, countStr, err := splitPosSpec(spec)
				if err != nil {
					return fmt.Errorf("--remove %s: %w", spec, err)
				}

				count, err := strconv.Atoi(countStr)
				if err != nil {
					return fmt.Errorf("--remove %s: invalid count: %w", spec, err)
				}

				removed, err := buf.Contents().Slice(pos, pos+count)
				if err != nil {
					return fmt.Errorf("--remove %s: %w", spec, err)
				}

				tx.Push(edit.Edit{
					Value:    ssostr.FromConstant([]byte(removed.AsString())),
					Position: pos,
					Flags:    edit.DirectionRemove,
				})
			}

			if tx.Len() == 0 {
				o.Warn("no --insert or --remove given; nothing to do")
			}

			if _, err := tx.Commit(buf.Contents(), buf.Log(), *tag); err != nil {
				return fmt.Errorf("commit: %w", err)
			}

			if err := printContents(o, buf); err != nil {
				return err
			}

			if undone, err := buf.Log().Undo(buf.Contents()); err != nil {
				return fmt.Errorf("undo: %w", err)
			} else if undone {
				o.Println("--- after undo ---")

				if err := printContents(o, buf); err != nil {
					return err
				}
			}

			if redone, err := buf.Log().Redo(buf.Contents()); err != nil {
				return fmt.Errorf("redo: %w", err)
			} else if redone {
				o.Println("--- after redo ---")

				if err := printContents(o, buf); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func printContents(o *IO, buf *buffer.Buffer) error {
	s, err := buf.Contents().Slice(0, buf.Contents().Len())
	if err != nil {
		return err
	}

	o.Printf("%s\n", s.AsString())

	return nil
}

func splitPosSpec(spec string) (int, string, error) {
	posStr, rest, ok := strings.Cut(spec, ":")
	if !ok {
		return 0, "", fmt.Errorf("expected pos:value")
	}

	pos, err := strconv.Atoi(posStr)
	if err != nil {
		return 0, "", fmt.Errorf("invalid position: %w", err)
	}

	return pos, rest, nil
}
