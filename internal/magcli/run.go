package magcli

import (
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/mag/internal/editorcfg"
	"github.com/calvinalkan/mag/pkg/buffer"
	"github.com/calvinalkan/mag/pkg/content"
)

// Run is magcore's entry point, grounded on internal/cli/run.go's
// Run(args, env) shape: a global flag set for cross-command options
// (--cwd, --config, --language), then dispatch to one of the
// subcommands below.
func Run(out, errOut io.Writer, args []string, env map[string]string) int {
	globalFlags := flag.NewFlagSet("magcore", flag.ContinueOnError)
	globalFlags.SetInterspersed(false)
	globalFlags.Usage = func() {}
	globalFlags.SetOutput(&strings.Builder{})

	flagHelp := globalFlags.BoolP("help", "h", false, "Show help")
	flagCwd := globalFlags.StringP("cwd", "C", "", "Run as if started in `dir`")
	flagConfig := globalFlags.StringP("config", "c", "", "Use specified config `file`")
	flagLanguage := globalFlags.String("language", "", "Override the tokenizer language (cpp, markdown, buffer-name)")

	if err := globalFlags.Parse(args[1:]); err != nil {
		fmt.Fprintln(errOut, "error:", err)

		return 1
	}

	cfg, err := editorcfg.LoadConfig(editorcfg.LoadConfigInput{
		WorkDirOverride:  *flagCwd,
		ConfigPath:       *flagConfig,
		LanguageOverride: *flagLanguage,
		Env:              env,
	})
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)

		return 1
	}

	commands := allCommands(cfg)

	commandAndArgs := globalFlags.Args()

	if *flagHelp || len(commandAndArgs) == 0 {
		printUsage(out, commands)

		return 0
	}

	name := commandAndArgs[0]

	for _, cmd := range commands {
		if cmd.Name() == name {
			cmdIO := NewIO(out, errOut)

			return cmd.Run(cmdIO, commandAndArgs[1:])
		}
	}

	fmt.Fprintln(errOut, "error: unknown command", name)
	printUsage(errOut, commands)

	return 1
}

func printUsage(w io.Writer, commands []*Command) {
	fmt.Fprintln(w, "Usage: magcore [global flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")

	for _, cmd := range commands {
		fmt.Fprintln(w, cmd.HelpLine())
	}
}

func allCommands(cfg editorcfg.Config) []*Command {
	return []*Command{
		renderCommand(cfg),
		editCommand(cfg),
		findCommand(cfg),
	}
}

// loadBuffer reads path and opens it as a scratch Buffer under cfg's
// resolved Mode.
func loadBuffer(path string, cfg editorcfg.Config) (*buffer.Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	mode, err := editorcfg.ResolveMode(cfg, nil)
	if err != nil {
		return nil, err
	}

	return buffer.New(path, content.NewFromBytes(data, content.DefaultBucketCapacity), mode)
}
