package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/focusframe/internal/config"
	"github.com/1broseidon/focusframe/internal/ipc"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: focusframe daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: focusframe daemon")
			os.Exit(2)
		}
		runDaemon()
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "highlight":
		os.Exit(runHighlight(os.Args[2:]))
	case "hide":
		os.Exit(runSimple("hide", "Hide the frame until resume or the next highlight.", os.Args[2:], ipc.NewClient().Hide))
	case "resume":
		os.Exit(runSimple("resume", "Drop any highlight or hide request and follow focus again.", os.Args[2:], ipc.NewClient().Resume))
	case "toggle":
		os.Exit(runSimple("toggle", "Hide the frame, or resume following focus if it is hidden.", os.Args[2:], ipc.NewClient().Toggle))
	case "reload":
		os.Exit(runSimple("reload", "Ask the daemon to reload its configuration.", os.Args[2:], ipc.NewClient().Reload))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: focusframe <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the focus frame daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon and frame status")
	fmt.Fprintln(w, "  highlight X Y W H   Frame a screen region")
	fmt.Fprintln(w, "  hide                Hide the frame")
	fmt.Fprintln(w, "  resume              Follow the focused window again")
	fmt.Fprintln(w, "  toggle              Hide or resume the frame")
	fmt.Fprintln(w, "  monitors            List monitors")
	fmt.Fprintln(w, "  reload              Reload daemon configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'focusframe <command> --help' for command-specific options.")
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print raw JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: focusframe status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(status)
	}
	renderStatus(os.Stdout, status, stdoutIsTerminal())
	return 0
}

func runHighlight(args []string) int {
	payload, code := parseHighlightArgs(args, os.Stderr)
	if code >= 0 {
		return code
	}
	if err := ipc.NewClient().Highlight(payload); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// parseHighlightArgs returns the payload and -1, or an exit code when the
// command should stop.
func parseHighlightArgs(args []string, stderr io.Writer) (ipc.HighlightPayload, int) {
	fs := flag.NewFlagSet("highlight", flag.ContinueOnError)
	fs.SetOutput(stderr)
	duration := fs.Int("duration", -1, "Seconds to keep the highlight (0 = until hide/resume; default: highlight_timeout)")
	monitor := fs.Int("monitor", -1, "Monitor id; X and Y become relative to its origin")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: focusframe highlight [--duration N] [--monitor ID] X Y WIDTH HEIGHT")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Frame a screen region, overriding focus tracking.")
		fmt.Fprintln(stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return ipc.HighlightPayload{}, 0
		}
		return ipc.HighlightPayload{}, 2
	}
	if fs.NArg() != 4 {
		fmt.Fprintln(stderr, "highlight requires X Y WIDTH HEIGHT")
		fs.Usage()
		return ipc.HighlightPayload{}, 2
	}

	var nums [4]int
	for i, arg := range fs.Args() {
		n, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintf(stderr, "invalid number %q\n", arg)
			return ipc.HighlightPayload{}, 2
		}
		nums[i] = n
	}

	payload := ipc.HighlightPayload{X: nums[0], Y: nums[1], Width: nums[2], Height: nums[3]}
	if *duration >= 0 {
		payload.DurationSeconds = duration
	}
	if *monitor >= 0 {
		payload.Monitor = monitor
	}
	if err := payload.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return ipc.HighlightPayload{}, 2
	}
	return payload, -1
}

func runSimple(name, help string, args []string, call func() error) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: focusframe %s\n\n%s\n", name, help)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", name)
		fs.Usage()
		return 2
	}
	if err := call(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runMonitors(args []string) int {
	fs := flag.NewFlagSet("monitors", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print raw JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: focusframe monitors [--json]")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	data, err := ipc.NewClient().GetMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(data)
	}
	renderMonitors(os.Stdout, data.Monitors, stdoutIsTerminal())
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  focusframe config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  focusframe config print [--path PATH] [--effective|--defaults]")
		fmt.Fprintln(os.Stderr, "  focusframe config explain [--path PATH] <key>")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/focusframe/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/focusframe/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		printEffective := fs.Bool("effective", false, "Print effective config (default)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			_ = printEffective // default
			res, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/focusframe/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <key>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", args[0])
		return 2
	}
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
