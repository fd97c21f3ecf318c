package main

import (
	"os"
	"regexp"
	"strings"

	"dayplan-cli/internal/cli"
)

var dateArgRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func isDateArg(s string) bool {
	return dateArgRe.MatchString(strings.TrimSpace(s))
}

func rewriteDirectDateArgs(argv []string) []string {
	// Convenience: `dayplan 2026-03-02` works like `dayplan agenda --date 2026-03-02`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	//
	// Users often pass persistent flags first (e.g. `dayplan --dir ... 2026-03-02`),
	// so we must find the first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	// Minimal persistent-flag awareness. If we see flags we don't recognize, we skip them
	// (and do NOT try to skip their value) to avoid accidentally consuming the date.
	valueFlags := map[string]bool{
		"--dir":       true,
		"--workspace": true,
		"--format":    true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			// Stop flag parsing; next token (if any) is the first positional.
			if i+1 < len(argv) && isDateArg(argv[i+1]) {
				out := make([]string, 0, len(argv)+2)
				out = append(out, argv[:i+1]...)
				out = append(out, "agenda", "--date")
				out = append(out, argv[i+1:]...)
				return out
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			// --flag=value form
			if strings.Contains(a, "=") {
				continue
			}
			if boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++ // skip value if present
				continue
			}
			continue
		}

		// First positional token.
		if isDateArg(a) {
			out := make([]string, 0, len(argv)+2)
			out = append(out, argv[:i]...)
			out = append(out, "agenda", "--date")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectDateArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
