package commands

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// InteractiveCmd creates the shell command: one database connection, many commands
func InteractiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session that keeps the database connection open",
		Long: `Start an interactive session. Type any command without the program name, e.g.

  mark --sector Tecido --by "Maria Lima" "Ana Souza=PRESENTE" "Bruno Lima=FALTA"

Quote arguments containing spaces. Type 'help' for commands and 'exit' to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			fmt.Println("\nPresenças shell. Type 'help' for commands, 'exit' to leave.")

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}

				parts, err := splitArgs(scanner.Text())
				if err != nil {
					fmt.Printf("✗ %v\n\n", err)
					continue
				}
				if len(parts) == 0 {
					continue
				}

				switch parts[0] {
				case "exit", "quit":
					return nil
				case "help":
					printShellHelp(root, cmd.Name())
					continue
				case cmd.Name(), "completion":
					fmt.Printf("✗ %s is not available inside the shell\n\n", parts[0])
					continue
				}

				if err := runInShell(root, parts); err != nil {
					fmt.Printf("✗ %v\n\n", err)
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}
			return nil
		},
	}
}

// runInShell runs a subcommand's RunE directly so the root pre-run (and its
// database connection) is not repeated
func runInShell(root *cobra.Command, parts []string) error {
	target, rest, err := root.Find(parts)
	if err != nil || target == root {
		return fmt.Errorf("unknown command: %s (type 'help' for commands)", parts[0])
	}
	if target.RunE == nil {
		return fmt.Errorf("%s needs a subcommand: %s", target.Name(), strings.Join(subcommandNames(target), ", "))
	}

	target.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Value.Set(flag.DefValue)
		flag.Changed = false
	})
	if err := target.ParseFlags(rest); err != nil {
		return err
	}
	args := target.Flags().Args()
	if target.Args != nil {
		if err := target.Args(target, args); err != nil {
			return err
		}
	}
	if err := target.ValidateRequiredFlags(); err != nil {
		return err
	}
	return target.RunE(target, args)
}

func subcommandNames(cmd *cobra.Command) []string {
	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	sort.Strings(names)
	return names
}

func printShellHelp(root *cobra.Command, self string) {
	fmt.Println("\nCommands:")
	for _, cmd := range root.Commands() {
		name := cmd.Name()
		if name == self || name == "help" || name == "completion" {
			continue
		}
		fmt.Printf("  %-32s %s\n", cmd.Use, cmd.Short)
		for _, sub := range cmd.Commands() {
			fmt.Printf("    %-30s %s\n", sub.Use, sub.Short)
		}
	}
	fmt.Printf("\n  %-32s %s\n", "help", "Show this list")
	fmt.Printf("  %-32s %s\n\n", "exit, quit", "Leave the shell")
}

// splitArgs splits a line on whitespace, keeping single- or double-quoted text together
func splitArgs(line string) ([]string, error) {
	var args []string
	var current strings.Builder
	var quote rune
	inArg := false

	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inArg = true
		case unicode.IsSpace(r):
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteRune(r)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unclosed quote: %c", quote)
	}
	if inArg {
		args = append(args, current.String())
	}
	return args, nil
}
