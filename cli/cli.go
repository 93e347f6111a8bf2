package cli

import (
	"context"
	"errors"
	"fmt"
	flag "github.com/spf13/pflag"
	"regexp"
	"slices"
	"strings"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	HelpPatterns      = []string{"--help", "-h", "help"} // HelpPatterns are arguments that print usage information for a [CommandSet] instead of running a [Command].

	keyCleansePattern = regexp.MustCompile(`\s`)
)

// CommandFunc is the body of a [Command].
// The context is the one given to [CommandSet.Exec], and args are what's left after parsing flags.
type CommandFunc = func(ctx context.Context, flags *flag.FlagSet, out *Printer) error

// Command is a named, executable function in a CLI, registered with [CommandSet.AddCommand].
type Command struct {
	flags      *flag.FlagSet
	exec       CommandFunc
	key        string
	path       string
	shortUsage string
	longUsage  string
	aliases    []string
	printer    *Printer
}

func cleanseKey(key string) string {
	return keyCleansePattern.ReplaceAllString(strings.ToLower(key), "")
}

// Does specifies the [CommandFunc] that should be executed by this [Command].
func (c *Command) Does(commandFunc CommandFunc) *Command {
	if commandFunc == nil {
		return c
	}
	c.exec = commandFunc
	return c
}

// Flags returns the [flag.FlagSet] for this [Command].
func (c *Command) Flags() *flag.FlagSet {
	return c.flags
}

// Usage sets a longer description of the [Command] that is printed before flag usage when help is requested.
func (c *Command) Usage(format string, args ...any) *Command {
	c.longUsage = fmt.Sprintf(format, args...)
	return c
}

// PrintUsage prints the usage information for the [Command].
func (c *Command) PrintUsage() {
	var buf strings.Builder
	buf.WriteString(c.shortUsage + "\n")
	buf.WriteString("\nUSAGE:\n  " + c.path + " [FLAGS]\n")
	if len(c.longUsage) > 0 {
		buf.WriteString("\n" + strings.TrimSuffix(c.longUsage, "\n") + "\n")
	}
	buf.WriteString("\nFLAGS\n")
	buf.WriteString(c.flags.FlagUsages())
	c.printer.Print(buf.String())
}

// Exec parses flags from args and runs the [Command].
// A [UsageError] returned from the [CommandFunc] is printed along with usage information.
func (c *Command) Exec(ctx context.Context, args []string) error {
	if err := c.flags.Parse(args); err != nil {
		return err
	}
	if val, _ := c.flags.GetBool("help"); val || c.exec == nil {
		c.PrintUsage()
		return nil
	}
	err := c.exec(ctx, c.flags, c.printer)
	if errors.Is(err, &UsageError{}) {
		c.printer.Println(err.Error())
		c.printer.Println()
		c.PrintUsage()
	}
	return err
}

// CommandSet is the root of a CLI, holding the [Command] values it can run.
type CommandSet struct {
	name     string
	about    string
	commands map[string]*Command
	aliases  map[string]*Command
	printer  *Printer
}

// NewCommandSet creates an empty [CommandSet] for a CLI invoked as name.
// Output goes to the given [Printer], or to a [Printer] for STDERR if nil.
func NewCommandSet(name string, printer *Printer) *CommandSet {
	if printer == nil {
		printer = NewPrinter(nil)
	}
	return &CommandSet{name: name, printer: printer}
}

// About sets a description printed at the top of the usage information for the [CommandSet].
func (s *CommandSet) About(format string, args ...any) *CommandSet {
	s.about = fmt.Sprintf(format, args...)
	return s
}

// Printer returns the [Printer] shared by this [CommandSet] and its commands.
func (s *CommandSet) Printer() *Printer {
	return s.printer
}

// AddCommand adds a [Command] to this [CommandSet].
// The key will be cleansed to remove spaces, and normalized to lower-case.
// Aliases may be added as a way to support shorter variants of the same [Command].
func (s *CommandSet) AddCommand(key, shortUsage string, aliases ...string) *Command {
	key = cleanseKey(key)
	fs := flag.NewFlagSet(key, flag.ContinueOnError)
	fs.BoolP("help", "h", false, "Prints this usage information")
	fs.SetInterspersed(false)
	fs.SetOutput(s.printer.out)
	cmd := &Command{
		flags:      fs,
		key:        key,
		path:       strings.TrimSpace(s.name + " " + key),
		shortUsage: shortUsage,
		printer:    s.printer,
	}
	if s.commands == nil {
		s.commands = map[string]*Command{}
	}
	s.commands[key] = cmd
	for _, alias := range aliases {
		alias = cleanseKey(alias)
		if len(alias) == 0 {
			continue
		}
		if s.aliases == nil {
			s.aliases = map[string]*Command{}
		}
		s.aliases[alias] = cmd
		cmd.aliases = append(cmd.aliases, alias)
	}
	slices.Sort(cmd.aliases)
	return cmd
}

// Exec runs the [Command] named by the first argument, passing it the remaining arguments.
// If no arguments are given, or the first one is one of [HelpPatterns], usage is printed instead.
func (s *CommandSet) Exec(ctx context.Context, args []string) error {
	if len(args) == 0 || slices.Contains(HelpPatterns, args[0]) {
		s.PrintUsage()
		return nil
	}
	key := strings.ToLower(args[0])
	cmd, ok := s.commands[key]
	if !ok {
		cmd, ok = s.aliases[key]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
		}
	}
	return cmd.Exec(ctx, args[1:])
}

// PrintUsage prints the description of the [CommandSet] followed by [CommandSet.CommandUsages].
func (s *CommandSet) PrintUsage() {
	var buf strings.Builder
	if len(s.about) > 0 {
		buf.WriteString(strings.TrimSuffix(s.about, "\n") + "\n\n")
	}
	buf.WriteString("USAGE:\n  " + s.name + " COMMAND [FLAGS]\n\nCOMMANDS\n")
	buf.WriteString(s.CommandUsages())
	s.printer.Print(buf.String())
}

// CommandUsages returns a string including the short usage for each [Command] in this [CommandSet].
//
// Commands are sorted alphabetically by key.
func (s *CommandSet) CommandUsages() string {
	keys := make([]string, 0, len(s.commands))
	for key := range s.commands {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	var (
		buf    strings.Builder
		names  = make([]string, len(keys))
		maxLen int
	)
	for i, key := range keys {
		names[i] = strings.Join(append([]string{key}, s.commands[key].aliases...), ", ")
		maxLen = max(maxLen, len(names[i]))
	}
	fmtStr := fmt.Sprintf("  %%-%ds\t%%s\n", maxLen)
	for i, key := range keys {
		buf.WriteString(fmt.Sprintf(fmtStr, names[i], s.commands[key].shortUsage))
	}
	return buf.String()
}
