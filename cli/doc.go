/*
Package cli is a small layer over [pflag] for CLIs made of one level of sub-commands.

  - User-visible output goes to STDERR by default, through a [Printer].
  - Flags are not interspersed, so flag and argument parsing is predictable.
  - Each [Command] has its own flags, and '-h' and '--help' are set up for every one.
  - A [CommandFunc] receives a context, so long-running commands can be interrupted.

Invoking a CLI built with this package follows this form:

	CLI_NAME [SUB-COMMAND] [FLAGS...] [ARGS...]

Returning a [UsageError] from a [CommandFunc] prints the error along with usage information.

[pflag]: https://github.com/spf13/pflag
*/
package cli
