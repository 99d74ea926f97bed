/*
Package cli provides helpers shared by the gcpolicy commands.

Output formatting:

Command results render as text, JSON or YAML:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, plan); err != nil {
		return err
	}

Exit codes:

ExitCode maps an error to the process exit status: 2 for invalid input
or configuration, 3 for a failed admin API call, 1 for anything else.

Status lines:

	status := cli.NewStatusReporter(os.Stdout, quiet)
	status.Step("Creating column family %s with a Nested GC rule...", id)
	status.Done("Created column family %s with a Nested GC rule.", id)

Signal handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
