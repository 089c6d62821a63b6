/*
Package runner implements the query loop and I/O orchestration shared by the triage front ends.

It sits between a ports.Triager and the outside world: it reads queries through a
pluggable IOHandler, sanitizes them, runs them and presents the result. The same
helpers format results for the HTTP and MCP adapters.

# Key Components

  - Runner: reads queries until EOF, an exit command or cancellation.
  - TextHandler: interactive prompt printing Markdown (optionally rendered for the terminal).
  - JSONHandler: JSON-Lines in, JSON-Lines out, for scripting.
  - Sanitizer: size, encoding, control character and blank checks for untrusted input.

# Usage

	r := runner.New(
		runner.WithLogger(logger),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx, engine); err != nil {
		log.Fatal(err)
	}
*/
package runner
