// Command taskboard serves the task board API and front end, and manages
// tasks from the command line.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		fatal(err)
		os.Exit(1)
	}
}
