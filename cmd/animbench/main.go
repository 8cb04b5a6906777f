// animbench drives synthetic animation load against a page while sampling
// frame rate, frame times and heap usage, and reports a graded summary.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
