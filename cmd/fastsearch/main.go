// Command fastsearch is the terminal front-end for the indexing/search
// engine: it wires the engine packages behind a Cobra CLI so each
// control-surface operation has a concrete entry point.
package main

import "github.com/mvp-joe/fastsearch/internal/cli"

func main() {
	cli.Execute()
}
