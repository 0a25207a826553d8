// bitcube - CLI for searching perfect 8x8x8 bit cubes.
package main

import (
	"github.com/SeamusWaldron/bitcube/internal/cli"
)

func main() {
	cli.Execute()
}
