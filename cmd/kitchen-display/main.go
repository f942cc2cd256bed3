// Command kitchen-display shows cooking countdowns for kitchen orders and beeps when they run out.
package main

import "github.com/oshokin/kitchen-display/cmd/kitchen-display/cmd"

func main() {
	cmd.Execute()
}
