package main

import "thirdcoast.systems/framefetch/cmd/framefetch/cmd"

func main() {
	cmd.Execute()
}
