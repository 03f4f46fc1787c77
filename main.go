package main

import "github.com/jsphweid/chordplay/cmd"

func main() {
	cmd.Execute()
}
