package main

import "github.com/jsphweid/rollprep/cmd"

func main() {
	cmd.Execute()
}
