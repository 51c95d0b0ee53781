package main

import "github.com/jsphweid/xmlabc/cmd"

func main() {
	cmd.Execute()
}
