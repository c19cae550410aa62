package main

import "github.com/notargets/goibm/cmd"

func main() {
	cmd.Execute()
}
