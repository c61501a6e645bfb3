package main

import "github.com/notargets/vtkio/cmd"

func main() {
	cmd.Execute()
}
