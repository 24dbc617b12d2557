package main

import "github.com/noteflow-ai/noteflow/cmd"

func main() {
	cmd.Execute()
}
