package main

import "github.com/KaramelBytes/autolysis/cmd"

func main() {
	cmd.Execute()
}
