package main

import "github.com/KaramelBytes/techpulse/cmd"

func main() {
	cmd.Execute()
}
