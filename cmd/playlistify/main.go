package main

import "playlistify/cmd"

func main() {
	cmd.Execute()
}
