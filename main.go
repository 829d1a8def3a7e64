package main

import "github.com/buildcache/dbc/cmd"

func main() {
	cmd.Execute()
}
