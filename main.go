package main

import "github.com/anonymoize/madokami/cmd"

func main() {
	cmd.Execute()
}
