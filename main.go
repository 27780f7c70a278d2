package main

import "github.com/ibrahmsql/phobos/cmd"

func main() {
	cmd.Execute()
}
