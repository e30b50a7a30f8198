package main

import "github.com/alexiusacademia/gorail/cmd"

func main() {
	cmd.Execute()
}
