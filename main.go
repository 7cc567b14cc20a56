package main

import "github.com/maastricht-university/emocong/cmd"

func main() {
	cmd.Execute()
}
