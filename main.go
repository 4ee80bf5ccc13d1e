package main

import "github.com/Carlosagamez2021/AI-Indexing/cmd"

func main() {
	cmd.Execute()
}
