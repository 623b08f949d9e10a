package main

import "github.com/LegacyCodeHQ/bundlegraph/cmd"

func main() {
	cmd.Execute()
}
