package main

import "example.com/logistics/services/odv/cmd"

func main() {
	cmd.Execute()
}
