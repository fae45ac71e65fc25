package main

import "github.com/wkusuma/customs-case-management/cmd"

func main() {
	cmd.Execute()
}
