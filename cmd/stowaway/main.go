package main

import "github.com/zhubert/stowaway/cli"

func main() {
	cli.Execute()
}
