package main

import "claim-fraud-alerts/internal/cli"

func main() {
	cli.Execute()
}
