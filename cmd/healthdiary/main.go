package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/health-diary/internal/cli"
)

func main() {
	cli.Execute()
}
