// cmd/edna/main.go
package main

import (
	"edna/internal/app"
	"edna/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
