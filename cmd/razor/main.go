// cmd/razor/main.go
package main

import (
	"razor/internal/app"
	"razor/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
