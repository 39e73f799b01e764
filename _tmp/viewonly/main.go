package main

import (
	"newsdeck/internal/ui"
)

func main() {
	v := ui.New(ui.Options{Debug: true})
	_ = v.Run()
}
