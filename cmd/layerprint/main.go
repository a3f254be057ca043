package main

import "github.com/philipparndt/layerprint/internal/cmd"

func main() {
	cmd.Parse()
}
