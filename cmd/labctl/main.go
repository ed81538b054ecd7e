package main

import "github.com/jhoicas/inventario-lab/internal/cli"

func main() {
	cli.Execute()
}
