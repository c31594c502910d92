// Package main is the meshoctree command: it indexes a triangle mesh and runs queries against it.
package main

import (
	"log"
	"os"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
