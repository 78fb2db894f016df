// Package main writes a small sample translation module into a module
// directory so the server has text to serve during development.
//
// Usage:
//
//	go run ./cmd/seed --modules ~/lampstand/modules
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lampstandapp/lampstand-server/internal/text"
)

var modulesPath = flag.String("modules", "", "Module directory to seed (defaults to LAMPSTAND_MODULES_PATH)")

func main() {
	flag.Parse()

	root := *modulesPath
	if root == "" {
		root = os.Getenv("LAMPSTAND_MODULES_PATH")
	}
	if root == "" {
		fmt.Fprintln(os.Stderr, "No module directory given; use --modules or LAMPSTAND_MODULES_PATH")
		os.Exit(1)
	}

	err := text.WriteFixtureModule(root, "SAMPLE", map[string]string{
		"Description": "Lampstand Sample Translation",
		"Language":    "en",
	}, map[string][]string{
		"Gen": {
			"1:1\tIn the beginning God created the heavens and the earth.",
			"1:2\tThe earth was without form and void, and darkness was over the deep.",
			"1:3\tAnd God said, let there be light, and there was light.",
		},
		"Ps": {
			"23:1\tThe Lord is my shepherd, I shall not want.",
			"23:2\tHe makes me lie down in green pastures, he leads me beside still waters.",
			"119:105\tYour word is a lamp to my feet and a light to my path.",
		},
		"John": {
			"1:1\tIn the beginning was the Word, and the Word was with God.",
			"3:16\tFor God so loved the world that he gave his only Son.",
			"8:12\tI am the light of the world, whoever follows me will not walk in darkness.",
		},
		"Rom": {
			"5:8\tBut God shows his love for us in that while we were still sinners.",
			"8:28\tAll things work together for good for those who love God.",
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write sample module: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote SAMPLE module to %s\n", root)
	fmt.Println("Point the server at it with LAMPSTAND_MODULES_PATH and rescan.")
}
