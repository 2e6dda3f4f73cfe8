// Command tzoffdiff compares two tzoff dataset files structurally and
// prints the differences.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/google/go-cmp/cmp"

	"github.com/ngrash/go-tzdb/tzoff"
)

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()
	args := flag.Args()
	if len(args) != 2 {
		return fmt.Errorf("Usage: tzoffdiff <dataset file A> <dataset file B>\n")
	}

	af, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	bf, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}

	adata, err := tzoff.DecodeDataset(bytes.NewReader(af))
	if err != nil {
		return err
	}

	bdata, err := tzoff.DecodeDataset(bytes.NewReader(bf))
	if err != nil {
		return err
	}

	if diff := cmp.Diff(adata, bdata); diff != "" {
		fmt.Println("datasets are different: -A +B")
		fmt.Println(diff)
	} else {
		fmt.Println("datasets are identical")
	}

	return nil
}
