// Command tzoffinfo decodes a tzoff file and prints its contents.
// It handles both dataset blobs and single-zone blobs, telling them
// apart by their magic.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ngrash/go-tzdb/tzoff"
)

var transitionsFlag = flag.Bool("t", false, "print transitions of every zone in a dataset")

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) != 1 {
		fmt.Println("Usage: tzoffinfo [-t] <tzoff file>")
		os.Exit(1)
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Println("reading file:", err)
		os.Exit(1)
	}

	r := bytes.NewReader(b)
	switch {
	case bytes.HasPrefix(b, tzoff.DatasetMagic[:]):
		d, err := tzoff.DecodeDataset(r)
		if err != nil {
			fmt.Println("decoding dataset:", err)
			os.Exit(1)
		}
		printDataset(d)
	case bytes.HasPrefix(b, tzoff.ZoneMagic[:]):
		z, err := tzoff.DecodeZone(r)
		if err != nil {
			fmt.Println("decoding zone:", err)
			os.Exit(1)
		}
		printZone(z)
	default:
		fmt.Println("unrecognized magic")
		os.Exit(1)
	}
	printRest(r)
}

func printDataset(d tzoff.Dataset) {
	fmt.Println("Dataset")
	fmt.Println("  version   =", d.Header.Version)
	fmt.Println("  generated =", utc(d.Header.Generated))
	fmt.Println("  zonecnt   =", d.Header.Zonecnt)
	fmt.Println()
	for _, z := range d.Zones {
		fmt.Printf("%s: %d transitions, base %s\n", z.Name, len(z.Zone.Transitions), offset(z.Zone.Header.Baseoff))
		if *transitionsFlag {
			printTransitions(z.Zone)
		}
	}
}

func printZone(z tzoff.Zone) {
	fmt.Println("Zone")
	fmt.Println("  version =", z.Header.Version)
	fmt.Println("  baseoff =", offset(z.Header.Baseoff))
	fmt.Println("  window  =", utc(z.Header.From), "to", utc(z.Header.To))
	fmt.Println("  timecnt =", z.Header.Timecnt)
	printTransitions(z)
}

func printTransitions(z tzoff.Zone) {
	for _, t := range z.Transitions {
		fmt.Printf("  %s -> %s\n", utc(t.Occ), offset(t.Utoff))
	}
}

func printRest(r *bytes.Reader) {
	if r.Len() == 0 {
		return
	}
	rest, err := io.ReadAll(r)
	if err != nil {
		fmt.Println("reading remaining data:", err)
		os.Exit(1)
	}
	fmt.Println("remaining data:", len(rest), "bytes")
}

func utc(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}

func offset(seconds int32) string {
	return (time.Duration(seconds) * time.Second).String()
}
