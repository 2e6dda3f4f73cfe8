// Command tzoffgen generates tzoff offset datasets from the timezone
// database embedded in the Go toolchain it was built with.
//
// By default it compiles the embedded canonical zone list for the current
// calendar year and writes a single dataset file. With -d it writes one
// file per zone instead, mirroring the dataset layout for targets that
// prefer loading zones from individual files.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/ngrash/go-tzdb/tzdb/ianadist"
	"github.com/ngrash/go-tzdb/tzgen"
	"github.com/ngrash/go-tzdb/tzoff"
)

var (
	configFlag    = flag.String("config", "", "path to a YAML generator config")
	yearFlag      = flag.Int("year", 0, "generate data for this calendar year (default: current year)")
	stepFlag      = flag.Duration("step", 0, "probe granularity (default: 1h)")
	zonesFlag     = flag.String("zones", "", "comma-separated zone names (default: embedded canonical list)")
	outFlag       = flag.String("o", "tzdata.tzoff", "output file for the dataset")
	dirFlag       = flag.String("d", "", "write per-zone files into this directory instead of a single dataset")
	checkIANAFlag = flag.Bool("check-iana", false, "print the latest IANA tzdb release version and exit")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run() error {
	if *checkIANAFlag {
		version, _, err := ianadist.LatestVersion(context.Background(), "")
		if err != nil {
			return fmt.Errorf("checking IANA release: %w", err)
		}
		fmt.Println("latest IANA tzdb release:", version)
		fmt.Println("datasets are generated from the Go toolchain's embedded tzdata; rebuild with a current toolchain if it predates this release")
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	names, err := cfg.ZoneNames()
	if err != nil {
		return err
	}

	dataset, err := tzgen.Dataset(names, opts)
	if err != nil {
		return err
	}

	if *dirFlag != "" {
		return writeZoneFiles(*dirFlag, dataset)
	}
	return writeDataset(*outFlag, dataset)
}

// loadConfig reads the config file if one is given and applies the flag
// overrides. Without a config file and flags, the current calendar year
// and the default zone list are used.
func loadConfig() (tzgen.Config, error) {
	var cfg tzgen.Config
	if *configFlag != "" {
		f, err := os.Open(*configFlag)
		if err != nil {
			return cfg, err
		}
		defer f.Close()
		cfg, err = tzgen.LoadConfig(f)
		if err != nil {
			return cfg, fmt.Errorf("config %s: %w", *configFlag, err)
		}
	}

	if *yearFlag != 0 {
		cfg.Year = *yearFlag
	}
	if cfg.Year == 0 && cfg.From == "" {
		cfg.Year = time.Now().UTC().Year()
	}
	if *stepFlag != 0 {
		cfg.Step = stepFlag.String()
	}
	if *zonesFlag != "" {
		cfg.Zones = strings.Split(*zonesFlag, ",")
	}
	return cfg, nil
}

func writeDataset(path string, dataset tzoff.Dataset) error {
	var buf bytes.Buffer
	if err := dataset.Encode(&buf); err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %d zones (%d bytes) to %s\n", len(dataset.Zones), buf.Len(), path)
	return nil
}

func writeZoneFiles(dir string, dataset tzoff.Dataset) error {
	for _, z := range dataset.Zones {
		path := filepath.Join(dir, filepath.FromSlash(z.Name)+".tzoff")
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := z.Zone.Encode(&buf); err != nil {
			return fmt.Errorf("encoding zone %s: %w", z.Name, err)
		}
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return err
		}
	}
	fmt.Printf("wrote %d zone files to %s\n", len(dataset.Zones), dir)
	return nil
}
