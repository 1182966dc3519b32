// Command ensreg is a thin CLI wrapper around internal/loader,
// internal/config and internal/stableid: load a registry from one
// server or one config file, optionally answer a single stable-id
// query, and exit. Adapted from the teacher's internal/source/logical
// provider sequence (preflight, open, register) collapsed into a single
// main without a Wire object graph -- this program's dependency graph is
// small enough that Wire would add indirection without buying anything.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/andrewyatz/ensembl-registry/internal/config"
	"github.com/andrewyatz/ensembl-registry/internal/loader"
	"github.com/andrewyatz/ensembl-registry/internal/registry"
	"github.com/andrewyatz/ensembl-registry/internal/stableid"
	"github.com/andrewyatz/ensembl-registry/internal/structloader"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.WithError(err).Error("ensreg failed")
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg := &Config{}
	flags := pflag.NewFlagSet("ensreg", pflag.ContinueOnError)
	cfg.Bind(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if err := cfg.Preflight(); err != nil {
		return err
	}
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	store, err := populate(context.Background(), cfg)
	if err != nil {
		return err
	}

	if cfg.LocateStableID != "" {
		res, err := stableid.Locate(context.Background(), store, cfg.LocateStableID, stableid.Options{
			KnownGroup:      cfg.KnownGroup,
			KnownType:       cfg.KnownType,
			ForceLongLookup: cfg.ForceLongLookup,
		})
		if err != nil {
			return errors.Wrap(err, "locating stable id")
		}
		if res == nil {
			fmt.Println("not found")
			return nil
		}
		fmt.Printf("%s\t%s\t%s\n", res.Species, res.Type, res.Group)
		return nil
	}

	doc, err := structloader.Serialise(store)
	if err != nil {
		return err
	}
	fmt.Printf("loaded %d adaptors, %d species with aliases\n", len(doc.Adaptors), len(doc.Aliases))
	return nil
}

func populate(ctx context.Context, cfg *Config) (*registry.Store, error) {
	if cfg.Host != "" {
		return loader.Load(ctx, loader.Options{
			Host:          cfg.Host,
			Port:          cfg.Port,
			User:          cfg.User,
			Pass:          cfg.Pass,
			WaitTimeout:   cfg.WaitTimeout,
			DBVersion:     cfg.DBVersion,
			SpeciesFilter: cfg.SpeciesFilter,
			SpeciesSuffix: cfg.SpeciesSuffix,
			NoCache:       cfg.NoCache,
			Verbose:       cfg.Verbose,
		})
	}

	if cfg.URL != "" {
		return config.PopulateFromURL(ctx, cfg.URL,
			loader.Options{
				WaitTimeout:   cfg.WaitTimeout,
				SpeciesFilter: cfg.SpeciesFilter,
				SpeciesSuffix: cfg.SpeciesSuffix,
				NoCache:       cfg.NoCache,
				Verbose:       cfg.Verbose,
			},
			structloader.Options{NoCache: cfg.NoCache},
		)
	}

	doc, err := config.LoadFile(cfg.ConfigFile)
	if err != nil {
		return nil, err
	}
	store := registry.New()
	if err := structloader.Load(store, *doc, structloader.Options{NoCache: cfg.NoCache}); err != nil {
		return nil, err
	}
	return store, nil
}
