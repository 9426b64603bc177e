// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Command bddsat decides the satisfiability of a DIMACS CNF problem by
// building its binary decision diagram, and reports the number of models.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/dalzilio/obdd"
	"github.com/dalzilio/obdd/cnf"
	"github.com/dalzilio/obdd/dump"
)

var flagCPUProfile = flag.Bool(
	"cpuprof",
	false,
	"save pprof CPU profile in cpuprof",
)

var flagMemProfile = flag.Bool(
	"memprof",
	false,
	"save pprof memory profile in memprof",
)

var flagNodes = flag.Int(
	"nodes",
	1_000_000,
	"capacity of the node table",
)

var flagCache = flag.Int(
	"cache",
	0,
	"capacity of the operation cache (0 = proportional to the node table)",
)

var flagWorkers = flag.Int(
	"workers",
	1,
	"number of goroutines splitting each operation",
)

var flagWitness = flag.Bool(
	"witness",
	false,
	"print one satisfying assignment",
)

var flagDot = flag.String(
	"dot",
	"",
	"write the diagram of the instance to a file, in Graphviz format",
)

type config struct {
	instanceFile string
	gzipped      bool
	cpuProfile   bool
	memProfile   bool
	nodes        int
	cache        int
	workers      int
	witness      bool
	dotFile      string
}

func parseConfig() (*config, error) {
	flag.Parse()

	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return nil, fmt.Errorf("missing instance file")
	}
	return &config{
		instanceFile: flag.Arg(0),
		gzipped:      strings.HasSuffix(flag.Arg(0), ".gz"),
		cpuProfile:   *flagCPUProfile,
		memProfile:   *flagMemProfile,
		nodes:        *flagNodes,
		cache:        *flagCache,
		workers:      *flagWorkers,
		witness:      *flagWitness,
		dotFile:      *flagDot,
	}, nil
}

func run(cfg *config) error {
	m, err := obdd.New(cfg.nodes, cfg.cache, cfg.workers)
	if err != nil {
		return err
	}

	t := time.Now()
	f, err := cnf.LoadFile(cfg.instanceFile, cfg.gzipped, m)
	if err != nil {
		return fmt.Errorf("could not build instance: %w", err)
	}
	elapsed := time.Since(t)

	fmt.Printf("c variables:  %d\n", m.Varnum())
	fmt.Printf("c nodes:      %d\n", f.NodeCount())
	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	if cfg.dotFile != "" {
		w, err := os.Create(cfg.dotFile)
		if err != nil {
			return err
		}
		if err := dump.Dot(w, m, f); err != nil {
			w.Close()
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
	}
	if !f.Satisfiable() {
		fmt.Println("s UNSATISFIABLE")
		return nil
	}
	fmt.Printf("c models:     %g\n", f.SatCountFloat(m.Varnum()))
	fmt.Println("s SATISFIABLE")
	if cfg.witness {
		cube := f.PickCube()
		lits := make([]string, 0, len(cube)+1)
		for i, v := range cube {
			switch v {
			case obdd.True:
				lits = append(lits, fmt.Sprintf("%d", i+1))
			case obdd.False:
				lits = append(lits, fmt.Sprintf("-%d", i+1))
			}
		}
		lits = append(lits, "0")
		fmt.Printf("v %s\n", strings.Join(lits, " "))
	}
	return nil
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.cpuProfile {
		f, err := os.Create("cpuprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}

	if cfg.memProfile {
		f, err := os.Create("memprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}
}
