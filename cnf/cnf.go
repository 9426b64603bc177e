// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package cnf builds decision diagrams from Boolean formulas in conjunctive
// normal form, read from files in the DIMACS CNF format.
package cnf

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/dalzilio/obdd"
	"github.com/rhartert/dimacs"
)

// Load reads a DIMACS CNF problem from r and returns the conjunction of its
// clauses as a function of the given manager. The manager must be fresh or
// at least hold no variable yet: one variable is declared per variable of
// the problem, in order, so that DIMACS variable i maps to level i-1.
func Load(r io.Reader, m *obdd.Manager) (*obdd.Function, error) {
	b := &builder{mgr: m, res: m.True()}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		return nil, err
	}
	return b.res, nil
}

// LoadFile reads a DIMACS CNF problem from a file, transparently inflating
// it when gzipped is set. See Load.
func LoadFile(filename string, gzipped bool, m *obdd.Manager) (*obdd.Function, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file %q: %w", filename, err)
	}
	defer file.Close()
	r := io.Reader(file)
	if gzipped {
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("error reading file %q: %w", filename, err)
		}
		defer zr.Close()
		r = zr
	}
	return Load(r, m)
}

// builder accumulates clauses into a conjunction, implementing
// dimacs.Builder.
type builder struct {
	mgr *obdd.Manager
	res *obdd.Function
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("not a CNF problem")
	}
	for i := 0; i < nVars; i++ {
		if _, err := b.mgr.NewVar(); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) Clause(lits []int) error {
	clause := b.mgr.False()
	for _, l := range lits {
		var lit *obdd.Function
		var err error
		if l < 0 {
			lit, err = b.mgr.NIthvar(-l - 1)
		} else {
			lit, err = b.mgr.Ithvar(l - 1)
		}
		if err != nil {
			return err
		}
		if clause, err = clause.Or(lit); err != nil {
			return err
		}
	}
	var err error
	b.res, err = b.res.And(clause)
	return err
}

func (b *builder) Comment(_ string) error {
	return nil // ignore comments
}
