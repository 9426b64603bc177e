// Copyright 2021. Silvano DAL ZILIO.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

// Package dump exports binary decision diagrams in textual form, either as
// Graphviz (DOT) graphs, as a plain node table, or pushed over HTTP to a
// diagram visualization service.
package dump

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/dalzilio/obdd"
)

// Dot writes a Graphviz graph for the diagrams of the given roots to w, or
// for every live node of the manager when no root is given. Inner nodes are
// labelled with their variable name, low edges are dashed and high edges
// solid, following the usual drawing convention for decision diagrams.
func Dot(w io.Writer, m *obdd.Manager, roots ...*obdd.Function) error {
	nvars := m.Varnum()
	if _, err := fmt.Fprintln(w, "digraph bdd {"); err != nil {
		return err
	}
	err := m.AllNodes(func(id, level, low, high int) error {
		if level == nvars {
			_, err := fmt.Fprintf(w, "\tn%d [shape=box,label=\"%d\"];\n", id, id)
			return err
		}
		if _, err := fmt.Fprintf(w, "\tn%d [label=%q];\n", id, m.VarName(level)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "\tn%d -> n%d [style=dashed];\n", id, low); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "\tn%d -> n%d;\n", id, high)
		return err
	}, roots...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, "}")
	return err
}

// Text writes the node table of the diagrams of the given roots to w, one
// node per line, in a stable order. The format is meant for tests and quick
// inspection, not for machine exchange.
func Text(w io.Writer, m *obdd.Manager, roots ...*obdd.Function) error {
	nvars := m.Varnum()
	return m.AllNodes(func(id, level, low, high int) error {
		if level == nvars {
			_, err := fmt.Fprintf(w, "%d\t[terminal %d]\n", id, id)
			return err
		}
		_, err := fmt.Fprintf(w, "%d\t[%s] low=%d high=%d\n", id, m.VarName(level), low, high)
		return err
	}, roots...)
}

// Visualize sends the diagrams of the given roots to a visualization service
// listening on host, under the given diagram name. The service receives the
// Graphviz rendition of the diagram with a single POST to
// <host>/api/diagram?name=<name>&type=bdd and is expected to answer with a
// success status.
func Visualize(ctx context.Context, host, name string, m *obdd.Manager, roots ...*obdd.Function) error {
	var buf bytes.Buffer
	if err := Dot(&buf, m, roots...); err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/api/diagram?name=%s&type=bdd", host, url.QueryEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/vnd.graphviz")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("cannot reach visualization service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("visualization service answered %s", resp.Status)
	}
	return nil
}
