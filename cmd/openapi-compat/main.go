// Command openapi-compat fails when a revised swagger.yaml drops anything clients rely on.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var httpMethods = map[string]bool{
	"get": true, "put": true, "post": true, "delete": true,
	"patch": true, "head": true, "options": true,
}

// document is the subset of a swagger 2.0 file the check reads. Path items are
// kept as nodes because they also hold non-operation keys such as parameters.
type document struct {
	Paths map[string]map[string]yaml.Node `yaml:"paths"`
}

type operation struct {
	Security  []map[string][]string `yaml:"security"`
	Responses map[string]yaml.Node  `yaml:"responses"`
}

// surface maps "METHOD /path" to what a client may depend on.
type surface map[string]endpoint

type endpoint struct {
	responses map[string]bool
	secured   bool
}

func main() {
	basePath := flag.String("base", "", "released swagger.yaml")
	revisionPath := flag.String("revision", "docs/swagger.yaml", "candidate swagger.yaml")
	flag.Parse()

	if strings.TrimSpace(*basePath) == "" {
		fmt.Fprintln(os.Stderr, "usage: openapi-compat -base <path> [-revision <path>]")
		os.Exit(2)
	}

	base, err := load(*basePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load base spec: %v\n", err)
		os.Exit(1)
	}
	revision, err := load(*revisionPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load revision spec: %v\n", err)
		os.Exit(1)
	}

	if issues := breakingChanges(base, revision); len(issues) > 0 {
		fmt.Fprintln(os.Stderr, "backward compatibility check failed:")
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "- %s\n", issue)
		}
		os.Exit(1)
	}
	fmt.Println("openapi compatibility check passed")
}

func load(path string) (surface, error) {
	// #nosec G304: path comes from CLI flags in a dev tool
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(raw)
}

func parse(raw []byte) (surface, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Paths == nil {
		return nil, errors.New("missing top-level paths field")
	}

	out := make(surface)
	for path, ops := range doc.Paths {
		for method, node := range ops {
			m := strings.ToLower(strings.TrimSpace(method))
			if !httpMethods[m] {
				continue
			}
			var op operation
			if err := node.Decode(&op); err != nil {
				return nil, fmt.Errorf("%s %s: %w", strings.ToUpper(m), path, err)
			}
			ep := endpoint{responses: make(map[string]bool), secured: len(op.Security) > 0}
			for code := range op.Responses {
				ep.responses[strings.ToLower(strings.TrimSpace(code))] = true
			}
			out[strings.ToUpper(m)+" "+path] = ep
		}
	}
	return out, nil
}

// breakingChanges lists removed operations, removed response codes and
// operations that became authenticated.
func breakingChanges(base, revision surface) []string {
	var issues []string
	for key, old := range base {
		cur, ok := revision[key]
		if !ok {
			issues = append(issues, "removed operation: "+key)
			continue
		}
		for code := range old.responses {
			if !cur.responses[code] {
				issues = append(issues, fmt.Sprintf("removed response code: %s -> %s", key, code))
			}
		}
		if !old.secured && cur.secured {
			issues = append(issues, "now requires authentication: "+key)
		}
	}
	sort.Strings(issues)
	return issues
}
