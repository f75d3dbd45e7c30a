package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// readLines reads fname into a slice of lines.
func readLines(fname string) ([]string, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// findBlockEnd scans lines starting at start for the line "End" (trimmed,
// case-insensitive) and returns its index, or len(lines) if the block runs
// to the end of the file unterminated.
func findBlockEnd(lines []string, start int) int {
	for i := start; i < len(lines); i++ {
		if strings.EqualFold(strings.TrimSpace(lines[i]), "End") {
			return i
		}
	}
	return len(lines)
}

// script is the parsed form of an equation script: a space-configuration
// file, a set of named operators built from space-descriptor strings, and
// one or more contraction requests over those operators.
type script struct {
	SpacesFile string
	Operators  []scriptOperator
	Contracts  []scriptContract
}

type scriptOperator struct {
	Label string
	Descs []string
}

type scriptContract struct {
	OpLabels  []string
	MinRank   int
	MaxRank   int
	FactorNum int
	FactorDen int
}

// parseScript recognizes three block keywords, each introducing an
// indented block terminated by a line reading "End": "Spaces <file.yaml>"
// (single line, no block), "Operator <label>" (one descriptor per line),
// and "Contract <label> [<label> ...]" (key value pairs minrank/maxrank/
// factor, one per line).
func parseScript(lines []string) (script, error) {
	var s script
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch strings.ToLower(fields[0]) {
		case "spaces":
			if len(fields) != 2 {
				return s, fmt.Errorf("script: line %d: Spaces wants exactly one file argument", i+1)
			}
			s.SpacesFile = fields[1]
		case "operator":
			if len(fields) != 2 {
				return s, fmt.Errorf("script: line %d: Operator wants exactly one label", i+1)
			}
			end := findBlockEnd(lines, i+1)
			op := scriptOperator{Label: fields[1]}
			for j := i + 1; j < end; j++ {
				l := strings.TrimSpace(lines[j])
				if l == "" {
					continue
				}
				op.Descs = append(op.Descs, l)
			}
			s.Operators = append(s.Operators, op)
			i = end
		case "contract":
			if len(fields) < 2 {
				return s, fmt.Errorf("script: line %d: Contract wants at least one operator label", i+1)
			}
			end := findBlockEnd(lines, i+1)
			c := scriptContract{OpLabels: fields[1:], MinRank: 0, MaxRank: 1 << 20, FactorNum: 1, FactorDen: 1}
			for j := i + 1; j < end; j++ {
				l := strings.TrimSpace(lines[j])
				if l == "" {
					continue
				}
				kv := strings.Fields(l)
				if len(kv) != 2 {
					return s, fmt.Errorf("script: line %d: expected \"key value\"", j+1)
				}
				n, err := strconv.Atoi(kv[1])
				if err != nil {
					return s, fmt.Errorf("script: line %d: %w", j+1, err)
				}
				switch strings.ToLower(kv[0]) {
				case "minrank":
					c.MinRank = n
				case "maxrank":
					c.MaxRank = n
				case "factor":
					c.FactorNum = n
				default:
					return s, fmt.Errorf("script: line %d: unknown key %q", j+1, kv[0])
				}
			}
			s.Contracts = append(s.Contracts, c)
			i = end
		default:
			return s, fmt.Errorf("script: line %d: unknown block %q", i+1, fields[0])
		}
	}
	return s, nil
}
