package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nsc-wicked/wicked/internal/operator"
	"github.com/nsc-wicked/wicked/internal/scalar"
	"github.com/nsc-wicked/wicked/internal/space"
	"github.com/nsc-wicked/wicked/internal/wick"
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run an equation script through the contraction engine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := readLines(args[0])
		if err != nil {
			return err
		}
		s, err := parseScript(lines)
		if err != nil {
			logs.Err.Error("failed to parse script", zapErr(err))
			return err
		}
		if s.SpacesFile == "" {
			return fmt.Errorf("script %s declares no Spaces block", args[0])
		}
		spacesPath := s.SpacesFile
		if !filepath.IsAbs(spacesPath) {
			spacesPath = filepath.Join(filepath.Dir(args[0]), spacesPath)
		}
		reg, err := space.Load(spacesPath)
		if err != nil {
			logs.Err.Error("failed to load space configuration", zapErr(err))
			return err
		}
		logs.Boot.Info("loaded orbital spaces", zapInt("count", reg.NumSpaces()))

		operators := make(map[string]operator.Expression)
		for _, op := range s.Operators {
			expr, err := operator.MakeFromSpaceStrings(reg, op.Label, op.Descs...)
			if err != nil {
				logs.Err.Error("failed to build operator", zapErr(err))
				return err
			}
			operators[op.Label] = expr
		}

		th := wick.NewTheorem(reg)
		th.SetMaxCumulant(flagMaxCumulant)

		for _, c := range s.Contracts {
			ops, err := resolveOperatorString(operators, c.OpLabels)
			if err != nil {
				return err
			}
			factor := scalar.FromFrac(c.FactorNum, c.FactorDen)
			result, err := th.Contract(factor, ops, c.MinRank, c.MaxRank)
			if err != nil {
				logs.Err.Error("contraction failed", zapErr(err))
				return err
			}
			for _, t := range result.Terms() {
				fmt.Println(t.String(reg.IndexLabel))
			}
			logs.Output.Info("contraction complete", zapInt("terms", result.Len()))
		}
		return nil
	},
}

// resolveOperatorString expands each labeled operator to its single
// Operator form; multi-term operator expressions (sums of descriptors)
// are not valid as Contract arguments since Contract expects one fixed
// operator string, not a sum — callers who need the sum use
// Theorem.ContractExpression directly from library code instead.
func resolveOperatorString(operators map[string]operator.Expression, labels []string) ([]operator.Operator, error) {
	out := make([]operator.Operator, 0, len(labels))
	for _, lbl := range labels {
		expr, ok := operators[lbl]
		if !ok {
			return nil, fmt.Errorf("run: unknown operator %q", lbl)
		}
		if len(expr.Terms) != 1 {
			return nil, fmt.Errorf("run: operator %q has %d descriptor terms, Contract needs exactly one", lbl, len(expr.Terms))
		}
		if len(expr.Terms[0].Ops) != 1 {
			return nil, fmt.Errorf("run: operator %q is a product of %d positions, expected one", lbl, len(expr.Terms[0].Ops))
		}
		out = append(out, expr.Terms[0].Ops[0])
	}
	return out, nil
}
