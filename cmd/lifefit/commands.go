// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aclements/go-survival/fit"
	"github.com/aclements/go-survival/lifedata"
	"github.com/aclements/go-survival/mixture"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Describe the sample",
	RunE: func(cmd *cobra.Command, args []string) error {
		tab, err := readTable()
		if err != nil {
			return err
		}
		s := tab.Summary()
		fmt.Printf("N %d  failures %d  censored %d\n", s.N, s.NumFailures, s.N-s.NumFailures)
		fmt.Printf("mean %.6g  median %.6g  std dev %.6g\n", s.Mean, s.Median, s.StdDev)
		fmt.Printf("min %.6g  q1 %.6g  q3 %.6g  max %.6g\n", s.Min, s.Q1, s.Q3, s.Max)
		return nil
	},
}

var cdfMethod string

var cdfCmd = &cobra.Command{
	Use:   "cdf",
	Short: "Print non-parametric plotting positions for the failures",
	RunE: func(cmd *cobra.Command, args []string) error {
		tab, err := readTable()
		if err != nil {
			return err
		}
		m, err := parseMethod(cdfMethod)
		if err != nil {
			return err
		}
		points, err := lifedata.EstimateCDF(tab, m)
		if err != nil {
			return err
		}
		for _, p := range points {
			if p.Rank > 0 {
				fmt.Printf("%.6g\t%.6g\trank %.4g\n", p.Value, p.Prob, p.Rank)
			} else {
				fmt.Printf("%.6g\t%.6g\n", p.Value, p.Prob)
			}
		}
		return nil
	},
}

var (
	fitFamily    string
	fitMethod    string
	fitThreshold float64
	fitLevel     float64
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit distribution parameters by rank regression or maximum likelihood",
	RunE: func(cmd *cobra.Command, args []string) error {
		tab, err := readTable()
		if err != nil {
			return err
		}
		family, err := parseFamily(fitFamily)
		if err != nil {
			return err
		}
		switch fitMethod {
		case "rr":
			method := lifedata.Johnson
			if tab.NumCensored() == 0 {
				method = lifedata.MedianRank
			}
			points, err := lifedata.EstimateCDF(tab, method)
			if err != nil {
				return err
			}
			res, err := fit.RankRegression{Family: family, Gamma: fitThreshold}.Fit(points)
			if err != nil {
				return err
			}
			describeParams(os.Stdout, res.Params)
			fmt.Printf("r %.6f  r² %.6f  points %d\n", res.R, res.R2, res.N)
			if bounds, err := fit.BetaBinomialBounds(points, tab.N(), fitLevel); err == nil {
				fmt.Printf("%.0f%% probability bounds:\n", fitLevel*100)
				for _, b := range bounds {
					fmt.Printf("%.6g\t[%.6g, %.6g]\n", b.Value, b.Lo, b.Hi)
				}
			}
		case "ml":
			res, err := fit.ML{Family: family, Gamma: fitThreshold}.Fit(tab)
			if err != nil && res == nil {
				return err
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}
			describeParams(os.Stdout, res.Params)
			fmt.Printf("log-likelihood %.6g  iterations %d  converged %v\n", res.LogLik, res.Iterations, res.Converged)
			if res.Cov != nil {
				fmt.Printf("std err: mu %.4g  sigma %.4g\n", res.StdErrMu, res.StdErrSigma)
				if qb, err := res.QuantileBounds([]float64{0.01, 0.1, 0.5, 0.9}, fitLevel); err == nil {
					fmt.Printf("%.0f%% quantile bounds:\n", fitLevel*100)
					for _, b := range qb {
						fmt.Printf("B%.0f\t%.6g\t[%.6g, %.6g]\n", b.Prob*100, b.Value, b.Lo, b.Hi)
					}
				}
			}
		default:
			return fmt.Errorf("bad fit method %q: want rr or ml", fitMethod)
		}
		return nil
	},
}

var (
	sepAlgorithm string
	sepFamily    string
	sepK         int
	sepSeeds     []string
)

var separateCmd = &cobra.Command{
	Use:   "separate",
	Short: "Separate the sample into failure-mode subgroups",
	RunE: func(cmd *cobra.Command, args []string) error {
		tab, err := readTable()
		if err != nil {
			return err
		}
		family, err := parseFamily(sepFamily)
		if err != nil {
			return err
		}
		var model *mixture.Model
		switch sepAlgorithm {
		case "segment":
			method := lifedata.Johnson
			if tab.NumCensored() == 0 {
				method = lifedata.MedianRank
			}
			points, err := lifedata.EstimateCDF(tab, method)
			if err != nil {
				return err
			}
			model, err = mixture.Segmented{Family: family, K: sepK}.Fit(points)
			if err != nil {
				return err
			}
		case "em":
			if sepK < 1 {
				return fmt.Errorf("em needs --k >= 1")
			}
			seeds := make([]uint64, len(sepSeeds))
			for i, s := range sepSeeds {
				seeds[i], err = strconv.ParseUint(s, 10, 64)
				if err != nil {
					return fmt.Errorf("bad seed %q: %v", s, err)
				}
			}
			if len(seeds) == 0 {
				seeds = []uint64{1}
			}
			em := mixture.EM{Family: family, K: sepK}
			model, err = em.FitBest(cmd.Context(), tab, seeds)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("bad algorithm %q: want segment or em", sepAlgorithm)
		}

		for i, sg := range model.Subgroups {
			fmt.Printf("subgroup %d  weight %.4f  ", i+1, sg.Weight)
			describeParams(os.Stdout, sg.Params)
		}
		if len(model.Boundaries) > 0 {
			fmt.Printf("boundaries %v\n", model.Boundaries)
		}
		if model.Responsibilities != nil {
			fmt.Printf("log-likelihood %.6g  iterations %d  converged %v\n", model.LogLik, model.Iterations, model.Converged)
		}
		for _, w := range model.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		return nil
	},
}

func init() {
	cdfCmd.Flags().StringVarP(&cdfMethod, "method", "m", "johnson", "estimator: mr, johnson, km, na")

	fitCmd.Flags().StringVarP(&fitFamily, "family", "f", "weibull", "distribution family")
	fitCmd.Flags().StringVarP(&fitMethod, "method", "m", "rr", "fit method: rr or ml")
	fitCmd.Flags().Float64VarP(&fitThreshold, "threshold", "t", 0, "fixed threshold for 3-parameter families (0 searches)")
	fitCmd.Flags().Float64Var(&fitLevel, "level", 0.9, "confidence level for bounds")

	separateCmd.Flags().StringVarP(&sepAlgorithm, "algorithm", "a", "segment", "separation algorithm: segment or em")
	separateCmd.Flags().StringVarP(&sepFamily, "family", "f", "weibull", "distribution family")
	separateCmd.Flags().IntVarP(&sepK, "k", "k", 0, "subgroup count (0 = automatic, segment only)")
	separateCmd.Flags().StringSliceVar(&sepSeeds, "seed", nil, "EM seeds, repeatable; best run wins")

	rootCmd.AddCommand(summaryCmd, cdfCmd, fitCmd, separateCmd)
}
