package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hostel_picker/internal/domain"
	"hostel_picker/internal/matching"
)

type shortlistFlags struct {
	in      inputFlags
	profile domain.UserProfile

	maxPrice float64
	noise    float64
	age      float64

	k       int
	pool    int
	scoring string
}

func newShortlistCmd() *cobra.Command {
	var f shortlistFlags
	cmd := &cobra.Command{
		Use:   "shortlist",
		Short: "Rank an export against a traveller profile",
		Long:  "Filters the export by destination (falling back to the head of the table), scores every candidate and prints the top K as JSON.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShortlist(cmd, &f)
		},
	}
	f.in.bind(cmd)

	fl := cmd.Flags()
	fl.StringVar(&f.profile.Destination, "destination", "", "City to shortlist in")
	fl.Float64Var(&f.maxPrice, "max-price", domain.DefaultMaxPrice, "Ideal price per night")
	fl.StringVar(&f.profile.Vibe, "vibe", "", "Free-text vibe, e.g. \"social, chill\"")
	fl.Float64Var(&f.noise, "noise", domain.DefaultNoiseLevel, "Preferred noise level 0-100")
	fl.Float64Var(&f.age, "age", domain.DefaultAge, "Traveller age")
	fl.StringVar(&f.profile.Size, "size", "", "Preferred venue size: small, medium or large")
	fl.StringVar(&f.profile.NationalityPref, "nationality", "", "Preferred guest nationality")
	fl.StringVar(&f.profile.Requirements, "requirements", "", "Free-text requirements, e.g. \"pool, coworking\"")
	fl.BoolVar(&f.profile.NomadMode, "nomad", false, "Weigh digital nomad suitability higher")
	fl.BoolVar(&f.profile.SoloMode, "solo", false, "Weigh solo traveller suitability higher")
	fl.IntVar(&f.k, "k", matching.DefaultK, "Shortlist size")
	fl.IntVar(&f.pool, "fallback-pool", 0, "Rows taken from the head of the table when nothing matches (default: k)")
	fl.StringVar(&f.scoring, "config", "", "Path to a scoring config JSON overlay")
	return cmd
}

func runShortlist(cmd *cobra.Command, f *shortlistFlags) error {
	if f.k < 1 {
		return fmt.Errorf("--k must be at least 1, got %d", f.k)
	}
	fl := cmd.Flags()
	if fl.Changed("max-price") {
		f.profile.MaxPrice = domain.Float(f.maxPrice)
	}
	if fl.Changed("noise") {
		f.profile.NoiseLevel = domain.Float(f.noise)
	}
	if fl.Changed("age") {
		f.profile.Age = domain.Float(f.age)
	}

	cfg, err := matching.LoadConfig(f.scoring)
	if err != nil {
		return err
	}
	records, err := f.in.load(cmd.Context())
	if err != nil {
		return err
	}

	res := matching.NewEngine(cfg).Select(records, f.profile, matching.Options{K: f.k, FallbackPool: f.pool})
	return writeJSON(cmd.OutOrStdout(), res)
}
