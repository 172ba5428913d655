package insights

import (
	"github.com/blackwell-systems/shopwatch/internal/features"
	"golang.org/x/sync/errgroup"
)

// Generate computes the full summary from the four feature tables plus an
// optional baseline. The six metric groups have no data dependency on each
// other and write disjoint fields, so they run concurrently; any contract
// violation aborts the whole run and no partial summary is returned.
// Given identical inputs the result is deterministic.
func Generate(sessions *features.SessionTable, users *features.UserTable,
	brands *features.BrandTable, categories *features.CategoryTable,
	baseline *Baseline, cfg Config) (*Summary, error) {

	var s Summary
	var g errgroup.Group

	g.Go(func() error {
		funnel, err := AnalyzeFunnel(sessions, cfg)
		if err != nil {
			return err
		}
		s.Funnel = funnel
		return nil
	})
	g.Go(func() error {
		segmentation, err := AnalyzeSegmentation(users, cfg)
		if err != nil {
			return err
		}
		s.Segmentation = segmentation
		return nil
	})
	g.Go(func() error {
		temporal, err := AnalyzeTemporal(sessions)
		if err != nil {
			return err
		}
		s.Temporal = temporal
		return nil
	})
	g.Go(func() error {
		perf, err := AnalyzeProductPerformance(brands, categories, cfg)
		if err != nil {
			return err
		}
		s.ProductPerformance = perf
		return nil
	})
	g.Go(func() error {
		revenue, err := AnalyzeRevenue(sessions, users)
		if err != nil {
			return err
		}
		s.Revenue = revenue
		return nil
	})
	g.Go(func() error {
		advanced, err := AnalyzeAdvanced(sessions, users, cfg)
		if err != nil {
			return err
		}
		s.Advanced = advanced
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.Insights = GenerateInsights(&s, baseline, cfg)
	return &s, nil
}
