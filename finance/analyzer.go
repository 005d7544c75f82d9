package finance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/corpora-kb/corpora/dataset"
	"github.com/corpora-kb/corpora/search"
)

// Options configures an Analyzer.
type Options struct {
	// Dataset is the record store. Required.
	Dataset *dataset.Dataset

	// Searcher overrides the search implementation. When nil a BM25
	// searcher over the dataset is created.
	Searcher *search.Searcher
}

// Analyzer stores reports and answers metric queries.
type Analyzer struct {
	ds       *dataset.Dataset
	searcher *search.Searcher
}

// New creates an Analyzer with the given options.
func New(opts Options) (*Analyzer, error) {
	if opts.Dataset == nil {
		return nil, search.ErrNilDataset
	}
	searcher := opts.Searcher
	if searcher == nil {
		var err error
		searcher, err = search.New(search.Options{Dataset: opts.Dataset})
		if err != nil {
			return nil, err
		}
	}
	return &Analyzer{ds: opts.Dataset, searcher: searcher}, nil
}

// ImportReport stores a report's line items as metric records, replacing any
// previously stored values for the same company and period.
func (a *Analyzer) ImportReport(ctx context.Context, rep Report) error {
	if rep.Company == "" || len(rep.Items) == 0 {
		return ErrEmptyReport
	}

	stale, err := a.ds.Filter(ctx, dataset.Filter{
		Kind:  KindMetric,
		Where: dataset.Metadata{"company": rep.Company, "period": rep.Period},
	})
	if err != nil {
		return err
	}
	for _, rec := range stale {
		if err := a.ds.Delete(ctx, rec.ID); err != nil {
			return err
		}
	}

	err = a.ds.Upsert(ctx, dataset.Record{
		ID:      fmt.Sprintf("report:%s:%s", rep.Company, rep.Period),
		Kind:    KindReport,
		Content: fmt.Sprintf("%s %s report with %d line items", rep.Company, rep.Period, len(rep.Items)),
		Metadata: dataset.Metadata{
			"company": rep.Company,
			"period":  rep.Period,
			"items":   len(rep.Items),
		},
	})
	if err != nil {
		return fmt.Errorf("finance: store report: %w", err)
	}

	for _, item := range rep.Items {
		metric := normalizeMetric(item.Name)
		err := a.ds.Upsert(ctx, dataset.Record{
			ID:      fmt.Sprintf("metric:%s:%s:%s", rep.Company, rep.Period, metric),
			Kind:    KindMetric,
			Content: fmt.Sprintf("%s %s %s: %.2f", rep.Company, rep.Period, item.Name, item.Value),
			Metadata: dataset.Metadata{
				"company": rep.Company,
				"period":  rep.Period,
				"metric":  metric,
				"name":    item.Name,
				"value":   item.Value,
				"unit":    item.Unit,
			},
		})
		if err != nil {
			return fmt.Errorf("finance: store metric %s: %w", item.Name, err)
		}
	}
	return nil
}

// Metric returns a stored metric value for a company and period.
func (a *Analyzer) Metric(ctx context.Context, company, name, period string) (float64, error) {
	recs, err := a.ds.Filter(ctx, dataset.Filter{
		Kind: KindMetric,
		Where: dataset.Metadata{
			"company": company,
			"period":  period,
			"metric":  normalizeMetric(name),
		},
	})
	if err != nil {
		return 0, err
	}
	if len(recs) == 0 {
		return 0, fmt.Errorf("finance: %w: %s %s %s", ErrMetricNotFound, company, name, period)
	}
	value, _ := recs[0].MetaFloat("value")
	return value, nil
}

// Growth returns the percent change of a metric between two periods.
func (a *Analyzer) Growth(ctx context.Context, company, name, fromPeriod, toPeriod string) (float64, error) {
	from, err := a.Metric(ctx, company, name, fromPeriod)
	if err != nil {
		return 0, err
	}
	to, err := a.Metric(ctx, company, name, toPeriod)
	if err != nil {
		return 0, err
	}
	if from == 0 {
		return 0, fmt.Errorf("finance: growth of %s from %s: %w", name, fromPeriod, ErrZeroDenominator)
	}
	return (to - from) / math.Abs(from) * 100, nil
}

// Margin returns net income as a percentage of revenue for a period.
func (a *Analyzer) Margin(ctx context.Context, company, period string) (float64, error) {
	revenue, err := a.Metric(ctx, company, "Revenue", period)
	if err != nil {
		return 0, err
	}
	net, err := a.Metric(ctx, company, "Net Income", period)
	if err != nil {
		return 0, err
	}
	if revenue == 0 {
		return 0, fmt.Errorf("finance: margin for %s %s: %w", company, period, ErrZeroDenominator)
	}
	return net / revenue * 100, nil
}

// Trend returns a metric's per-period series in chronological order with an
// overall direction. A single data point is flat.
func (a *Analyzer) Trend(ctx context.Context, company, name string) (Trend, error) {
	metric := normalizeMetric(name)
	recs, err := a.ds.Filter(ctx, dataset.Filter{
		Kind:  KindMetric,
		Where: dataset.Metadata{"company": company, "metric": metric},
	})
	if err != nil {
		return Trend{}, err
	}
	if len(recs) == 0 {
		return Trend{}, fmt.Errorf("finance: %w: %s %s", ErrMetricNotFound, company, name)
	}

	trend := Trend{Metric: metric, Direction: TrendFlat}
	for _, rec := range recs {
		value, _ := rec.MetaFloat("value")
		trend.Points = append(trend.Points, Point{Period: rec.MetaString("period"), Value: value})
	}
	sort.SliceStable(trend.Points, func(i, j int) bool {
		return periodKey(trend.Points[i].Period) < periodKey(trend.Points[j].Period)
	})

	first, last := trend.Points[0].Value, trend.Points[len(trend.Points)-1].Value
	switch {
	case last > first:
		trend.Direction = TrendUp
	case last < first:
		trend.Direction = TrendDown
	}
	return trend, nil
}

// Compare returns each company's value for a metric in one period, highest
// first. Companies without the metric are skipped; if none have it the error
// is ErrMetricNotFound.
func (a *Analyzer) Compare(ctx context.Context, companies []string, name, period string) ([]Comparison, error) {
	var out []Comparison
	for _, company := range companies {
		value, err := a.Metric(ctx, company, name, period)
		if errors.Is(err, ErrMetricNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, Comparison{Company: company, Value: value})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("finance: %w: %s %s", ErrMetricNotFound, name, period)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out, nil
}

// Search runs a relevance query over metric records.
func (a *Analyzer) Search(ctx context.Context, query string, limit int) (search.Results, error) {
	return a.searcher.SearchFilter(ctx, dataset.Filter{Kind: KindMetric}, query, limit)
}
