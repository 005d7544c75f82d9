package finance

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/corpora-kb/corpora/dataset"
)

func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	ds, err := dataset.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = ds.Close() })

	an, err := New(Options{Dataset: ds})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return an
}

func seedAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	an := newAnalyzer(t)
	ctx := context.Background()

	reports := []Report{
		{Company: "Apple", Period: "Q4 2022", Items: []LineItem{
			{Name: "Revenue", Value: 90.1e9, Unit: "$"},
			{Name: "Net Income", Value: 20.7e9, Unit: "$"},
		}},
		{Company: "Apple", Period: "Q4 2023", Items: []LineItem{
			{Name: "Revenue", Value: 89.5e9, Unit: "$"},
			{Name: "Net Income", Value: 22.96e9, Unit: "$"},
		}},
		{Company: "Microsoft", Period: "Q4 2023", Items: []LineItem{
			{Name: "Revenue", Value: 56.5e9, Unit: "$"},
			{Name: "Net Income", Value: 22.3e9, Unit: "$"},
		}},
	}
	for _, rep := range reports {
		if err := an.ImportReport(ctx, rep); err != nil {
			t.Fatalf("ImportReport() error = %v", err)
		}
	}
	return an
}

func TestNew_NilDataset(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("expected error for nil dataset")
	}
}

func TestAnalyzer_Metric(t *testing.T) {
	an := seedAnalyzer(t)
	ctx := context.Background()

	got, err := an.Metric(ctx, "Apple", "Revenue", "Q4 2023")
	if err != nil {
		t.Fatalf("Metric() error = %v", err)
	}
	if got != 89.5e9 {
		t.Errorf("Metric() = %v, want 89.5e9", got)
	}

	// Name lookup is case and whitespace insensitive.
	if _, err := an.Metric(ctx, "Apple", "net  income", "Q4 2023"); err != nil {
		t.Errorf("normalized lookup failed: %v", err)
	}

	_, err = an.Metric(ctx, "Apple", "EBITDA", "Q4 2023")
	if !errors.Is(err, ErrMetricNotFound) {
		t.Errorf("error = %v, want ErrMetricNotFound", err)
	}
}

func TestAnalyzer_ImportReport_ReplacesPeriod(t *testing.T) {
	an := seedAnalyzer(t)
	ctx := context.Background()

	err := an.ImportReport(ctx, Report{Company: "Apple", Period: "Q4 2023", Items: []LineItem{
		{Name: "Revenue", Value: 91e9, Unit: "$"},
	}})
	if err != nil {
		t.Fatalf("ImportReport() error = %v", err)
	}

	got, err := an.Metric(ctx, "Apple", "Revenue", "Q4 2023")
	if err != nil {
		t.Fatalf("Metric() error = %v", err)
	}
	if got != 91e9 {
		t.Errorf("Metric() = %v after re-import, want 91e9", got)
	}
}

func TestAnalyzer_Growth(t *testing.T) {
	an := seedAnalyzer(t)
	ctx := context.Background()

	pct, err := an.Growth(ctx, "Apple", "Net Income", "Q4 2022", "Q4 2023")
	if err != nil {
		t.Fatalf("Growth() error = %v", err)
	}
	want := (22.96e9 - 20.7e9) / 20.7e9 * 100
	if math.Abs(pct-want) > 1e-6 {
		t.Errorf("Growth() = %v, want %v", pct, want)
	}

	_, err = an.Growth(ctx, "Apple", "Revenue", "Q1 1999", "Q4 2023")
	if !errors.Is(err, ErrMetricNotFound) {
		t.Errorf("error = %v, want ErrMetricNotFound", err)
	}
}

func TestAnalyzer_Growth_ZeroBaseline(t *testing.T) {
	an := newAnalyzer(t)
	ctx := context.Background()
	err := an.ImportReport(ctx, Report{Company: "Acme", Period: "2022", Items: []LineItem{{Name: "Revenue", Value: 0}}})
	if err != nil {
		t.Fatalf("ImportReport() error = %v", err)
	}
	err = an.ImportReport(ctx, Report{Company: "Acme", Period: "2023", Items: []LineItem{{Name: "Revenue", Value: 10}}})
	if err != nil {
		t.Fatalf("ImportReport() error = %v", err)
	}

	_, err = an.Growth(ctx, "Acme", "Revenue", "2022", "2023")
	if !errors.Is(err, ErrZeroDenominator) {
		t.Errorf("error = %v, want ErrZeroDenominator", err)
	}
}

func TestAnalyzer_Margin(t *testing.T) {
	an := seedAnalyzer(t)

	pct, err := an.Margin(context.Background(), "Apple", "Q4 2023")
	if err != nil {
		t.Fatalf("Margin() error = %v", err)
	}
	want := 22.96e9 / 89.5e9 * 100
	if math.Abs(pct-want) > 1e-6 {
		t.Errorf("Margin() = %v, want %v", pct, want)
	}
}

func TestAnalyzer_Trend(t *testing.T) {
	an := seedAnalyzer(t)
	ctx := context.Background()

	trend, err := an.Trend(ctx, "Apple", "Net Income")
	if err != nil {
		t.Fatalf("Trend() error = %v", err)
	}
	if len(trend.Points) != 2 {
		t.Fatalf("got %d points, want 2", len(trend.Points))
	}
	if trend.Points[0].Period != "Q4 2022" || trend.Points[1].Period != "Q4 2023" {
		t.Errorf("period order = %q, %q", trend.Points[0].Period, trend.Points[1].Period)
	}
	if trend.Direction != TrendUp {
		t.Errorf("Direction = %q, want %q", trend.Direction, TrendUp)
	}

	down, err := an.Trend(ctx, "Apple", "Revenue")
	if err != nil {
		t.Fatalf("Trend() error = %v", err)
	}
	if down.Direction != TrendDown {
		t.Errorf("Direction = %q, want %q", down.Direction, TrendDown)
	}

	single, err := an.Trend(ctx, "Microsoft", "Revenue")
	if err != nil {
		t.Fatalf("Trend() error = %v", err)
	}
	if single.Direction != TrendFlat {
		t.Errorf("single point Direction = %q, want %q", single.Direction, TrendFlat)
	}
}

func TestAnalyzer_Compare(t *testing.T) {
	an := seedAnalyzer(t)
	ctx := context.Background()

	got, err := an.Compare(ctx, []string{"Microsoft", "Apple", "Initech"}, "Revenue", "Q4 2023")
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d comparisons, want 2", len(got))
	}
	if got[0].Company != "Apple" || got[1].Company != "Microsoft" {
		t.Errorf("order = %q, %q", got[0].Company, got[1].Company)
	}

	_, err = an.Compare(ctx, []string{"Initech"}, "Revenue", "Q4 2023")
	if !errors.Is(err, ErrMetricNotFound) {
		t.Errorf("error = %v, want ErrMetricNotFound", err)
	}
}

func TestAnalyzer_Compare_PropagatesStoreErrors(t *testing.T) {
	ds, err := dataset.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	an, err := New(Options{Dataset: ds})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_ = ds.Close()

	// A store failure must surface as-is, not as a missing metric.
	_, err = an.Compare(context.Background(), []string{"Apple"}, "Revenue", "Q4 2023")
	if !errors.Is(err, dataset.ErrClosed) {
		t.Errorf("error = %v, want dataset.ErrClosed", err)
	}
}

func TestAnalyzer_Search(t *testing.T) {
	an := seedAnalyzer(t)

	results, err := an.Search(context.Background(), "Microsoft revenue", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected search results")
	}
	for _, r := range results {
		if r.Record.Kind != KindMetric {
			t.Errorf("kind = %q, want %q", r.Record.Kind, KindMetric)
		}
	}
}
