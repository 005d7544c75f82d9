package finance

import (
	"errors"
	"math"
	"testing"
)

const sampleReport = `Company: Apple
Period: Q4 2023

Revenue: $89.5 billion
Net Income: $22.96 billion
Operating Expenses: $13.46 billion
Employees: 161,000
`

func TestParseReport(t *testing.T) {
	rep, err := ParseReport(sampleReport)
	if err != nil {
		t.Fatalf("ParseReport() error = %v", err)
	}
	if rep.Company != "Apple" || rep.Period != "Q4 2023" {
		t.Errorf("header = %q %q", rep.Company, rep.Period)
	}
	if len(rep.Items) != 4 {
		t.Fatalf("got %d items, want 4", len(rep.Items))
	}

	tests := []struct {
		name  string
		value float64
		unit  string
	}{
		{"Revenue", 89.5e9, "$"},
		{"Net Income", 22.96e9, "$"},
		{"Operating Expenses", 13.46e9, "$"},
		{"Employees", 161000, ""},
	}
	for i, tt := range tests {
		item := rep.Items[i]
		if item.Name != tt.name {
			t.Errorf("items[%d].Name = %q, want %q", i, item.Name, tt.name)
		}
		if math.Abs(item.Value-tt.value) > 1e-3 {
			t.Errorf("items[%d].Value = %v, want %v", i, item.Value, tt.value)
		}
		if item.Unit != tt.unit {
			t.Errorf("items[%d].Unit = %q, want %q", i, item.Unit, tt.unit)
		}
	}
}

func TestParseReport_HeaderLine(t *testing.T) {
	rep, err := ParseReport("Microsoft - Q2 2024\n\nRevenue: $62.0 billion\n")
	if err != nil {
		t.Fatalf("ParseReport() error = %v", err)
	}
	if rep.Company != "Microsoft" || rep.Period != "Q2 2024" {
		t.Errorf("header = %q %q", rep.Company, rep.Period)
	}
}

func TestParseReport_Scales(t *testing.T) {
	rep, err := ParseReport("Company: Acme\nPeriod: 2023\nRevenue: $12.5 million\nDebt: $3 thousand\nMarket Cap: $1.2 trillion\n")
	if err != nil {
		t.Fatalf("ParseReport() error = %v", err)
	}
	want := []float64{12.5e6, 3e3, 1.2e12}
	for i, w := range want {
		if math.Abs(rep.Items[i].Value-w) > 1e-3 {
			t.Errorf("items[%d].Value = %v, want %v", i, rep.Items[i].Value, w)
		}
	}
}

func TestParseReport_Empty(t *testing.T) {
	if _, err := ParseReport("just prose, no metrics\n"); !errors.Is(err, ErrEmptyReport) {
		t.Errorf("error = %v, want ErrEmptyReport", err)
	}
}

func TestPeriodKey_Order(t *testing.T) {
	ordered := []string{"Q1 2022", "Q4 2022", "Q1 2023", "Q3 2023", "2023", "FY 2024"}
	for i := 1; i < len(ordered); i++ {
		if periodKey(ordered[i-1]) >= periodKey(ordered[i]) {
			t.Errorf("periodKey(%q) = %d not before periodKey(%q) = %d",
				ordered[i-1], periodKey(ordered[i-1]), ordered[i], periodKey(ordered[i]))
		}
	}
}

func TestNormalizeMetric(t *testing.T) {
	if normalizeMetric("  Net   Income ") != "net income" {
		t.Errorf("normalizeMetric = %q", normalizeMetric("  Net   Income "))
	}
}
