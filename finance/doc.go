// Package finance analyzes financial report metrics stored in a dataset.
//
// Report text is parsed with regex heuristics: "Company:" and "Period:"
// header lines and metric lines like "Revenue: $391.0 billion". Scale words
// (thousand, million, billion, trillion) are normalized so every stored value
// is in plain units.
//
//	an, err := finance.New(finance.Options{Dataset: ds})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rep, err := finance.ParseReport(text)
//	err = an.ImportReport(ctx, rep)
//	rev, err := an.Metric(ctx, "Apple", "Revenue", "Q4 2023")
//	pct, err := an.Growth(ctx, "Apple", "Revenue", "Q4 2022", "Q4 2023")
//	trend, err := an.Trend(ctx, "Apple", "Revenue")
package finance
