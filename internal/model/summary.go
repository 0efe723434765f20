package model

// FilterSummary is an immutable snapshot of one validation/filter pass.
type FilterSummary struct {
	TotalInput       int
	Invalid          int
	FilteredByRegion int
	FilteredByAmount int
	FinalCount       int
}
