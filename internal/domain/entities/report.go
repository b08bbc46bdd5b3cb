package entities

// Fixes maps an original version range to the range that replaces it.
type Fixes = OrderedMap[string]

// ReportItem describes one dependency declared with more than one range.
type ReportItem struct {
	Versions []DependencyUsage `json:"versions"`
	Fixes    *Fixes            `json:"fixes"`
}

// ReportItems maps a dependency name to its report item.
type ReportItems = OrderedMap[*ReportItem]

// NewReportItems creates an empty ReportItems collection.
func NewReportItems() *ReportItems {
	return NewOrderedMap[*ReportItem]()
}

// Report splits the misaligned dependencies into the ones that a single
// version could satisfy (Deduped) and the ones it cannot (Mismatched).
// A dependency name never appears in both.
type Report struct {
	Mismatched *ReportItems `json:"mismatched"`
	Deduped    *ReportItems `json:"deduped"`
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{Mismatched: NewReportItems(), Deduped: NewReportItems()}
}

// Get looks a dependency up in both collections.
func (r *Report) Get(name string) (*ReportItem, bool) {
	if item, ok := r.Deduped.Get(name); ok {
		return item, true
	}
	return r.Mismatched.Get(name)
}

// Remove drops a dependency from the report.
func (r *Report) Remove(name string) {
	r.Deduped.Delete(name)
	r.Mismatched.Delete(name)
}

// Empty reports whether there is nothing left to report.
func (r *Report) Empty() bool {
	return r.Deduped.Len() == 0 && r.Mismatched.Len() == 0
}
