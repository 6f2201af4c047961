package parse

import (
	"iter"

	"github.com/sells-group/sitedata-cli/internal/model"
)

// HierarchyParser groups temperature rows under the region header that
// precedes them.
type HierarchyParser struct {
	Regions []string
	Detect  HeaderDetector
	Row     RowPattern[Temperatures]
}

// NewHierarchyParser returns a parser using the substring header heuristic.
// A nil regions list means DefaultRegions.
func NewHierarchyParser(regions []string, slack int) *HierarchyParser {
	if regions == nil {
		regions = DefaultRegions
	}
	return &HierarchyParser{
		Regions: regions,
		Detect:  SubstringHeader(slack),
		Row:     TemperatureRow(),
	}
}

// hierarchyState is the accumulator threaded through the line fold.
type hierarchyState struct {
	region string
	out    model.Hierarchy
}

// Parse folds lines into a Hierarchy with Max and Min set on every leaf.
func (p *HierarchyParser) Parse(lines iter.Seq[string]) model.Hierarchy {
	st := hierarchyState{region: model.RegionUnknown, out: model.Hierarchy{}}
	for line := range lines {
		st = p.step(st, line)
	}
	return st.out
}

func (p *HierarchyParser) step(st hierarchyState, line string) hierarchyState {
	if region, ok := p.Detect(line, p.Regions); ok {
		st.region = region
		st.out.EnsureRegion(region)
		return st
	}

	name, temps, ok := p.Row.Match(line)
	if !ok {
		return st
	}

	region := st.region
	if region == model.RegionUnknown {
		region = model.RegionGeneral
	}
	st.out.Put(region, name, &model.Record{
		Max: model.NumberPtr(temps.Max),
		Min: model.NumberPtr(temps.Min),
	})
	return st
}
