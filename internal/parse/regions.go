package parse

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// DefaultRegions lists the states and union territories recognised as
// region headers in the temperature table.
var DefaultRegions = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh",
	"Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka",
	"Kerala", "Madhya Pradesh", "Maharashtra", "Manipur", "Meghalaya", "Mizoram",
	"Nagaland", "Odisha", "Punjab", "Rajasthan", "Sikkim", "Tamil Nadu",
	"Telangana", "Tripura", "Uttar Pradesh", "Uttarakhand", "West Bengal",
	"Andaman & Nicobar", "Chandigarh", "Dadra & Nagar Haveli", "Daman & Diu",
	"Delhi", "Lakshadweep", "Puducherry",
}

// LoadRegions reads a region reference list from a YAML file of the form
//
//	regions:
//	  - Kerala
//	  - Tamil Nadu
//
// Order is kept: earlier entries win when a header line matches several.
func LoadRegions(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "parse: read regions %s", path)
	}

	var doc struct {
		Regions []string `yaml:"regions"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(err, "parse: decode regions %s", path)
	}

	seen := make(map[string]bool, len(doc.Regions))
	regions := make([]string, 0, len(doc.Regions))
	for _, r := range doc.Regions {
		r = strings.TrimSpace(r)
		key := strings.ToLower(r)
		if r == "" || seen[key] {
			continue
		}
		seen[key] = true
		regions = append(regions, r)
	}
	if len(regions) == 0 {
		return nil, eris.Errorf("parse: regions file %s lists no regions", path)
	}
	return regions, nil
}
