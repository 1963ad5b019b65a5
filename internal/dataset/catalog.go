// Package dataset describes the CASIA handwriting datasets and their local
// cache layout. It supplies the byte streams the GNT decoder consumes, so the
// decoder itself never touches the filesystem.
package dataset

// Kind is the record format a dataset ships in.
type Kind string

const (
	// KindGNT marks datasets stored as GNT record streams.
	KindGNT Kind = "GNT"
)

// Descriptor identifies one downloadable dataset.
type Descriptor struct {
	Name        string
	URL         string
	Kind        Kind
	Description string
}

// The download page is the NLPR institute's own hosting; URLs come from the
// published dataset index.
var catalog = []Descriptor{
	{
		Name:        "competition-gnt",
		URL:         "http://www.nlpr.ia.ac.cn/databases/Download/competition/competition-gnt.zip",
		Kind:        KindGNT,
		Description: "ICDAR 2013 competition set",
	},
	{
		Name:        "HWDB1.1trn_gnt_P1",
		URL:         "http://www.nlpr.ia.ac.cn/databases/Download/feature_data/HWDB1.1trn_gnt_P1.zip",
		Kind:        KindGNT,
		Description: "HWDB 1.1 training set, part 1",
	},
	{
		Name:        "HWDB1.1trn_gnt_P2",
		URL:         "http://www.nlpr.ia.ac.cn/databases/Download/feature_data/HWDB1.1trn_gnt_P2.zip",
		Kind:        KindGNT,
		Description: "HWDB 1.1 training set, part 2",
	},
	{
		Name:        "HWDB1.1tst_gnt",
		URL:         "http://www.nlpr.ia.ac.cn/databases/download/feature_data/HWDB1.1tst_gnt.zip",
		Kind:        KindGNT,
		Description: "HWDB 1.1 test set",
	},
}

// Catalog returns all known datasets.
func Catalog() []Descriptor {
	out := make([]Descriptor, len(catalog))
	copy(out, catalog)
	return out
}

// ByName looks up a dataset descriptor.
func ByName(name string) (Descriptor, bool) {
	for _, d := range catalog {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// GNTDatasets returns the datasets holding GNT character streams.
func GNTDatasets() []Descriptor {
	var out []Descriptor
	for _, d := range catalog {
		if d.Kind == KindGNT {
			out = append(out, d)
		}
	}
	return out
}
