package gen

import (
	json "github.com/goccy/go-json"
)

// ManifestName is the file name of the JSON generation manifest written
// next to the generated sources.
const ManifestName = "blizzgen_manifest.json"

// Manifest summarizes one generation run for tooling: the plugin
// identity, the dialect, the emitted files and the per-method binding
// surface. It contains nothing run-specific, so repeated runs over the
// same document are byte-identical.
type Manifest struct {
	Plugin  string           `json:"plugin"`
	Version string           `json:"version,omitempty"`
	Dialect string           `json:"dialect"`
	Files   []string         `json:"files"`
	Methods []ManifestMethod `json:"methods"`
}

// ManifestMethod is the manifest view of one compiled method.
type ManifestMethod struct {
	Name    string           `json:"name"`
	Params  []ManifestParam  `json:"params,omitempty"`
	Results []ManifestResult `json:"results,omitempty"`
}

// ManifestParam is one flattened parameter binding.
type ManifestParam struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// ManifestResult is one result slot with its wiring.
type ManifestResult struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Class    string `json:"class"`
	AutoFrom string `json:"auto_from,omitempty"`
}

// buildManifest renders the manifest file for a run.
func buildManifest(g *Graph, d Dialect, files []File) (File, error) {
	m := Manifest{
		Plugin:  g.Plugin.Name,
		Version: g.Plugin.Version,
		Dialect: d.Name(),
		Files:   make([]string, 0, len(files)),
	}
	for _, f := range files {
		m.Files = append(m.Files, f.Name)
	}
	for _, method := range g.Methods {
		mm := ManifestMethod{Name: method.Name}
		for _, p := range method.Params {
			mm.Params = append(mm.Params, ManifestParam{Type: p.Type, Name: p.Name})
		}
		for _, r := range method.Results {
			mm.Results = append(mm.Results, ManifestResult{
				Name:     r.Name,
				Type:     r.CType,
				Class:    r.Class.String(),
				AutoFrom: r.AutoFrom,
			})
		}
		m.Methods = append(m.Methods, mm)
	}
	buf, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return File{}, NewGenerationError("manifest", ManifestName, "encode manifest", err)
	}
	return File{Name: ManifestName, Content: append(buf, '\n')}, nil
}
