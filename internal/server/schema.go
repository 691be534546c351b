package server

import "net/http"

// endpointSpec describes one POST endpoint for client registration.
func endpointSpec(name, description string, required []string, props map[string]string) map[string]any {
	properties := map[string]any{}
	for k, typ := range props {
		properties[k] = map[string]any{"type": typ}
	}
	return map[string]any{
		"name":        name,
		"description": description,
		"inputSchema": map[string]any{
			"type":                 "object",
			"properties":           properties,
			"required":             required,
			"additionalProperties": false,
		},
	}
}

var requestProps = map[string]string{
	"functions": "array",
	"xmin":      "number",
	"xmax":      "number",
	"npoints":   "integer",
}

// Schema lists the POST endpoints and their request body.
func Schema() []map[string]any {
	return []map[string]any{
		endpointSpec("/analyze", "Analyze one function, or two functions and their intersections. Responds with JSON.",
			[]string{"functions"}, requestProps),
		endpointSpec("/plot", "Same analysis rendered as a PNG image.",
			[]string{"functions"}, requestProps),
	}
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"endpoints": Schema()})
}
