package rag

// Mode is passed through to the prompt verbatim. No mode changes which
// documents are used.
type Mode string

const (
	ModeNaive  Mode = "naive"
	ModeLocal  Mode = "local"
	ModeGlobal Mode = "global"
	ModeHybrid Mode = "hybrid"
)

type InsertRequest struct {
	Text string `json:"text"`
}

// InsertResult reports the store size after an insert. Lang is the
// detected language code, empty when detection was not reliable.
type InsertResult struct {
	Total int    `json:"total"`
	Lang  string `json:"lang"`
}

type DocumentsResponse struct {
	Total     int      `json:"total"`
	Documents []string `json:"documents"`
}

type QueryRequest struct {
	Query string `json:"query"`
	Mode  Mode   `json:"mode,omitempty"`
}

type QueryResponse struct {
	Answer string `json:"answer"`
}

type EmbedRequest struct {
	Texts []string `json:"texts"`
}

type EmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

type ModelsResponse struct {
	Models []string `json:"models"`
}
