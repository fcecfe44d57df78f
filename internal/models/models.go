package models

// SearchResult is one ranked retrieval hit. Lower distance means more
// similar; result lists are ordered by ascending distance.
type SearchResult struct {
	Document string  `json:"document"`
	Content  string  `json:"content"`
	Distance float32 `json:"distance"`
	Name     string  `json:"name"`
	Chunk    int     `json:"chunk"`
}

// LabeledChunk is a stored chunk with the candidate name resolved for
// its source document.
type LabeledChunk struct {
	Document string `json:"document"`
	Chunk    int    `json:"chunk"`
	Content  string `json:"content"`
	Name     string `json:"name"`
}

// Exchange is one query/response pair kept in the front end's session
// history and consumed by the feedback synthesis pass.
type Exchange struct {
	Query    string
	Response string
}
