package entity

// ParsedNote is one record of the staging artifact produced by the upstream
// parser. Records are immutable once handed to the ingestion service.
type ParsedNote struct {
	Id       string                 `json:"id"`
	Title    string                 `json:"title"`
	Body     string                 `json:"body"`
	Notebook string                 `json:"notebook,omitempty"`
	Tags     []string               `json:"tags,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}
