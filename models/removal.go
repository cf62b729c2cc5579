package models

// RemovalRecord represents one comment stripped from a source file.
type RemovalRecord struct {
	FilePath    string `json:"file_path"`    // Path of the file the comment was removed from
	LineNumber  int    `json:"line_number"`  // 1-based line number the comment started on
	CommentText string `json:"comment_text"` // The removed text, including the leading '#'
}

// FileRemovalCount pairs a file path with the number of comments removed from it.
type FileRemovalCount struct {
	FilePath string `json:"file_path"`
	Count    int    `json:"count"`
}
