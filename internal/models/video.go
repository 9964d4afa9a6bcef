package models

// VideoResult is one flat search hit from the video extractor.
type VideoResult struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	URL      string  `json:"url"`
	Channel  string  `json:"channel,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// DownloadedFile is a finished download on local disk.
type DownloadedFile struct {
	Path     string
	Filename string
}
