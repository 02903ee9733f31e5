package job

// Job is a job title an address book entry points at.
type Job struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}
