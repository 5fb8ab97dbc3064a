package app

// UploadResultMsg carries the outcome of a transcript upload.
type UploadResultMsg struct {
	Seq  uint64
	Text string
	Err  error
}

// SummaryResultMsg carries the outcome of a summarize call. Source is the
// transcript the request was made with.
type SummaryResultMsg struct {
	Source  string
	Summary string
	Err     error
}

// EmailResultMsg carries the outcome of a send-email call.
type EmailResultMsg struct {
	Seq uint64
	Err error
}
