package inbound

type CodeIssueRequest struct {
	Interval *int64 `json:"interval"`
	ID       string `json:"id"`
}

type CodeIssueResponse struct {
	Code     uint32 `json:"code"`
	Interval uint64 `json:"interval"`
	ID       string `json:"id,omitempty"`
}

type CodeVerifyRequest struct {
	Code     *uint32 `json:"code"`
	Interval *int64  `json:"interval"`
	ID       string  `json:"id"`
}
