package notifier

type Status int

const (
	Sent Status = 1 << iota
	SkippedNoCredentials
	FailedTransport
)

var StatusAlias = map[Status]string{
	Sent:                 "sent",
	SkippedNoCredentials: "skipped_no_credentials",
	FailedTransport:      "failed_transport",
}

func (status Status) String() string {
	if alias, isOkay := StatusAlias[status]; isOkay {
		return alias
	}
	return "unknown"
}

// Result is the outcome of one notification. Err is nil only for Sent.
type Result struct {
	Status     Status
	StatusCode int
	Err        error
}

func (result Result) Delivered() bool {
	return result.Status == Sent
}
