package pipeline

type Request struct {
	Text string `json:"text"`
	Tid  string `json:"tid"`
}

// Response is the JSON document a pipeline emits for one request.
type Response struct {
	Tid         string   `json:"tid"`
	Text        string   `json:"text"`
	Perspective string   `json:"perspective,omitempty"`
	Alternates  []string `json:"alternates"`
	Reply       string   `json:"reply"`
	Error       string   `json:"error,omitempty"`
}

// Pipeline processes one request and emits its JSON encoded Response on the
// returned channel.
type Pipeline func(request Request) <-chan string
