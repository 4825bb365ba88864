package api

import "net/http"

// NewServeMux routes the qualifier endpoints.
func NewServeMux(req *Request) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", req.ProcessData)
	mux.HandleFunc("/batch", req.ProcessBatch)
	return mux
}
