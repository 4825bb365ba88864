package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"qualibot.com/qualifier/pipeline"
)

type echoPipeline struct {
	mu       sync.Mutex
	requests []pipeline.Request
}

func (echo *echoPipeline) run(request pipeline.Request) <-chan string {
	echo.mu.Lock()
	echo.requests = append(echo.requests, request)
	echo.mu.Unlock()

	out := make(chan string, 1)
	buf, _ := json.Marshal(pipeline.Response{Tid: request.Tid, Text: request.Text, Reply: strings.ToUpper(request.Text)})
	out <- string(buf)
	close(out)
	return out
}

func newServer(echo *echoPipeline) *httptest.Server {
	return httptest.NewServer(NewServeMux(&Request{Pipeline: echo.run, BatchLimit: 2}))
}

func TestProcessData(t *testing.T) {
	echo := &echoPipeline{}
	server := newServer(echo)
	defer server.Close()

	req, err := http.NewRequest(http.MethodPost, server.URL+"/", strings.NewReader("I am happy."))
	require.NoError(t, err)
	req.Header.Set(TidHeader, "tid-1")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var response pipeline.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	require.Equal(t, pipeline.Response{Tid: "tid-1", Text: "I am happy.", Reply: "I AM HAPPY."}, response)
}

func TestProcessDataGeneratesTid(t *testing.T) {
	echo := &echoPipeline{}
	server := newServer(echo)
	defer server.Close()

	resp, err := http.Post(server.URL+"/", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Post(server.URL+"/?tid=from-query", "text/plain", strings.NewReader("y"))
	require.NoError(t, err)
	resp.Body.Close()

	require.Len(t, echo.requests, 2)
	require.Len(t, echo.requests[0].Tid, 36)
	require.Equal(t, "from-query", echo.requests[1].Tid)
}

func TestMethodNotAllowed(t *testing.T) {
	server := newServer(&echoPipeline{})
	defer server.Close()

	for _, path := range []string{"/", "/batch"} {
		resp, err := http.Get(server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, path)
	}
}

func TestProcessBatch(t *testing.T) {
	echo := &echoPipeline{}
	server := newServer(echo)
	defer server.Close()

	texts := make([]string, 5)
	for i := range texts {
		texts[i] = fmt.Sprintf("text %d.", i)
	}
	body, err := json.Marshal(BatchRequest{Texts: texts})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, server.URL+"/batch", strings.NewReader(string(body)))
	require.NoError(t, err)
	req.Header.Set(TidHeader, "batch")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var responses []pipeline.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&responses))
	require.Len(t, responses, len(texts))
	for i, response := range responses {
		require.Equal(t, texts[i], response.Text)
		require.Equal(t, fmt.Sprintf("batch-%d", i), response.Tid)
	}
	require.Len(t, echo.requests, len(texts))
}

func TestProcessBatchBadBody(t *testing.T) {
	server := newServer(&echoPipeline{})
	defer server.Close()

	resp, err := http.Post(server.URL+"/batch", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
