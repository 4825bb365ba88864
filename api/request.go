package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"qualibot.com/qualifier/pipeline"
)

const (
	TidHeader = "X-Request-Id"

	defaultBatchLimit = 8
)

type Request struct {
	Pipeline pipeline.Pipeline
	// sentences of one batch processed at the same time
	BatchLimit int
}

type BatchRequest struct {
	Texts []string `json:"texts"`
}

func requestTid(r *http.Request) string {
	if tid := r.Header.Get(TidHeader); tid != "" {
		return tid
	}
	if tid := r.URL.Query().Get("tid"); tid != "" {
		return tid
	}
	return uuid.NewString()
}

// ProcessData qualifies the raw request body.
func (req *Request) ProcessData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	logger := makeRequestLogger(r)

	if r.Method != http.MethodPost {
		logger.Err(nil).Int("status", http.StatusMethodNotAllowed).Msg("Only 'POST' method is allowed here")
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	msg, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Err(err).Int("status", http.StatusBadRequest).Msg("Could not read request body")
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	request := pipeline.Request{
		Tid:  requestTid(r),
		Text: string(msg),
	}
	logger.Info().Str("tid", request.Tid).Msg("Starting pipeline for request from API")
	resp := <-req.Pipeline(request)
	_, _ = w.Write([]byte(resp))
	logger.Info().Int("status", http.StatusOK).Msg("Finished processing request")
}

// ProcessBatch qualifies every text of a {"texts": [...]} body and answers
// with the responses in request order.
func (req *Request) ProcessBatch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	logger := makeRequestLogger(r)

	if r.Method != http.MethodPost {
		logger.Err(nil).Int("status", http.StatusMethodNotAllowed).Msg("Only 'POST' method is allowed here")
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	var batch BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		logger.Err(err).Int("status", http.StatusBadRequest).Msg("Could not decode batch request")
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	limit := req.BatchLimit
	if limit <= 0 {
		limit = defaultBatchLimit
	}

	tid := requestTid(r)
	logger = logger.With().Str("tid", tid).Logger()
	logger.Info().Int("texts", len(batch.Texts)).Msg("Starting batch from API")

	responses := make([]json.RawMessage, len(batch.Texts))
	group, ctx := errgroup.WithContext(r.Context())
	group.SetLimit(limit)
	for i, text := range batch.Texts {
		i, text := i, text
		group.Go(func() error {
			request := pipeline.Request{Tid: batchTid(tid, i), Text: text}
			select {
			case resp := <-req.Pipeline(request):
				responses[i] = json.RawMessage(resp)
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}
	if err := group.Wait(); err != nil {
		logger.Err(err).Msg("Batch interrupted")
		http.Error(w, "", http.StatusServiceUnavailable)
		return
	}

	buf, err := json.Marshal(responses)
	if err != nil {
		logger.Err(err).Int("status", http.StatusInternalServerError).Msg("Failed to marshall batch response")
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(buf)
	logger.Info().Int("status", http.StatusOK).Msg("Finished processing batch")
}

func batchTid(tid string, i int) string {
	return fmt.Sprintf("%s-%d", tid, i)
}
