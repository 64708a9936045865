package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agentstation/modelreg/internal/server/events"
	"github.com/agentstation/modelreg/internal/server/response"
	"github.com/agentstation/modelreg/pkg/constants"
	"github.com/agentstation/modelreg/pkg/verify"
)

// VerifyRequest is the optional POST /v1/verify body.
type VerifyRequest struct {
	Concurrency int `json:"concurrency,omitempty"`
}

// VerifySummary is the VerifyFinished event payload and the head of the
// POST /v1/verify response.
type VerifySummary struct {
	Total    int           `json:"total"`
	Passed   int           `json:"passed"`
	Missing  int           `json:"missing"`
	Errored  int           `json:"errored"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration"`
}

// VerifyResponse is the POST /v1/verify response.
type VerifyResponse struct {
	VerifySummary
	Results []verify.Result `json:"results"`
}

func summarize(report *verify.Report) VerifySummary {
	return VerifySummary{
		Total:    report.Total(),
		Passed:   report.Passed(),
		Missing:  report.Missing(),
		Errored:  report.Errored(),
		Failed:   report.Failed(),
		Duration: report.Finished.Sub(report.Started),
	}
}

// HandleVerify handles POST /v1/verify. It checks every registered
// identifier against the hub, publishing progress to the stream endpoints,
// and answers with the full report. Only one run may be active at a time.
func (h *Handlers) HandleVerify(w http.ResponseWriter, r *http.Request) {
	req := VerifyRequest{Concurrency: h.app.Settings().Concurrency}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil && err != io.EOF {
		response.BadRequest(w, "Invalid JSON request body", err.Error())
		return
	}
	if req.Concurrency < 1 || req.Concurrency > constants.MaxConcurrency {
		response.BadRequest(w, "Invalid concurrency",
			fmt.Sprintf("concurrency must be between 1 and %d", constants.MaxConcurrency))
		return
	}

	if !h.verifying.CompareAndSwap(false, true) {
		response.Conflict(w, "Verification already running", "Retry when the current run has finished")
		return
	}
	defer h.verifying.Store(false)

	reg, err := h.app.Registry(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}
	catalog, err := h.app.Catalog()
	if err != nil {
		response.InternalError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constants.VerifyTimeout)
	defer cancel()

	h.broker.Publish(events.VerifyStarted, map[string]any{"total": reg.Len(), "concurrency": req.Concurrency})
	report := verify.New(catalog,
		verify.WithConcurrency(req.Concurrency),
		verify.WithLogger(h.logger),
		verify.WithObserver(func(res verify.Result) {
			h.broker.Publish(events.VerifyResult, res)
		}),
	).Run(ctx, reg)

	summary := summarize(report)
	h.broker.Publish(events.VerifyFinished, summary)
	response.OK(w, VerifyResponse{VerifySummary: summary, Results: report.Results})
}
