package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"bimbuddy/internal/bimclient"
	"bimbuddy/internal/domain"
	"bimbuddy/internal/selection"
	"bimbuddy/pkg/ctxutil"
)

// Translator is the subset of the dictionary client used for dispatching.
type Translator interface {
	Translate(ctx context.Context, text string) (domain.TranslateResponse, error)
}

// Request identifies one translate dispatch.
type Request struct {
	Seq  uint64
	ID   string
	Text string
}

// Completion is the outcome of executing a Request.
type Completion struct {
	Request  Request
	Response domain.TranslateResponse
	Err      error
	Took     time.Duration
}

// Dispatcher sends user text to the dictionary service and feeds the result
// into the selection machine. Begin, Complete and Clear must be called from a
// single goroutine; Execute may run anywhere.
type Dispatcher struct {
	client  Translator
	machine *selection.Machine
	timeout time.Duration
	log     *slog.Logger

	seq  uint64
	busy bool
	err  string
}

// NewDispatcher wires a dispatcher to its client and selection machine.
func NewDispatcher(client Translator, machine *selection.Machine, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{
		client:  client,
		machine: machine,
		timeout: timeout,
		log:     logger.With("component", "dispatcher"),
	}
}

// Begin validates text and opens a new dispatch. Blank text is rejected with
// domain.ErrEmptyInput and leaves the current results untouched.
func (d *Dispatcher) Begin(text string) (Request, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		d.err = domain.MsgEmptyInput
		return Request{}, domain.ErrEmptyInput
	}
	d.seq++
	d.busy = true
	d.err = ""
	d.machine.Clear()
	req := Request{Seq: d.seq, ID: uuid.NewString(), Text: trimmed}
	d.log.Debug("dispatch",
		slog.Uint64("seq", req.Seq),
		slog.String("request_id", req.ID),
		slog.Int("chars", len(trimmed)),
	)
	return req, nil
}

// Execute performs the request. A panic while talking to the service is
// turned into an error so the completion always reaches Complete.
func (d *Dispatcher) Execute(ctx context.Context, req Request) (c Completion) {
	c.Request = req
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			c.Response = domain.TranslateResponse{}
			c.Err = fmt.Errorf("service: translate: %w: %v", bimclient.ErrInvalidResponse, r)
		}
		c.Took = time.Since(start)
	}()

	ctx = ctxutil.WithRequestID(ctx, req.ID)
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	resp, err := d.client.Translate(ctx, req.Text)
	if err != nil {
		c.Err = err
		return c
	}
	c.Response = resp
	return c
}

// Complete applies a completion. Completions of superseded requests are
// dropped and reported as false.
func (d *Dispatcher) Complete(c Completion) bool {
	log := d.log.With(slog.Uint64("seq", c.Request.Seq), slog.String("request_id", c.Request.ID))
	if c.Request.Seq != d.seq {
		log.Debug("stale translate response dropped", slog.Uint64("latest", d.seq))
		return false
	}
	d.busy = false

	if c.Err != nil {
		kind, msg := Describe(c.Err)
		log.Warn("translate failed",
			slog.String("kind", kind.String()),
			slog.String("error", c.Err.Error()),
			slog.Duration("took", c.Took),
		)
		d.err = msg
		d.machine.Fail(kind, msg)
		return true
	}

	st := d.machine.Load(c.Response.Results, fullPhrase(c.Response))
	if nf, ok := st.(selection.NotFound); ok {
		d.err = nf.Message
	}
	log.Info("translate done",
		slog.Int("results", len(c.Response.Results)),
		slog.String("state", stateName(st)),
		slog.Duration("took", c.Took),
	)
	return true
}

// Clear drops results and errors. A request still in flight is superseded.
func (d *Dispatcher) Clear() {
	if d.busy {
		d.seq++
	}
	d.busy = false
	d.err = ""
	d.machine.Clear()
}

// DismissError drops the message left by the last dispatch without touching
// results.
func (d *Dispatcher) DismissError() { d.err = "" }

// Busy reports whether the latest dispatch is still outstanding.
func (d *Dispatcher) Busy() bool { return d.busy }

// Err returns the message to show for the last dispatch, if any.
func (d *Dispatcher) Err() string { return d.err }

// Describe maps an error to its kind and the message shown to the user.
func Describe(err error) (domain.ErrorKind, string) {
	if errors.Is(err, domain.ErrEmptyInput) {
		return domain.KindValidation, domain.MsgEmptyInput
	}
	var se *bimclient.StatusError
	if errors.As(err, &se) {
		if se.Message != "" {
			return domain.KindServer, "Error: " + se.Message
		}
		return domain.KindServer, fmt.Sprintf("Error: HTTP error! status: %d", se.Code)
	}
	if errors.Is(err, bimclient.ErrInvalidResponse) {
		return domain.KindServer, "Error: " + bimclient.ErrInvalidResponse.Error()
	}
	return domain.KindTransport, "Error: " + domain.MsgConnectFailed
}

// fullPhrase honours the entry-level flag when the service returns a single
// phrase entry without setting the top-level one.
func fullPhrase(resp domain.TranslateResponse) bool {
	if resp.IsFullPhrase {
		return true
	}
	return len(resp.Results) == 1 && resp.Results[0].IsFullPhrase
}

func stateName(st selection.State) string {
	switch st.(type) {
	case selection.FullPhrase:
		return "full_phrase"
	case selection.MultiWord:
		return "multi_word"
	case selection.SingleWord:
		return "single_word"
	case selection.NotFound:
		return "not_found"
	default:
		return "idle"
	}
}
