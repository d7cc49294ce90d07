// Package testutil provides an in-memory controller and fixture documents
// for onboarding tests.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/newtron-network/pnpclaim/pkg/util"
)

// Call records one request made against a FakeController.
type Call struct {
	Method string
	Path   string
	Body   []byte
}

// FakeController answers Get/Post with canned JSON documents keyed by
// method and path. Several replies queued for the same key are served in
// order; the last one repeats.
type FakeController struct {
	mu      sync.Mutex
	replies map[string][]string
	errs    map[string]error
	calls   []Call
}

// NewFakeController creates an empty fake.
func NewFakeController() *FakeController {
	return &FakeController{
		replies: make(map[string][]string),
		errs:    make(map[string]error),
	}
}

func key(method, path string) string { return method + " " + path }

// OnGet queues a JSON reply for GET path.
func (f *FakeController) OnGet(path, reply string) *FakeController {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[key("GET", path)] = append(f.replies[key("GET", path)], reply)
	return f
}

// OnPost queues a JSON reply for POST path.
func (f *FakeController) OnPost(path, reply string) *FakeController {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[key("POST", path)] = append(f.replies[key("POST", path)], reply)
	return f
}

// FailGet makes GET path return err.
func (f *FakeController) FailGet(path string, err error) *FakeController {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[key("GET", path)] = err
	return f
}

// FailPost makes POST path return err.
func (f *FakeController) FailPost(path string, err error) *FakeController {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[key("POST", path)] = err
	return f
}

// Get implements pnp.Controller.
func (f *FakeController) Get(ctx context.Context, path string, out any) error {
	return f.serve(ctx, "GET", path, nil, out)
}

// Post implements pnp.Controller.
func (f *FakeController) Post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return f.serve(ctx, "POST", path, data, out)
}

func (f *FakeController) serve(ctx context.Context, method, path string, body []byte, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	f.calls = append(f.calls, Call{Method: method, Path: path, Body: body})
	k := key(method, path)
	if err, ok := f.errs[k]; ok {
		f.mu.Unlock()
		return err
	}
	queue := f.replies[k]
	if len(queue) == 0 {
		f.mu.Unlock()
		return fmt.Errorf("fake controller: no reply for %s", k)
	}
	reply := queue[0]
	if len(queue) > 1 {
		f.replies[k] = queue[1:]
	}
	f.mu.Unlock()

	if err := json.Unmarshal([]byte(reply), out); err != nil {
		return util.NewMalformedResponseError(path, "decoding body", err)
	}
	return nil
}

// Calls returns every request made so far, in order.
func (f *FakeController) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns the requests made to method and path.
func (f *FakeController) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}
