package devkit

import (
	"sync"

	"github.com/goliatone/go-socialconnect/core"
)

// FakeWebView records what the client asks it to show and lets tests drive
// navigations.
type FakeWebView struct {
	mu      sync.Mutex
	active  bool
	history []bool
	urls    []string
	handler func(string)
}

func NewFakeWebView() *FakeWebView {
	return &FakeWebView{}
}

func (w *FakeWebView) SetActive(active bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = active
	w.history = append(w.history, active)
}

func (w *FakeWebView) SetURL(url string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.urls = append(w.urls, url)
}

func (w *FakeWebView) OnURLChanged(handler func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handler = handler
}

// Navigate reports url to the registered handler as if the page moved there.
func (w *FakeWebView) Navigate(url string) {
	w.mu.Lock()
	handler := w.handler
	w.mu.Unlock()
	if handler != nil {
		handler(url)
	}
}

func (w *FakeWebView) Active() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

func (w *FakeWebView) ActiveHistory() []bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]bool(nil), w.history...)
}

func (w *FakeWebView) URLs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.urls...)
}

func (w *FakeWebView) LastURL() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.urls) == 0 {
		return ""
	}
	return w.urls[len(w.urls)-1]
}

var _ core.WebView = (*FakeWebView)(nil)
