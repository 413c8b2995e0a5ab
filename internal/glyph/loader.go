package glyph

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	DefaultSource = "builtin:gobold"

	maxFontBytes = 32 << 20
)

var builtins = map[string][]byte{
	"builtin:gobold":    gobold.TTF,
	"builtin:goregular": goregular.TTF,
}

// Future resolves exactly once to a font or an error.
type Future struct {
	done chan struct{}
	font *Font
	err  error
}

// Resolved returns a future that is already complete.
func Resolved(f *Font, err error) *Future {
	fu := &Future{done: make(chan struct{}), font: f, err: err}
	close(fu.done)
	return fu
}

// NewPromise returns a pending future and the function that resolves it.
// Only the first call to resolve has an effect.
func NewPromise() (*Future, func(*Font, error)) {
	fu := &Future{done: make(chan struct{})}
	var once sync.Once
	return fu, func(f *Font, err error) {
		once.Do(func() { fu.resolve(f, err) })
	}
}

func (f *Future) Done() <-chan struct{} { return f.done }

// Result returns the outcome without blocking. ok is false until the load
// completes.
func (f *Future) Result() (fnt *Font, err error, ok bool) {
	select {
	case <-f.done:
		return f.font, f.err, true
	default:
		return nil, nil, false
	}
}

// Wait blocks until the load completes or ctx is done.
func (f *Future) Wait(ctx context.Context) (*Font, error) {
	select {
	case <-f.done:
		return f.font, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *Future) resolve(font *Font, err error) {
	f.font, f.err = font, err
	close(f.done)
}

type Loader struct {
	Size   float64
	Client *http.Client
	log    *log.Logger
}

func NewLoader(size float64, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if size <= 0 {
		size = DefaultSize
	}
	return &Loader{
		Size:   size,
		Client: &http.Client{Timeout: 30 * time.Second},
		log:    logger,
	}
}

// Load starts fetching and parsing source in the background.
func (l *Loader) Load(ctx context.Context, source string) *Future {
	fu := &Future{done: make(chan struct{})}
	go func() {
		fu.resolve(l.LoadSync(ctx, source))
	}()
	return fu
}

// LoadSync fetches and parses source on the calling goroutine.
func (l *Loader) LoadSync(ctx context.Context, source string) (*Font, error) {
	if source == "" {
		source = DefaultSource
	}
	start := time.Now()
	data, err := l.fetch(ctx, source)
	if err != nil {
		l.log.Error("font load failed", "source", source, "err", err)
		return nil, err
	}
	f, err := Parse(source, data, l.Size)
	if err != nil {
		l.log.Error("font parse failed", "source", source, "err", err)
		return nil, err
	}
	l.log.Debug("font loaded", "source", source, "bytes", len(data), "took", time.Since(start))
	return f, nil
}

func (l *Loader) fetch(ctx context.Context, source string) ([]byte, error) {
	if data, ok := builtins[source]; ok {
		return data, nil
	}
	if strings.HasPrefix(source, "builtin:") {
		return nil, fmt.Errorf("%w: unknown builtin font %q", ErrLoadFailed, source)
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return l.fetchURL(ctx, source)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	return data, nil
}

func (l *Loader) fetchURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: %s", ErrLoadFailed, url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFontBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	return data, nil
}
