package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"go.uber.org/atomic"

	"umbrella-customizer/logger"
	"umbrella-customizer/models"
)

const (
	inboxSize       = 16
	subscriberQueue = 32
)

// CustomizerOptions configures a Customizer session
type CustomizerOptions struct {
	Logger              *logger.Logger
	NotificationTimeout time.Duration
	NotificationExit    time.Duration
}

// Customizer is one user's customization session.
//
// A single loop goroutine owns the theme and logo state; every intent runs on it
// in dispatch order. Image decoding and export compositing run off the loop and
// post their completion back to it. Overlapping operations are cancel-and-replace:
// a newer upload, color warm-up or export makes the pending one stale.
type Customizer struct {
	id       string
	renderer *Renderer
	decode   func(data []byte) (image.Image, string, error)
	notifier *Notifier
	log      *logger.Logger

	inbox   chan func()
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once

	ctx    context.Context
	cancel context.CancelFunc

	lastActive *atomic.Time

	// owned by the loop goroutine
	theme        *ThemeState
	logo         *LogoState
	revision     uint64
	warmGen      uint64
	warming      bool
	uploadGen    uint64
	uploading    bool
	exportGen    uint64
	exportCancel context.CancelFunc
	subscribers  map[int]chan models.Event
	nextSub      int
}

// NewCustomizer creates a session and starts its loop
func NewCustomizer(id string, renderer *Renderer, opts CustomizerOptions) *Customizer {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	c := &Customizer{
		id:          id,
		renderer:    renderer,
		decode:      DecodeImage,
		notifier:    NewNotifier(opts.NotificationTimeout, opts.NotificationExit),
		log:         log.With("session", id),
		inbox:       make(chan func(), inboxSize),
		quit:        make(chan struct{}),
		stopped:     make(chan struct{}),
		ctx:         ctx,
		cancel:      cancel,
		lastActive:  atomic.NewTime(time.Now()),
		theme:       NewThemeState(),
		logo:        NewLogoState(),
		subscribers: make(map[int]chan models.Event),
	}
	go c.run()
	return c
}

// ID returns the session id
func (c *Customizer) ID() string {
	return c.id
}

// LastActive returns when the session last received an intent
func (c *Customizer) LastActive() time.Time {
	return c.lastActive.Load()
}

// Notifications returns the notifications currently shown
func (c *Customizer) Notifications() []models.Notification {
	return c.notifier.Active()
}

// Close stops the loop, cancels pending work and releases subscribers
func (c *Customizer) Close() {
	c.once.Do(func() {
		close(c.quit)
		<-c.stopped
		c.cancel()
		c.notifier.Close()
	})
}

func (c *Customizer) run() {
	defer close(c.stopped)
	for {
		select {
		case fn := <-c.inbox:
			fn()
		case <-c.quit:
			if c.exportCancel != nil {
				c.exportCancel()
			}
			for id, ch := range c.subscribers {
				close(ch)
				delete(c.subscribers, id)
			}
			return
		}
	}
}

// do runs fn on the loop and waits for it to finish
func (c *Customizer) do(ctx context.Context, fn func()) error {
	c.lastActive.Store(time.Now())
	done := make(chan struct{})
	task := func() {
		defer close(done)
		fn()
	}

	select {
	case c.inbox <- task:
	case <-c.quit:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-c.stopped:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post queues a completion from a worker goroutine. Dropped once the session is closed.
func (c *Customizer) post(fn func()) bool {
	select {
	case <-c.quit:
		return false
	default:
	}
	select {
	case c.inbox <- fn:
		return true
	case <-c.quit:
		return false
	}
}

func (c *Customizer) emit(kind models.EventKind) {
	c.revision++
	event := models.Event{
		Kind:     kind,
		Color:    c.theme.Color(),
		LogoSize: c.logo.Size(),
		HasLogo:  c.logo.Logo() != nil,
		Revision: c.revision,
	}
	for _, ch := range c.subscribers {
		select {
		case ch <- event:
		default:
			// slow subscriber, drop
		}
	}
}

func (c *Customizer) fail(err error) {
	if errors.Is(err, ErrSuperseded) || errors.Is(err, context.Canceled) {
		return
	}
	c.notifier.Notify(UserMessage(err))
}

// Subscribe returns a channel receiving every event emitted from now on,
// and a function that unsubscribes it
func (c *Customizer) Subscribe(ctx context.Context) (<-chan models.Event, func(), error) {
	ch := make(chan models.Event, subscriberQueue)
	var id int
	err := c.do(ctx, func() {
		c.nextSub++
		id = c.nextSub
		c.subscribers[id] = ch
	})
	if err != nil {
		return nil, nil, err
	}

	unsubscribe := func() {
		_ = c.do(context.Background(), func() {
			if sub, ok := c.subscribers[id]; ok {
				close(sub)
				delete(c.subscribers, id)
			}
		})
	}
	return ch, unsubscribe, nil
}

// Snapshot returns a copy of the current state
func (c *Customizer) Snapshot(ctx context.Context) (models.Snapshot, error) {
	var snap models.Snapshot
	err := c.do(ctx, func() { snap = c.snapshot() })
	return snap, err
}

func (c *Customizer) snapshot() models.Snapshot {
	snap := models.Snapshot{
		SessionID: c.id,
		Color:     c.theme.Color(),
		LogoSize:  c.logo.Size(),
		Loading:   c.warming || c.uploading || c.exportCancel != nil,
		Revision:  c.revision,
	}
	if logo := c.logo.Logo(); logo != nil {
		snap.HasLogo = true
		snap.LogoName = logo.FileName
		snap.Logo = logo.Image
		snap.LogoData = logo.Data
	}
	return snap
}

// Logo returns the current logo, or nil
func (c *Customizer) Logo(ctx context.Context) (*Logo, error) {
	var logo *Logo
	err := c.do(ctx, func() { logo = c.logo.Logo() })
	return logo, err
}

// SelectColor switches the theme. Selecting the active color is a no-op.
// The new base image is warmed in the background while the session reports loading.
func (c *Customizer) SelectColor(ctx context.Context, name string) error {
	color, ok := models.ParseColor(name)
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnknownColor, name)
		c.fail(err)
		return err
	}
	return c.do(ctx, func() { c.selectColor(color) })
}

func (c *Customizer) selectColor(color models.Color) {
	if !c.theme.SetColor(color) {
		return
	}
	c.emit(models.EventThemeChanged)
	c.log.Debug("color selected", "color", string(color))

	c.warmGen++
	gen := c.warmGen
	c.warming = true
	go func() {
		_, err := c.renderer.BaseImage(c.ctx, color)
		c.post(func() {
			if gen != c.warmGen {
				return
			}
			c.warming = false
			if err != nil {
				c.log.Error(err, "failed to load base image", "color", string(color))
				c.fail(fmt.Errorf("%w: %w", ErrDecode, err))
			}
		})
	}()
}

// UploadLogo validates and decodes up, then replaces the logo.
// On any failure the previous logo is kept.
func (c *Customizer) UploadLogo(ctx context.Context, up Upload) error {
	if err := ValidateUpload(&up); err != nil {
		c.log.Warn("logo rejected", "error", err.Error())
		c.fail(err)
		return err
	}

	result := make(chan error, 1)
	err := c.do(ctx, func() {
		c.uploadGen++
		gen := c.uploadGen
		c.uploading = true

		go func() {
			img, format, decodeErr := c.decode(up.Data)
			posted := c.post(func() {
				if gen != c.uploadGen {
					result <- ErrSuperseded
					return
				}
				c.uploading = false
				if decodeErr != nil {
					c.log.Warn("logo decode failed", "error", decodeErr.Error())
					c.fail(decodeErr)
					result <- decodeErr
					return
				}
				c.logo.Replace(&Logo{
					Image:     img,
					Data:      up.Data,
					Format:    format,
					MimeType:  up.MimeType,
					FileName:  up.FileName,
					SizeBytes: up.SizeBytes,
				})
				c.emit(models.EventLogoChanged)
				c.log.Debug("logo uploaded", "format", format, "bytes", up.SizeBytes)
				result <- nil
			})
			if !posted {
				result <- ErrSessionClosed
			}
		}()
	})
	if err != nil {
		return err
	}

	select {
	case err := <-result:
		return err
	case <-c.stopped:
		// a completion queued while closing never runs
		select {
		case err := <-result:
			return err
		default:
			return ErrSessionClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RemoveLogo clears the logo unconditionally. A pending upload is discarded.
func (c *Customizer) RemoveLogo(ctx context.Context) error {
	return c.do(ctx, c.removeLogo)
}

func (c *Customizer) removeLogo() {
	c.uploadGen++
	c.uploading = false
	c.logo.Remove()
	c.emit(models.EventLogoChanged)
}

// SetLogoSize clamps scale to [MinLogoSize, MaxLogoSize] and returns the stored value
func (c *Customizer) SetLogoSize(ctx context.Context, scale int) (int, error) {
	var stored int
	err := c.do(ctx, func() { stored = c.setLogoSize(scale) })
	return stored, err
}

func (c *Customizer) setLogoSize(scale int) int {
	stored := c.logo.SetSize(scale)
	c.emit(models.EventSizeChanged)
	return stored
}

// Reset returns to the default color, clears the logo and restores the default
// size, in that order
func (c *Customizer) Reset(ctx context.Context) error {
	return c.do(ctx, func() {
		c.selectColor(models.DefaultColor)
		c.removeLogo()
		c.setLogoSize(DefaultLogoSize)
	})
}

// Export composites the current state into a PNG. Starting a new export
// cancels one still in flight; its caller gets ErrSuperseded.
func (c *Customizer) Export(ctx context.Context) (*models.Export, error) {
	var (
		snap   models.Snapshot
		jobCtx context.Context
		cancel context.CancelFunc
		gen    uint64
	)
	err := c.do(ctx, func() {
		if c.exportCancel != nil {
			c.exportCancel()
		}
		jobCtx, cancel = context.WithCancel(c.ctx)
		c.exportGen++
		gen = c.exportGen
		c.exportCancel = cancel
		snap = c.snapshot()
	})
	if err != nil {
		return nil, err
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	export, err := c.renderer.Composite(jobCtx, snap)

	c.post(func() {
		if gen == c.exportGen {
			c.exportCancel = nil
		}
	})
	cancel()

	if err != nil {
		if jobCtx.Err() != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			select {
			case <-c.quit:
				return nil, ErrSessionClosed
			default:
				return nil, ErrSuperseded
			}
		}
		c.log.Error(err, "export failed", "color", string(snap.Color))
		c.fail(err)
		return nil, err
	}

	c.log.Info("preview exported", "file", export.FileName, "bytes", len(export.Data))
	return export, nil
}
