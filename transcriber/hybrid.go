package transcriber

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vtype/audio"
	"vtype/log"
)

const (
	fallbackCooldown = 5 * time.Minute
)

// Hybrid prefers the primary backend and fails over to the secondary.
// After a failover the primary sits out a cooldown window so a flapping
// service does not add its timeout to every dictation.
type Hybrid struct {
	primary        Processor
	secondary      Processor
	enableFallback bool
	now            func() time.Time

	mu           sync.Mutex
	lastFallback time.Time
	failedOver   bool
}

func NewHybrid(primary, secondary Processor, enableFallback bool) *Hybrid {
	return &Hybrid{
		primary:        primary,
		secondary:      secondary,
		enableFallback: enableFallback,
		now:            time.Now,
	}
}

func (h *Hybrid) Name() string { return "hybrid" }

func (h *Hybrid) shouldTryPrimary() bool {
	if h.primary == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failedOver && h.now().Sub(h.lastFallback) < fallbackCooldown {
		return false
	}
	return true
}

func (h *Hybrid) Process(ctx context.Context, buf audio.Buffer, mode Mode) (string, error) {
	var primaryErr error

	if h.shouldTryPrimary() {
		text, err := h.primary.Process(ctx, buf, mode)
		if err == nil {
			h.mu.Lock()
			if h.failedOver {
				log.Infof("%s recovered, leaving failover", h.primary.Name())
				h.failedOver = false
			}
			h.mu.Unlock()
			return text, nil
		}
		if !h.enableFallback || ctx.Err() != nil {
			return "", err
		}
		primaryErr = err
		log.Warnf("%s failed (%v), trying %s", h.primary.Name(), err, h.secondaryName())
	}

	if h.secondary == nil || (!h.enableFallback && h.primary != nil) {
		if primaryErr != nil {
			return "", primaryErr
		}
		return "", fmt.Errorf("no transcription backend available")
	}

	text, err := h.secondary.Process(ctx, buf, mode)
	if err != nil {
		if primaryErr != nil {
			return "", fmt.Errorf("all backends failed: %w", err)
		}
		return "", err
	}

	if primaryErr != nil {
		h.mu.Lock()
		h.failedOver = true
		h.lastFallback = h.now()
		h.mu.Unlock()
	}
	return text, nil
}

func (h *Hybrid) secondaryName() string {
	if h.secondary == nil {
		return "none"
	}
	return h.secondary.Name()
}
