// Package editor drives one draft through uploads, removals and the final
// save, in the order the admin screens perform them.
package editor

import (
	"context"
	"sync"

	"github.com/alcotrade/alcotrade-cms/internal/draft"
	"github.com/alcotrade/alcotrade-cms/pkg/cmsclient"
	"github.com/alcotrade/alcotrade-cms/pkg/logger"
)

// Gateway is the remote side of an editing session.
type Gateway interface {
	Upload(ctx context.Context, file cmsclient.File) (draft.MediaRef, error)
	Remove(ctx context.Context, mediaID, externalRef string) error
	SaveProduct(ctx context.Context, payload draft.ProductPayload) (string, error)
	SaveBrand(ctx context.Context, payload draft.BrandPayload) (string, error)
}

// remover issues best-effort remote deletes in the background.
type remover struct {
	gw      Gateway
	logg    *logger.Logger
	pending sync.WaitGroup
}

func (r *remover) remove(ctx context.Context, ref draft.MediaRef) {
	externalRef := ""
	if ref.ExternalRef != nil {
		externalRef = *ref.ExternalRef
	}
	if ref.ID == "" && externalRef == "" {
		return
	}
	ctx = context.WithoutCancel(ctx)
	r.pending.Add(1)
	go func() {
		defer r.pending.Done()
		if err := r.gw.Remove(ctx, ref.ID, externalRef); err != nil {
			warnCtx := r.logg.WithFields(ctx, map[string]any{
				"media_id":  ref.ID,
				"public_id": externalRef,
				"error":     err.Error(),
			})
			r.logg.Warn(warnCtx, "editor.remove_failed")
		}
	}()
}

// Wait blocks until background removals have finished.
func (r *remover) Wait() {
	r.pending.Wait()
}
