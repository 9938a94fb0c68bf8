package hogar

import (
	"context"

	"github.com/desertthunder/grand/internal/models"
	"github.com/desertthunder/grand/internal/session"
)

// ItemSource names where the carousel items came from.
type ItemSource string

const (
	SourceBackend ItemSource = "backend"
	SourcePlan    ItemSource = "plan"
	SourceDemo    ItemSource = "demo"
)

// Lister lists a credencial's content on the backend.
type Lister interface {
	ListContent(ctx context.Context, credencialID int) ([]models.BackendItem, error)
}

// LoadItems picks the carousel items for the device behind store.
//
// A registered device gets its backend listing; otherwise, or when the listing is empty or fails,
// the stored plan is used, then [DemoItems]. The backend error is returned alongside the items
// so callers can report it; items are always usable.
func LoadItems(ctx context.Context, store *session.Store, lister Lister) ([]Item, ItemSource, error) {
	var listErr error
	if lister != nil {
		id, ok, err := store.CredencialID(ctx)
		if err != nil {
			return nil, "", err
		}
		if ok {
			rows, err := lister.ListContent(ctx, id)
			if err == nil {
				if items := FromBackend(rows); len(items) > 0 {
					return items, SourceBackend, nil
				}
			}
			listErr = err
		}
	}

	plan, err := store.Content(ctx)
	if err != nil {
		return nil, "", err
	}
	if items := FromPlan(plan); len(items) > 0 {
		return items, SourcePlan, listErr
	}
	return DemoItems(), SourceDemo, listErr
}

// LoadEvents converts the stored nearby events for the prompt, or returns [SampleEvents].
func LoadEvents(ctx context.Context, store *session.Store) ([]PromptEvent, error) {
	events, err := store.NearbyEvents(ctx)
	if err != nil {
		return nil, err
	}
	if prompts := FromEvents(events); len(prompts) > 0 {
		return prompts, nil
	}
	return SampleEvents(), nil
}
