package grouping

import (
	"fmt"
	"sort"

	"github.com/maheshrc27/postflow/internal/models"
)

// Registry maps media ids to the descriptors returned by the upload
// collaborator. Entries never change once added.
type Registry struct {
	assets map[string]models.MediaAsset
	order  []string
}

func NewRegistry() *Registry {
	return &Registry{assets: make(map[string]models.MediaAsset)}
}

// Add records a freshly uploaded asset. Re-adding an id is rejected so an
// existing descriptor is never overwritten.
func (r *Registry) Add(asset models.MediaAsset) error {
	if asset.ID == "" {
		return fmt.Errorf("%w: media asset without id", models.ErrInvalidReference)
	}
	if _, ok := r.assets[asset.ID]; ok {
		return fmt.Errorf("%w: media %q already registered", models.ErrInvariantViolation, asset.ID)
	}
	r.assets[asset.ID] = asset
	r.order = append(r.order, asset.ID)
	return nil
}

func (r *Registry) Get(id string) (models.MediaAsset, bool) {
	a, ok := r.assets[id]
	return a, ok
}

func (r *Registry) Has(id string) bool {
	_, ok := r.assets[id]
	return ok
}

// Remove deletes an asset from the registry. Only the surrounding
// application calls this; the grouping operations never do.
func (r *Registry) Remove(id string) {
	if _, ok := r.assets[id]; !ok {
		return
	}
	delete(r.assets, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Registry) Len() int { return len(r.assets) }

// IDs returns the registered ids in upload order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Snapshot returns a copy of the registry suitable for a draft.
func (r *Registry) Snapshot() map[string]models.MediaAsset {
	out := make(map[string]models.MediaAsset, len(r.assets))
	for k, v := range r.assets {
		out[k] = v
	}
	return out
}

// RegistryFromSnapshot rebuilds a registry from a draft, ordering entries
// by their first appearance in posts and then by id for any leftovers.
func RegistryFromSnapshot(assets map[string]models.MediaAsset, posts []models.BulkPost) *Registry {
	r := NewRegistry()
	for _, p := range posts {
		for _, id := range p.MediaIDs {
			if a, ok := assets[id]; ok && !r.Has(id) {
				r.assets[id] = a
				r.order = append(r.order, id)
			}
		}
	}
	rest := make([]string, 0)
	for id := range assets {
		if !r.Has(id) {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		r.assets[id] = assets[id]
		r.order = append(r.order, id)
	}
	return r
}
