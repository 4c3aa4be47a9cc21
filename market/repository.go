package market

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/laspawn/market-bot/models"
	"github.com/laspawn/market-bot/store"
)

// Repository is the in-memory authoritative table of offers and warnings,
// synchronized to the Store after every mutation. A single mutex
// serializes all operations, including the save performed under it; that
// is the only consistency protocol between memory and disk.
type Repository struct {
	mu sync.Mutex

	offers  map[string][]models.Offer
	sellers []string // iteration order: first-offer insertion order
	alloc   *Allocator
	warns   map[string][]string

	store *store.Store
}

// NewRepository loads the full repository state from the store before any
// command is served. A JSON object does not preserve key order, so the
// seller order of a reloaded table is lexicographic; within a process
// lifetime, insertion order is kept.
func NewRepository(s *store.Store) *Repository {
	doc := s.ReadOffers()

	sellers := make([]string, 0, len(doc.Offers))
	for seller := range doc.Offers {
		sellers = append(sellers, seller)
	}
	sort.Strings(sellers)

	return &Repository{
		offers:  doc.Offers,
		sellers: sellers,
		alloc:   NewAllocator(doc.NextID, doc.FreeIDs),
		warns:   s.ReadWarnings(),
		store:   s,
	}
}

// CreateOffer validates the listing, assigns it an id, appends it to the
// seller's list and persists the repository. The returned offer carries
// the assigned id and the derived per-piece price.
func (r *Repository) CreateOffer(seller, itemName string, totalPrice float64, amount int, laSpawn string, x, y, z int) (models.Offer, error) {
	if amount <= 0 {
		return models.Offer{}, errors.WithMessagef(ErrInvalidArgument, "amount must be positive, got %d", amount)
	}
	if totalPrice < 0 {
		return models.Offer{}, errors.WithMessagef(ErrInvalidArgument, "total price must not be negative, got %v", totalPrice)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	offer := models.Offer{
		ID:          r.alloc.Allocate(),
		ItemName:    itemName,
		TotalPrice:  totalPrice,
		Amount:      amount,
		PiecePrice:  totalPrice / float64(amount),
		Seller:      seller,
		LaSpawn:     laSpawn,
		Coordinates: models.Coordinates{X: x, Y: y, Z: z},
	}

	if _, ok := r.offers[seller]; !ok {
		r.sellers = append(r.sellers, seller)
	}
	r.offers[seller] = append(r.offers[seller], offer)

	if err := r.saveOffers(); err != nil {
		return offer, err
	}
	return offer, nil
}

// DeleteOffer removes the offer with the given id, returns its id to the
// free list and persists. Only the seller or staff may delete an offer.
// The scan is linear over all sellers; at marketplace scale an id index
// is not worth its bookkeeping.
func (r *Repository) DeleteOffer(requester string, isStaff bool, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, seller := range r.sellers {
		for i, offer := range r.offers[seller] {
			if offer.ID != id {
				continue
			}
			if requester != offer.Seller && !isStaff {
				return errors.WithMessagef(ErrUnauthorized, "offer %d belongs to %s", id, offer.Seller)
			}

			// The seller's (possibly now empty) list stays: the seller
			// keeps their position if they list again.
			r.offers[seller] = append(r.offers[seller][:i], r.offers[seller][i+1:]...)
			if err := r.alloc.Release(id); err != nil {
				return errors.Wrapf(err, "failed to release id %d", id)
			}
			return r.saveOffers()
		}
	}
	return errors.WithMessagef(ErrNotFound, "no offer with id %d", id)
}

// AllOffers returns every offer across all sellers, in seller insertion
// order and per-seller append order. Read-only; no persistence side
// effect. Visibility is the command layer's concern: any caller reaching
// this sees everything.
func (r *Repository) AllOffers() []models.Offer {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Offer
	for _, seller := range r.sellers {
		out = append(out, r.offers[seller]...)
	}
	return out
}

// WarnUser records a warning against a user and persists the warnings
// table, returning the user's new warning count.
func (r *Repository) WarnUser(user, reason string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.warns[user] = append(r.warns[user], reason)
	if err := r.store.WriteWarnings(r.warns); err != nil {
		return len(r.warns[user]), errors.WithMessage(ErrStorage, err.Error())
	}
	return len(r.warns[user]), nil
}

// Warnings returns a copy of the warnings recorded against a user.
func (r *Repository) Warnings(user string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.warns[user]))
	copy(out, r.warns[user])
	return out
}

// saveOffers snapshots the offer table and allocator state to disk.
// Caller must hold r.mu.
func (r *Repository) saveOffers() error {
	doc := store.OffersDocument{
		Offers:  r.offers,
		NextID:  r.alloc.NextID(),
		FreeIDs: r.alloc.FreeIDs(),
	}
	if err := r.store.WriteOffers(doc); err != nil {
		return errors.WithMessage(ErrStorage, err.Error())
	}
	return nil
}
