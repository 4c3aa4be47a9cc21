package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/laspawn/market-bot/models"
)

// OffersDocument is the on-disk layout of the offers file: every seller's
// listings plus the allocator state needed to hand out ids after a restart.
type OffersDocument struct {
	Offers  map[string][]models.Offer `json:"offers"`
	NextID  int                       `json:"next_id"`
	FreeIDs []int                     `json:"free_ids"`
}

// EmptyOffersDocument returns the state of a marketplace that has never
// sold anything.
func EmptyOffersDocument() OffersDocument {
	return OffersDocument{
		Offers:  map[string][]models.Offer{},
		NextID:  1,
		FreeIDs: []int{},
	}
}

// Store reads and writes the two JSON documents the bot persists: the
// warnings table and the offers table. Every save is a full snapshot
// overwrite; there are no deltas and no log.
type Store struct {
	WarnsPath  string
	OffersPath string
}

// NewStore creates a store over the given file paths
func NewStore(warnsPath, offersPath string) *Store {
	return &Store{
		WarnsPath:  warnsPath,
		OffersPath: offersPath,
	}
}

// ReadWarnings loads the warnings document. A missing or unparsable file
// yields an empty table rather than an error: the next save overwrites it
// with a valid document.
func (s *Store) ReadWarnings() map[string][]string {
	warns := map[string][]string{}
	if !readJSON(s.WarnsPath, &warns) {
		return map[string][]string{}
	}
	if warns == nil {
		warns = map[string][]string{}
	}
	return warns
}

// WriteWarnings persists the warnings document
func (s *Store) WriteWarnings(warns map[string][]string) error {
	if err := writeJSON(s.WarnsPath, warns); err != nil {
		return errors.Wrap(err, "failed to write warnings file")
	}
	return nil
}

// ReadOffers loads the offers document. Like ReadWarnings, absence or
// corruption is non-fatal and yields the empty document.
func (s *Store) ReadOffers() OffersDocument {
	doc := EmptyOffersDocument()
	if !readJSON(s.OffersPath, &doc) {
		return EmptyOffersDocument()
	}
	if doc.Offers == nil {
		doc.Offers = map[string][]models.Offer{}
	}
	if doc.NextID < 1 {
		doc.NextID = 1
	}
	if doc.FreeIDs == nil {
		doc.FreeIDs = []int{}
	}
	return doc
}

// WriteOffers persists the offers document
func (s *Store) WriteOffers(doc OffersDocument) error {
	if err := writeJSON(s.OffersPath, doc); err != nil {
		return errors.Wrap(err, "failed to write offers file")
	}
	return nil
}

// readJSON reports whether the file existed and parsed.
func readJSON(path string, v interface{}) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// writeJSON marshals v and replaces path atomically: the document is
// written to a temp file in the same directory and renamed over the
// target, so a reader never observes a partial write.
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal document")
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, "failed to write temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "failed to close temp file")
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "failed to replace document")
	}
	return nil
}
