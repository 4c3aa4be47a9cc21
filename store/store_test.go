package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/laspawn/market-bot/models"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	return NewStore(filepath.Join(dir, "warns.json"), filepath.Join(dir, "offers.json")), dir
}

func TestStore_OffersRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)

	doc := OffersDocument{
		Offers: map[string][]models.Offer{
			"Alice": {
				{
					ID:          1,
					ItemName:    "Diamond",
					TotalPrice:  640,
					Amount:      64,
					PiecePrice:  10,
					Seller:      "Alice",
					LaSpawn:     "north_gate",
					Coordinates: models.Coordinates{X: 120, Y: 64, Z: -340},
				},
			},
			"Bob": {},
		},
		NextID:  3,
		FreeIDs: []int{2},
	}

	require.NoError(t, s.WriteOffers(doc))
	require.Equal(t, doc, s.ReadOffers())
}

func TestStore_WarningsRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)

	warns := map[string][]string{
		"Bob": {"spam", "scam listing"},
	}
	require.NoError(t, s.WriteWarnings(warns))
	require.Equal(t, warns, s.ReadWarnings())
}

func TestStore_MissingFilesYieldEmptyState(t *testing.T) {
	s, _ := newTestStore(t)

	doc := s.ReadOffers()
	require.Empty(t, doc.Offers)
	require.Equal(t, 1, doc.NextID)
	require.Empty(t, doc.FreeIDs)

	require.Empty(t, s.ReadWarnings())
}

func TestStore_CorruptFilesYieldEmptyState(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, os.WriteFile(s.OffersPath, []byte("][ not json"), 0o644))
	require.NoError(t, os.WriteFile(s.WarnsPath, []byte(`"a string, not an object"`), 0o644))

	doc := s.ReadOffers()
	require.Empty(t, doc.Offers)
	require.Equal(t, 1, doc.NextID)

	require.NotNil(t, s.ReadWarnings())
	require.Empty(t, s.ReadWarnings())
}

func TestStore_PartiallyDecodableWarningsYieldEmptyState(t *testing.T) {
	s, _ := newTestStore(t)

	// The first entry decodes before the second fails; none of it may
	// survive into the loaded table.
	require.NoError(t, os.WriteFile(s.WarnsPath, []byte(`{"Bob": ["spam"], "Carol": 5}`), 0o644))

	require.Empty(t, s.ReadWarnings())
}

func TestStore_PartialDocumentGetsDefaults(t *testing.T) {
	s, _ := newTestStore(t)

	// A hand-edited file missing allocator fields still loads.
	require.NoError(t, os.WriteFile(s.OffersPath, []byte(`{"offers": {}}`), 0o644))

	doc := s.ReadOffers()
	require.NotNil(t, doc.Offers)
	require.Equal(t, 1, doc.NextID)
	require.NotNil(t, doc.FreeIDs)
}

func TestStore_WireFormat(t *testing.T) {
	s, _ := newTestStore(t)

	doc := EmptyOffersDocument()
	doc.Offers["Alice"] = []models.Offer{{
		ID: 1, ItemName: "Diamond", TotalPrice: 640, Amount: 64,
		PiecePrice: 10, Seller: "Alice", LaSpawn: "spawn",
	}}
	doc.NextID = 2
	require.NoError(t, s.WriteOffers(doc))

	raw, err := os.ReadFile(s.OffersPath)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Contains(t, decoded, "offers")
	require.Contains(t, decoded, "next_id")
	require.Contains(t, decoded, "free_ids")

	for _, field := range []string{"item_name", "total_price", "piece_price", "la_spawn", "coordinates"} {
		require.Contains(t, string(raw), `"`+field+`"`)
	}
}

func TestStore_WriteLeavesNoTempFiles(t *testing.T) {
	s, dir := newTestStore(t)

	require.NoError(t, s.WriteOffers(EmptyOffersDocument()))
	require.NoError(t, s.WriteWarnings(map[string][]string{}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		require.False(t, strings.Contains(e.Name(), ".tmp-"), "leftover temp file %s", e.Name())
	}
}

func TestStore_WriteFailureIsReturned(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(
		filepath.Join(dir, "missing", "warns.json"),
		filepath.Join(dir, "missing", "offers.json"),
	)

	require.Error(t, s.WriteOffers(EmptyOffersDocument()))
	require.Error(t, s.WriteWarnings(map[string][]string{}))
}
