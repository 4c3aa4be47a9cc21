package bot

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/laspawn/market-bot/models"
)

// Listing column widths
const (
	columnWidthID     = 8
	columnWidthItem   = 20
	columnWidthSeller = 20
	columnWidthSpawn  = 20
)

// sellRequest holds the parsed arguments of a /sell command
type sellRequest struct {
	ItemName   string
	TotalPrice float64
	Amount     int
	LaSpawn    string
	X, Y, Z    int
}

// parseSellArgs parses "/sell <item> <total_price> <amount> <la_spawn> <x> <y> <z>".
func parseSellArgs(args []string) (sellRequest, error) {
	if len(args) != 8 {
		return sellRequest{}, errors.Errorf("expected 7 arguments, got %d", len(args)-1)
	}

	totalPrice, err := strconv.ParseFloat(args[2], 64)
	if err != nil || totalPrice < 0 {
		return sellRequest{}, errors.Errorf("invalid total price %q", args[2])
	}

	amount, err := strconv.Atoi(args[3])
	if err != nil || amount <= 0 {
		return sellRequest{}, errors.Errorf("invalid amount %q", args[3])
	}

	coords := make([]int, 3)
	for i, arg := range args[5:8] {
		coords[i], err = strconv.Atoi(arg)
		if err != nil {
			return sellRequest{}, errors.Errorf("invalid coordinate %q", arg)
		}
	}

	return sellRequest{
		ItemName:   args[1],
		TotalPrice: totalPrice,
		Amount:     amount,
		LaSpawn:    args[4],
		X:          coords[0],
		Y:          coords[1],
		Z:          coords[2],
	}, nil
}

// formatNumber collapses integral floats to plain integers, so a price of
// 10.0 renders as "10" and 10.5 stays "10.5".
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// renderOffers renders the full listing in aligned columns, one offer
// per line.
func renderOffers(offers []models.Offer) string {
	var sb strings.Builder
	for _, o := range offers {
		sb.WriteString(fmt.Sprintf(
			"%s *%s* 💰 %s / %d   🪙 %s / 1   👤 %s 📍 %s 🧭 %d %d %d\n",
			pad(strconv.Itoa(o.ID), columnWidthID),
			pad(o.ItemName, columnWidthItem),
			formatNumber(o.TotalPrice), o.Amount,
			formatNumber(o.PiecePrice),
			pad(o.Seller, columnWidthSeller),
			pad(o.LaSpawn, columnWidthSpawn),
			o.Coordinates.X, o.Coordinates.Y, o.Coordinates.Z,
		))
	}
	return sb.String()
}

// pad left-justifies s in a field of the given width, counted in runes
// so multibyte names keep the columns aligned
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
