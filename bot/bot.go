package bot

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/tucnak/telebot.v2"

	"github.com/laspawn/market-bot/config"
	"github.com/laspawn/market-bot/db"
	"github.com/laspawn/market-bot/market"
)

// Button identifiers
const (
	btnCreateOffer = "create_offer"
	btnDeleteOffer = "delete_offer"
	btnHelp        = "help"
)

// Bot represents the Telegram bot with its dependencies
type Bot struct {
	teleBot *telebot.Bot
	repo    *market.Repository
	users   *db.Database
	config  *config.Config
	// Button instances
	btnCreate *telebot.InlineButton
	btnDelete *telebot.InlineButton
	btnHelp   *telebot.InlineButton
}

// NewBot creates a new Bot instance
func NewBot(cfg *config.Config, repo *market.Repository, users *db.Database) (*Bot, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create bot")
	}

	btnCreate := telebot.InlineButton{
		Unique: btnCreateOffer,
		Text:   "📦 Create Offer",
	}

	btnDelete := telebot.InlineButton{
		Unique: btnDeleteOffer,
		Text:   "🗑 Delete Offer",
	}

	btnHelp := telebot.InlineButton{
		Unique: btnHelp,
		Text:   "❓ Help",
	}

	return &Bot{
		teleBot:   bot,
		repo:      repo,
		users:     users,
		config:    cfg,
		btnCreate: &btnCreate,
		btnDelete: &btnDelete,
		btnHelp:   &btnHelp,
	}, nil
}

// displayName returns the name offers are keyed by for a sender
func displayName(u *telebot.User) string {
	if u.Username != "" {
		return u.Username
	}
	return u.FirstName
}

// sendMainMenu sends the main menu with buttons to the user
func (b *Bot) sendMainMenu(m *telebot.Message) {
	menu := &telebot.ReplyMarkup{}
	menu.InlineKeyboard = [][]telebot.InlineButton{
		{*b.btnCreate, *b.btnDelete},
		{*b.btnHelp},
	}

	b.teleBot.Send(m.Sender, "Welcome to the spawn marketplace! Choose an option:", menu)
}

// registerUser registers a new user in the registry
func (b *Bot) registerUser(m *telebot.Message) error {
	if err := b.users.RegisterUser(m.Sender.ID, displayName(m.Sender)); err != nil {
		return err
	}

	b.teleBot.Send(m.Sender, "Successfully registered!")
	b.sendMainMenu(m)

	return nil
}

// showCreateOfferForm displays the form to create a new offer
func (b *Bot) showCreateOfferForm(m *telebot.Message) {
	instructions := `To create a new offer, send a message in this format:

/sell <item> <total_price> <amount> <la_spawn> <x> <y> <z>

Example: /sell Diamond 640 64 north_gate 120 64 -340

This lists 64 Diamond for a total of 640, picked up at north_gate (120 64 -340).`

	b.teleBot.Send(m.Sender, instructions)
}

// createOffer creates a new marketplace offer for the sender
func (b *Bot) createOffer(m *telebot.Message, req sellRequest) error {
	seller := displayName(m.Sender)

	offer, err := b.repo.CreateOffer(seller, req.ItemName, req.TotalPrice, req.Amount, req.LaSpawn, req.X, req.Y, req.Z)
	if err != nil {
		b.teleBot.Send(m.Sender, deliverError(err))
		return errors.Wrap(err, "failed to create offer")
	}

	b.teleBot.Send(m.Sender,
		"✅ Offer for "+offer.ItemName+" created successfully! ID: "+strconv.Itoa(offer.ID))
	return nil
}

// deleteOffer deletes an offer by id on behalf of the sender
func (b *Bot) deleteOffer(m *telebot.Message, offerID int) error {
	requester := displayName(m.Sender)
	isStaff := b.config.IsStaff(m.Sender.ID)

	if err := b.repo.DeleteOffer(requester, isStaff, offerID); err != nil {
		b.teleBot.Send(m.Sender, deliverError(err))
		return errors.Wrapf(err, "failed to delete offer %d", offerID)
	}

	b.teleBot.Send(m.Sender, "Offer with ID "+strconv.Itoa(offerID)+" deleted successfully.")
	return nil
}

// listAllOffers sends the full marketplace listing. Staff only.
func (b *Bot) listAllOffers(m *telebot.Message) error {
	if !b.config.IsStaff(m.Sender.ID) {
		b.teleBot.Send(m.Sender, "Only staff can view the full listing.")
		return nil
	}

	offers := b.repo.AllOffers()
	if len(offers) == 0 {
		b.teleBot.Send(m.Sender, "No offers available.")
		return nil
	}

	b.teleBot.Send(m.Sender, renderOffers(offers), telebot.ModeMarkdown)
	return nil
}

// warnUser records a warning against a user. Staff only.
func (b *Bot) warnUser(m *telebot.Message, user, reason string) error {
	if !b.config.IsStaff(m.Sender.ID) {
		b.teleBot.Send(m.Sender, "Only staff can issue warnings.")
		return nil
	}

	count, err := b.repo.WarnUser(user, reason)
	if err != nil {
		b.teleBot.Send(m.Sender, deliverError(err))
		return errors.Wrapf(err, "failed to warn %s", user)
	}

	b.teleBot.Send(m.Sender, "⚠️ "+user+" has been warned ("+strconv.Itoa(count)+" total).")
	return nil
}

// listWarnings shows the warnings recorded against a user. Staff only.
func (b *Bot) listWarnings(m *telebot.Message, user string) {
	if !b.config.IsStaff(m.Sender.ID) {
		b.teleBot.Send(m.Sender, "Only staff can view warnings.")
		return
	}

	warnings := b.repo.Warnings(user)
	if len(warnings) == 0 {
		b.teleBot.Send(m.Sender, user+" has no warnings.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Warnings for " + user + ":\n")
	for i, w := range warnings {
		sb.WriteString(strconv.Itoa(i+1) + ". " + w + "\n")
	}
	b.teleBot.Send(m.Sender, sb.String())
}

// showHelp displays help information
func (b *Bot) showHelp(m *telebot.Message) {
	helpText := `*Spawn Marketplace Help*

*Available Commands:*
/start - Register and show the main menu
/sell <item> <total_price> <amount> <la_spawn> <x> <y> <z> - Create an offer
/delete <offer_id> - Delete one of your offers
/offers - View all offers (staff only)
/warn <user> <reason> - Warn a user (staff only)
/warnings <user> - View a user's warnings (staff only)
/help - Show this help message

*How to use:*
1. Register with /start
2. Create an offer with /sell or use the button
3. Delete your offer with /delete when it is sold
4. Staff can delete any offer and issue warnings`

	b.teleBot.Send(m.Sender, helpText, telebot.ModeMarkdown)
}

// deliverError maps repository errors to user-facing messages
func deliverError(err error) string {
	switch {
	case errors.Is(err, market.ErrInvalidArgument):
		return "Invalid offer: " + err.Error()
	case errors.Is(err, market.ErrNotFound):
		return "No offer found with that ID."
	case errors.Is(err, market.ErrUnauthorized):
		return "You are not authorized to delete this offer."
	case errors.Is(err, market.ErrStorage):
		return "The marketplace could not be saved. Please tell an admin."
	default:
		return "Something went wrong. Please try again."
	}
}

// Start starts the bot and registers command handlers
func (b *Bot) Start() {
	// Register button handlers
	b.teleBot.Handle(&telebot.InlineButton{Unique: btnCreateOffer}, func(c *telebot.Callback) {
		b.teleBot.Respond(c, &telebot.CallbackResponse{})
		b.showCreateOfferForm(&telebot.Message{Sender: c.Sender})
	})

	b.teleBot.Handle(&telebot.InlineButton{Unique: btnDeleteOffer}, func(c *telebot.Callback) {
		b.teleBot.Respond(c, &telebot.CallbackResponse{})
		b.teleBot.Send(c.Sender, "To delete an offer, send /delete <offer_id>")
	})

	b.teleBot.Handle(&telebot.InlineButton{Unique: btnHelp}, func(c *telebot.Callback) {
		b.teleBot.Respond(c, &telebot.CallbackResponse{})
		b.showHelp(&telebot.Message{Sender: c.Sender})
	})

	// Register command handlers
	b.teleBot.Handle("/start", func(m *telebot.Message) {
		if err := b.registerUser(m); err != nil {
			log.Printf("Error registering user: %v", err)
		}
	})

	b.teleBot.Handle("/sell", func(m *telebot.Message) {
		req, err := parseSellArgs(strings.Fields(m.Text))
		if err != nil {
			b.showCreateOfferForm(m)
			return
		}

		if err := b.createOffer(m, req); err != nil {
			log.Printf("Error creating offer: %v", err)
		}
	})

	b.teleBot.Handle("/delete", func(m *telebot.Message) {
		args := strings.Fields(m.Text)
		if len(args) != 2 {
			b.teleBot.Send(m.Sender, "Usage: /delete <offer_id>")
			return
		}

		offerID, err := strconv.Atoi(args[1])
		if err != nil {
			b.teleBot.Send(m.Sender, "Invalid offer ID")
			return
		}

		if err := b.deleteOffer(m, offerID); err != nil {
			log.Printf("Error deleting offer: %v", err)
		}
	})

	b.teleBot.Handle("/offers", func(m *telebot.Message) {
		if err := b.listAllOffers(m); err != nil {
			log.Printf("Error listing offers: %v", err)
		}
	})

	b.teleBot.Handle("/warn", func(m *telebot.Message) {
		args := strings.Fields(m.Text)
		if len(args) < 3 {
			b.teleBot.Send(m.Sender, "Usage: /warn <user> <reason>")
			return
		}

		if err := b.warnUser(m, args[1], strings.Join(args[2:], " ")); err != nil {
			log.Printf("Error warning user: %v", err)
		}
	})

	b.teleBot.Handle("/warnings", func(m *telebot.Message) {
		args := strings.Fields(m.Text)
		if len(args) != 2 {
			b.teleBot.Send(m.Sender, "Usage: /warnings <user>")
			return
		}

		b.listWarnings(m, args[1])
	})

	b.teleBot.Handle("/help", func(m *telebot.Message) {
		b.showHelp(m)
	})

	// Handle unknown commands
	b.teleBot.Handle(telebot.OnText, func(m *telebot.Message) {
		// If message doesn't start with a command, show the main menu
		if !strings.HasPrefix(m.Text, "/") {
			b.sendMainMenu(m)
		}
	})

	log.Println("Bot started and ready to accept commands...")
	b.teleBot.Start()
}
