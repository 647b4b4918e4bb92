package nav

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Catalog fetches pages and detail records from the media catalog.
type Catalog interface {
	List(ctx context.Context, kind ListKind, page int, query string) (ListPage, error)
	Detail(ctx context.Context, id int) (*Detail, error)
}

// Messenger performs all outbound chat platform calls. Every method is
// synchronous; the controller issues them sequentially within one update.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string, grid ButtonGrid) error
	SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, grid ButtonGrid) error
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string, grid ButtonGrid) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	AnswerCallback(ctx context.Context, callbackID, text string, showAlert bool) error
}

// Callback is a platform-neutral view of an inline button click.
type Callback struct {
	ID        string
	ChatID    int64
	MessageID int
	Data      string
	// MessageIsPhoto marks the originating message as a photo (detail
	// card). Telegram cannot edit a photo message into a text message, so
	// list transitions from it must delete and resend.
	MessageIsPhoto bool
}

const (
	welcomeText     = "Welcome to AniPixel! 🚀\n\nSelect a category to explore or just send me an anime name to search!"
	menuText        = "Here are the categories:"
	noResultsText   = "Sorry, I couldn't find any results for that."
	detailFailText  = "Could not fetch details!"
	genericFailText = "Something went wrong. Please try again."
)

// Controller is the per-update navigation state machine. It owns no state of
// its own: every transition is reconstructed from the incoming command, text
// or decoded callback descriptor.
type Controller struct {
	catalog   Catalog
	msg       Messenger
	webAppURL string
	log       *slog.Logger
}

// NewController wires the navigation controller with its collaborators.
func NewController(catalog Catalog, msg Messenger, webAppURL string, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		catalog:   catalog,
		msg:       msg,
		webAppURL: webAppURL,
		log:       log,
	}
}

// Start handles the /start command: a welcome message with the category menu.
func (c *Controller) Start(ctx context.Context, chatID int64) error {
	return c.msg.SendMessage(ctx, chatID, welcomeText, RenderMenu())
}

// OpenList handles the category shortcut commands (/trending and friends),
// sending page 1 of the given list as a new message.
func (c *Controller) OpenList(ctx context.Context, chatID int64, kind ListKind) error {
	return c.sendList(ctx, chatID, kind, 1, "")
}

// Search handles free text: anything non-empty becomes a page-1 search.
func (c *Controller) Search(ctx context.Context, chatID int64, text string) error {
	query := strings.TrimSpace(text)
	if query == "" {
		c.log.InfoContext(ctx, "empty text ignored", slog.String("event", "search.skip"))
		return nil
	}
	return c.sendList(ctx, chatID, KindSearch, 1, query)
}

// HandleCallback dispatches a button click to the target screen. Malformed
// payloads are logged and acknowledged without touching the originating
// message; they never fail the update.
func (c *Controller) HandleCallback(ctx context.Context, cb Callback) error {
	d, err := Decode(cb.Data)
	if err != nil {
		c.log.WarnContext(ctx, "undecodable callback",
			slog.String("event", "callback.decode_failed"),
			slog.String("payload", cb.Data),
			slog.String("err", err.Error()),
		)
		c.ack(ctx, cb.ID)
		return nil
	}

	switch d.Action {
	case ActionMenu:
		c.ack(ctx, cb.ID)
		return c.showMenu(ctx, cb)
	case ActionList:
		c.ack(ctx, cb.ID)
		return c.showList(ctx, cb, d)
	case ActionDetail:
		return c.showDetail(ctx, cb, d)
	}
	return nil
}

// showMenu edits the originating message into the category menu. Menu
// buttons only ever appear on text messages, so an in-place edit suffices.
func (c *Controller) showMenu(ctx context.Context, cb Callback) error {
	return c.msg.EditMessageText(ctx, cb.ChatID, cb.MessageID, menuText, RenderMenu())
}

// showList replaces the originating message with the requested list page.
// Coming back from a photo detail card requires delete plus resend; a text
// origin is edited in place.
func (c *Controller) showList(ctx context.Context, cb Callback, d Descriptor) error {
	text, grid := c.buildListScreen(ctx, d.Kind, d.Page, d.Query)

	if cb.MessageIsPhoto {
		if err := c.msg.DeleteMessage(ctx, cb.ChatID, cb.MessageID); err != nil {
			c.log.WarnContext(ctx, "delete before resend failed",
				slog.String("event", "list.delete_failed"),
				slog.String("err", err.Error()),
			)
		}
		return c.msg.SendMessage(ctx, cb.ChatID, text, grid)
	}
	return c.msg.EditMessageText(ctx, cb.ChatID, cb.MessageID, text, grid)
}

func (c *Controller) showDetail(ctx context.Context, cb Callback, d Descriptor) error {
	det, err := c.catalog.Detail(ctx, d.ItemID)
	if err != nil || det == nil {
		c.log.WarnContext(ctx, "detail fetch failed",
			slog.String("event", "detail.fetch_failed"),
			slog.Int("item_id", d.ItemID),
			slog.Any("err", err),
		)
		if ackErr := c.msg.AnswerCallback(ctx, cb.ID, detailFailText, true); ackErr != nil {
			c.log.WarnContext(ctx, "callback answer failed",
				slog.String("event", "callback.answer_failed"),
				slog.String("err", ackErr.Error()),
			)
		}
		return nil
	}

	grid, err := RenderDetail(c.webAppURL, det.ID, d.Return)
	if err != nil {
		c.log.ErrorContext(ctx, "detail render failed",
			slog.String("event", "detail.render_failed"),
			slog.Int("item_id", d.ItemID),
			slog.String("err", err.Error()),
		)
		if ackErr := c.msg.AnswerCallback(ctx, cb.ID, genericFailText, true); ackErr != nil {
			c.log.WarnContext(ctx, "callback answer failed",
				slog.String("event", "callback.answer_failed"),
				slog.String("err", ackErr.Error()),
			)
		}
		return nil
	}

	c.ack(ctx, cb.ID)

	// Telegram cannot edit a text message into a photo message; delete
	// then send is the only supported transition.
	if err := c.msg.DeleteMessage(ctx, cb.ChatID, cb.MessageID); err != nil {
		c.log.WarnContext(ctx, "delete before photo failed",
			slog.String("event", "detail.delete_failed"),
			slog.String("err", err.Error()),
		)
	}
	if err := c.msg.SendPhoto(ctx, cb.ChatID, det.CoverURL, DetailCaption(det), grid); err != nil {
		return fmt.Errorf("send detail card: %w", err)
	}
	return nil
}

// sendList fetches and sends a list page as a fresh message (command and
// free-text entry points).
func (c *Controller) sendList(ctx context.Context, chatID int64, kind ListKind, page int, query string) error {
	text, grid := c.buildListScreen(ctx, kind, page, query)
	return c.msg.SendMessage(ctx, chatID, text, grid)
}

// buildListScreen fetches one page and renders it. Catalog failures and
// empty pages both collapse to the no-results screen; the menu row keeps the
// dead end recoverable.
func (c *Controller) buildListScreen(ctx context.Context, kind ListKind, page int, query string) (string, ButtonGrid) {
	p, err := c.catalog.List(ctx, kind, page, query)
	if err != nil {
		c.log.WarnContext(ctx, "list fetch failed",
			slog.String("event", "list.fetch_failed"),
			slog.String("kind", kind.String()),
			slog.Int("page", page),
			slog.String("err", err.Error()),
		)
		return noResultsText, ButtonGrid{menuRow()}
	}
	if len(p.Items) == 0 {
		return noResultsText, ButtonGrid{menuRow()}
	}

	grid, err := RenderList(p, kind, page, query)
	if err != nil {
		c.log.WarnContext(ctx, "list render failed",
			slog.String("event", "list.render_failed"),
			slog.String("kind", kind.String()),
			slog.Int("page", page),
			slog.String("err", err.Error()),
		)
		return noResultsText, ButtonGrid{menuRow()}
	}

	c.log.InfoContext(ctx, "list screen built",
		slog.String("event", "list.built"),
		slog.String("kind", kind.String()),
		slog.Int("page", page),
		slog.Int("count", len(p.Items)),
		slog.Bool("has_next", p.HasNextPage),
	)
	return ListHeader(kind, page, query), grid
}

// ack answers a callback query to clear the client's loading indicator.
// Failure here must not block the rest of the transition.
func (c *Controller) ack(ctx context.Context, callbackID string) {
	if callbackID == "" {
		return
	}
	if err := c.msg.AnswerCallback(ctx, callbackID, "", false); err != nil {
		c.log.WarnContext(ctx, "callback ack failed",
			slog.String("event", "callback.ack_failed"),
			slog.String("err", err.Error()),
		)
	}
}
