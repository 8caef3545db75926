// Package bot is the conversation engine: it routes incoming chat
// events to flow steps, carries per-user state between turns and
// guards every step behind a shared error boundary.
package bot

import "context"

// Button is one inline keyboard button. Op selects the callback
// handler, Arg is the operation argument carried back on press.
type Button struct {
	Text string
	Op   string
	Arg  string
}

// Keyboard is a transport-neutral reply markup: either inline rows,
// reply rows or a removal marker.
type Keyboard struct {
	Inline [][]Button
	Reply  [][]string
	Remove bool
}

// InlineKeyboard builds an inline keyboard from button rows.
func InlineKeyboard(rows ...[]Button) *Keyboard {
	return &Keyboard{Inline: rows}
}

// InlineChunk lays buttons out with up to width per row.
func InlineChunk(buttons []Button, width int) *Keyboard {
	if width < 1 {
		width = 1
	}
	var rows [][]Button
	for i := 0; i < len(buttons); i += width {
		end := i + width
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, buttons[i:end])
	}
	return &Keyboard{Inline: rows}
}

// ReplyKeyboard builds a reply keyboard from label rows.
func ReplyKeyboard(rows ...[]string) *Keyboard {
	return &Keyboard{Reply: rows}
}

// RemoveKeyboard hides the reply keyboard.
func RemoveKeyboard() *Keyboard {
	return &Keyboard{Remove: true}
}

// InlineOps lists the distinct callback operations of the inline rows.
// Nil and reply-only keyboards yield none.
func (k *Keyboard) InlineOps() []string {
	if k == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var ops []string
	for _, row := range k.Inline {
		for _, b := range row {
			if _, ok := seen[b.Op]; ok {
				continue
			}
			seen[b.Op] = struct{}{}
			ops = append(ops, b.Op)
		}
	}
	return ops
}

// Gateway abstracts the chat transport. The Telegram implementation
// lives in internal/telegram; tests use an in-memory fake.
type Gateway interface {
	// Send delivers a message and returns its id for later cleanup.
	Send(ctx context.Context, chatID int64, text string, kb *Keyboard) (int, error)
	// Edit replaces the text and markup of an already sent message.
	Edit(ctx context.Context, chatID int64, messageID int, text string, kb *Keyboard) error
	// Delete removes messages best-effort; failures are logged, not returned.
	Delete(ctx context.Context, chatID int64, messageIDs ...int)
}
