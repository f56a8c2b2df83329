package bridge

import (
	"context"

	"github.com/mchmarny/tunebar/pkg/menu"
	"github.com/mchmarny/tunebar/pkg/window"
)

// Frame types understood by the content layer.
const (
	TypeMessageBox     = "message-box"
	TypeOpenDialog     = "open-dialog"
	TypePrompt         = "prompt"
	TypeClipboardWrite = "clipboard-write"
	TypeURL            = "url"
	TypeCanGoBack      = "can-go-back"
	TypeCanGoForward   = "can-go-forward"
	TypeGoBack         = "go-back"
	TypeGoForward      = "go-forward"
	TypeAlwaysOnTop    = "always-on-top"
	TypeDevToolsOpened = "devtools-opened"
	TypeOpenDevTools   = "open-devtools"
	TypeCloseDevTools  = "close-devtools"
	TypeRole           = "role"
)

var _ window.Window = (*Bridge)(nil)

func (b *Bridge) ShowMessageBox(ctx context.Context, box window.MessageBox) (int, error) {
	var reply struct {
		Response int `json:"response"`
	}
	if err := b.Call(ctx, TypeMessageBox, box, &reply); err != nil {
		return 0, err
	}
	return reply.Response, nil
}

func (b *Bridge) ShowOpenDialog(ctx context.Context, dialog window.OpenDialog) ([]string, error) {
	var reply struct {
		Paths []string `json:"paths"`
	}
	if err := b.Call(ctx, TypeOpenDialog, dialog, &reply); err != nil {
		return nil, err
	}
	return reply.Paths, nil
}

func (b *Bridge) Prompt(ctx context.Context, prompt window.Prompt) (string, bool, error) {
	var reply struct {
		Value string `json:"value"`
		OK    bool   `json:"ok"`
	}
	if err := b.Call(ctx, TypePrompt, prompt, &reply); err != nil {
		return "", false, err
	}
	return reply.Value, reply.OK, nil
}

func (b *Bridge) WriteClipboard(ctx context.Context, text string) error {
	return b.Send(ctx, TypeClipboardWrite, map[string]string{"text": text})
}

func (b *Bridge) URL(ctx context.Context) (string, error) {
	var reply struct {
		URL string `json:"url"`
	}
	if err := b.Call(ctx, TypeURL, nil, &reply); err != nil {
		return "", err
	}
	return reply.URL, nil
}

func (b *Bridge) CanGoBack(ctx context.Context) (bool, error) {
	return b.callBool(ctx, TypeCanGoBack)
}

func (b *Bridge) CanGoForward(ctx context.Context) (bool, error) {
	return b.callBool(ctx, TypeCanGoForward)
}

func (b *Bridge) GoBack(ctx context.Context) error {
	return b.Send(ctx, TypeGoBack, nil)
}

func (b *Bridge) GoForward(ctx context.Context) error {
	return b.Send(ctx, TypeGoForward, nil)
}

func (b *Bridge) SetAlwaysOnTop(ctx context.Context, on bool) error {
	return b.Send(ctx, TypeAlwaysOnTop, map[string]bool{"on": on})
}

func (b *Bridge) IsDevToolsOpened(ctx context.Context) (bool, error) {
	return b.callBool(ctx, TypeDevToolsOpened)
}

func (b *Bridge) OpenDevTools(ctx context.Context) error {
	return b.Send(ctx, TypeOpenDevTools, map[string]string{"mode": "detach"})
}

func (b *Bridge) CloseDevTools(ctx context.Context) error {
	return b.Send(ctx, TypeCloseDevTools, nil)
}

// Notify sends a bare message on the named channel.
func (b *Bridge) Notify(ctx context.Context, channel string) error {
	return b.Send(ctx, channel, nil)
}

// PerformRole asks the window to run a built-in role action.
func (b *Bridge) PerformRole(ctx context.Context, role menu.Role) error {
	return b.Send(ctx, TypeRole, map[string]menu.Role{"role": role})
}

func (b *Bridge) callBool(ctx context.Context, typ string) (bool, error) {
	var reply struct {
		Value bool `json:"value"`
	}
	if err := b.Call(ctx, typ, nil, &reply); err != nil {
		return false, err
	}
	return reply.Value, nil
}
