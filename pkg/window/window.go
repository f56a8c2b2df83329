// Package window defines the requests the menu sends to the player window.
package window

import "context"

// MessageBox is a native message dialog.
type MessageBox struct {
	Type    string   `json:"type"`
	Title   string   `json:"title,omitempty"`
	Message string   `json:"message"`
	Buttons []string `json:"buttons,omitempty"`
}

// FileFilter restricts an open dialog to extensions.
type FileFilter struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
}

// Open dialog properties.
const (
	PropOpenFile        = "openFile"
	PropOpenDirectory   = "openDirectory"
	PropMultiSelections = "multiSelections"
)

// OpenDialog is a native file picker.
type OpenDialog struct {
	Title      string       `json:"title,omitempty"`
	Filters    []FileFilter `json:"filters,omitempty"`
	Properties []string     `json:"properties,omitempty"`
}

// Prompt is a modal single-line text input.
type Prompt struct {
	Title       string `json:"title"`
	Label       string `json:"label"`
	Value       string `json:"value"`
	Placeholder string `json:"placeholder,omitempty"`
	InputType   string `json:"inputType,omitempty"`
}

// Window is the player window and the content layer it hosts.
type Window interface {
	// ShowMessageBox shows the dialog and returns the index of the button
	// the user picked.
	ShowMessageBox(ctx context.Context, box MessageBox) (int, error)

	// ShowOpenDialog returns the selected paths, empty when cancelled.
	ShowOpenDialog(ctx context.Context, dialog OpenDialog) ([]string, error)

	// Prompt returns the entered value, or ok false when cancelled.
	Prompt(ctx context.Context, prompt Prompt) (value string, ok bool, err error)

	WriteClipboard(ctx context.Context, text string) error
	URL(ctx context.Context) (string, error)

	CanGoBack(ctx context.Context) (bool, error)
	CanGoForward(ctx context.Context) (bool, error)
	GoBack(ctx context.Context) error
	GoForward(ctx context.Context) error

	SetAlwaysOnTop(ctx context.Context, on bool) error

	IsDevToolsOpened(ctx context.Context) (bool, error)
	OpenDevTools(ctx context.Context) error
	CloseDevTools(ctx context.Context) error

	// Notify sends a one-way message to the content layer.
	Notify(ctx context.Context, channel string) error
}
