package pinboard

// ContentEditor is the rich content editing widget. The board treats its
// content as an opaque string: nothing is escaped or sanitized.
type ContentEditor interface {
	Content() string
	SetContent(content string)
	// OnChange registers the callback for edits made through the widget.
	OnChange(fn func(content string))
}

// TextEditor is a plain in-memory ContentEditor. Edit simulates a user edit.
type TextEditor struct {
	content  string
	onChange func(string)
}

// NewTextEditor returns an empty editor.
func NewTextEditor() *TextEditor { return &TextEditor{} }

// Content implements ContentEditor.
func (e *TextEditor) Content() string { return e.content }

// SetContent implements ContentEditor. It does not fire OnChange.
func (e *TextEditor) SetContent(content string) { e.content = content }

// OnChange implements ContentEditor.
func (e *TextEditor) OnChange(fn func(string)) { e.onChange = fn }

// Edit replaces the content as a user edit would and notifies the listener.
func (e *TextEditor) Edit(content string) {
	e.content = content
	if e.onChange != nil {
		e.onChange(content)
	}
}

// Append adds text at the end of the content as a user edit.
func (e *TextEditor) Append(text string) {
	e.Edit(e.content + text)
}
