package export

import (
	"bytes"
	"fmt"
	"html"
)

const failureNotice = "The chart could not be rendered in any available format."

// failureDocument is the last stage of the chain. It uses no renderer and
// cannot fail.
func failureDocument(title string, failures []error) []byte {
	msgs := make([]string, 0, len(failures))
	for _, f := range failures {
		msgs = append(msgs, f.Error())
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "viewer.html", map[string]any{
		"Title":    title,
		"Notice":   failureNotice,
		"Failures": msgs,
	}); err == nil {
		return buf.Bytes()
	}
	buf.Reset()
	fmt.Fprintf(&buf, "<!doctype html><html><head><meta charset=\"utf-8\"><title>%s</title></head><body><p>%s</p><ul>",
		html.EscapeString(title), failureNotice)
	for _, m := range msgs {
		fmt.Fprintf(&buf, "<li>%s</li>", html.EscapeString(m))
	}
	buf.WriteString("</ul></body></html>")
	return buf.Bytes()
}
