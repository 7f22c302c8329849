package conv

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var (
	mdExtensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	mdHTMLFlags  = html.CommonFlags | html.HrefTargetBlank
	telegramHTML = bluemonday.NewPolicy()
)

func init() {
	// https://core.telegram.org/bots/api#html-style
	telegramHTML.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	telegramHTML.AllowAttrs("href").OnElements("a")
	telegramHTML.AllowAttrs("class").OnElements("code")
}

// MarkdownToTelegramHTML renders markdown and strips every tag Telegram's
// HTML parse mode would reject.
func MarkdownToTelegramHTML(md []byte) string {
	p := parser.NewWithExtensions(mdExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: mdHTMLFlags})
	rendered := markdown.Render(p.Parse(md), renderer)

	return string(telegramHTML.SanitizeBytes(rendered))
}
