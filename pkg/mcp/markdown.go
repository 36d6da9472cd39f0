package mcp

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"
)

// pageChrome is interactive page furniture that means nothing in markdown.
const pageChrome = ".tabs, .toolbar, #panel-preview, nav, script, style"

type pageConverter struct {
	conv *converter.Converter
}

func newPageConverter() *pageConverter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
	for _, tag := range []string{"button", "form", "aside", "footer"} {
		conv.Register.TagType(tag, converter.TagTypeRemove, converter.PriorityStandard)
	}
	return &pageConverter{conv: conv}
}

// Convert turns a rendered doc page into markdown. Only the main element
// is kept; the code and usage panels get their own headings.
func (c *pageConverter) Convert(page []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}
	main := doc.Find("main").First()
	if main.Length() == 0 {
		return "", errors.New("page has no main element")
	}

	main.Find(pageChrome).Remove()
	main.Find("#panel-code").PrependHtml("<h2>Code</h2>")
	main.Find("#panel-usage").PrependHtml("<h2>Usage</h2>")

	html, err := goquery.OuterHtml(main)
	if err != nil {
		return "", fmt.Errorf("serialize page: %w", err)
	}
	markdown, err := c.conv.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return strings.TrimSpace(markdown) + "\n", nil
}
